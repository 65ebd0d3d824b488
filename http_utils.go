package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// validateResponse checks the response for a 2xx status code.
// It returns an *ApiError for anything else, including a nil response.
func validateResponse(response *http.Response) error {
	requestURL := "<unknown URL>"
	method := "<unknown method>"
	if response == nil {
		return &ApiError{
			Method:     method,
			URL:        requestURL,
			StatusCode: 0,
			Body:       "server unreachable: verify the host is correct and the network is accessible",
		}
	}
	if response.StatusCode >= 200 && response.StatusCode <= 299 {
		return nil
	}
	if response.Request != nil {
		if response.Request.URL != nil {
			requestURL = response.Request.URL.String()
		}
		method = response.Request.Method
	}
	return &ApiError{
		Method:     method,
		URL:        requestURL,
		StatusCode: response.StatusCode,
		Body:       getResponseBodyAsStr(response),
	}
}

// getResponseBodyAsStr reads and returns the HTTP response body as a string.
// If the body contains valid JSON it is pretty-printed; otherwise the raw
// body is returned. The response body is consumed.
func getResponseBodyAsStr(r *http.Response) string {
	var b bytes.Buffer
	if r == nil {
		return ""
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	if err = json.Indent(&b, body, "", "  "); err == nil {
		return b.String()
	}
	return string(body)
}
