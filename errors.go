package apiclient

import (
	"errors"
	"fmt"
)

// ErrUnspecified is the single umbrella error delivered to ResponseJSON
// failure callbacks. Transport failures and response-type mismatches are
// collapsed into it; no finer classification crosses the facade boundary.
var ErrUnspecified = errors.New("request failed")

// ApiError represents an error returned from an API request.
type ApiError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("response body: %s", e.Body)
	}
	return fmt.Sprintf(
		"%s request to %s returned status code %d, response body: %s",
		e.Method, e.URL, e.StatusCode, e.Body,
	)
}

func IsApiError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr)
}

// IgnoreStatusCodes returns nil when err is an ApiError carrying one of
// the given status codes; any other error passes through unchanged.
func IgnoreStatusCodes(err error, codes ...int) error {
	if !IsApiError(err) {
		return err
	}
	apiErr := err.(*ApiError)
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return nil
		}
	}
	return err
}

// PathUnderflowError reports a path template with more placeholders than
// supplied substitutions. It is detected before any URL is constructed.
type PathUnderflowError struct {
	Template     string
	Placeholders int
	Supplied     int
}

func (e *PathUnderflowError) Error() string {
	return fmt.Sprintf(
		"path template %q has %d placeholders but only %d substitutions were supplied",
		e.Template, e.Placeholders, e.Supplied,
	)
}

func IsPathUnderflow(err error) bool {
	var underflow *PathUnderflowError
	return errors.As(err, &underflow)
}

// MaterializeReason classifies materialization failures.
type MaterializeReason string

const (
	InvalidBaseURL  MaterializeReason = "invalid base URL"
	EncodingFailure MaterializeReason = "encoding failure"
)

// MaterializeError reports a failure to turn a descriptor into a wire
// request. Reason tells which materialization step failed; Err carries the
// underlying cause when one exists.
type MaterializeError struct {
	Reason MaterializeReason
	Err    error
}

func (e *MaterializeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("materialization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("materialization failed: %s", e.Reason)
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}

func IsMaterializeError(err error) bool {
	var matErr *MaterializeError
	return errors.As(err, &matErr)
}

// VersionGateError is returned when an endpoint declares a minimum API
// version above the one the client session is configured for.
type VersionGateError struct {
	Endpoint   string
	Configured string
	Required   string
}

func (e *VersionGateError) Error() string {
	return fmt.Sprintf(
		"endpoint %q requires API version %s (client is configured for %s)",
		e.Endpoint, e.Required, e.Configured,
	)
}

func IsVersionGateError(err error) bool {
	var gateErr *VersionGateError
	return errors.As(err, &gateErr)
}
