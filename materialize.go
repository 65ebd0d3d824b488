package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// PlaceholderMarker is the character a path template embeds wherever a
// pattern-fill substitution is consumed.
const PlaceholderMarker = '?'

// WireRequest is the concrete request a descriptor materializes into:
// final URL (query included), method, headers and body. It is handed to a
// RESTSession for dispatch and retains nothing of the descriptor.
type WireRequest struct {
	URL    string
	Method string
	Header http.Header
	Body   []byte
	// Binary marks a FileBody upload.
	Binary bool
}

// HTTPRequest builds an *http.Request from the wire request.
func (w *WireRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, w.Method, w.URL, bytes.NewReader(w.Body))
	if err != nil {
		return nil, err
	}
	for key, values := range w.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return req, nil
}

// resolvePathTemplate scans template left to right: literal characters are
// copied verbatim, each placeholder marker consumes the next unused
// substitution in order. Exhausting substitutions before placeholders is a
// PathUnderflowError; surplus substitutions are ignored.
func resolvePathTemplate(template string, substitutions []string) (string, error) {
	placeholders := strings.Count(template, string(PlaceholderMarker))
	if placeholders > len(substitutions) {
		return "", &PathUnderflowError{
			Template:     template,
			Placeholders: placeholders,
			Supplied:     len(substitutions),
		}
	}
	var out strings.Builder
	next := 0
	for _, ch := range template {
		if ch == PlaceholderMarker {
			out.WriteString(substitutions[next])
			next++
			continue
		}
		out.WriteRune(ch)
	}
	return out.String(), nil
}

// isReadMethod reports whether URL parameters travel in the query string
// rather than a form body for the given verb.
func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	default:
		return false
	}
}

// Materialize deterministically resolves a descriptor into one wire
// request. Any failure surfaces as a typed error before the request could
// be dispatched; materialization never silently produces a request missing
// a required part.
func Materialize(d Descriptor) (*WireRequest, error) {
	endpoint := d.Endpoint()

	path, err := resolvePathTemplate(endpoint.PathTemplate(), d.resolveSubstitutions())
	if err != nil {
		return nil, err
	}

	base, err := urlpkg.Parse(endpoint.BaseURL())
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &MaterializeError{Reason: InvalidBaseURL, Err: err}
	}
	target := *base
	target.Path = strings.TrimSuffix(base.Path, "/") + path

	wire := &WireRequest{
		Method: d.Method(),
		Header: make(http.Header),
	}

	contentType, overridden := d.resolveContentTypeOverride()
	if !overridden {
		contentType = endpoint.DefaultContentType()
	}
	wire.Header.Set(HeaderContentType, contentType)

	// Authentication first; explicit header overrides afterwards, so a
	// HeaderOverride("Authorization", ...) wins.
	d.resolveAuth().apply(wire.Header)
	for _, pair := range d.collectHeaders() {
		wire.Header.Set(pair.Name, pair.Value)
	}

	if err := encodeParameters(d, wire, &target, contentType, overridden); err != nil {
		return nil, err
	}

	wire.URL = target.String()
	return wire, nil
}

// encodeParameters applies the effective parameter node to the wire
// request. Any JSONBody directive in the effective node's list selects
// JSON body encoding for the whole request, regardless of method;
// otherwise raw/file bodies apply, and URLParams use query encoding for
// read-style methods or a form body for the rest.
func encodeParameters(d Descriptor, wire *WireRequest, target *urlpkg.URL, contentType string, ctOverridden bool) error {
	directives := d.resolveBodyDirectives()
	if len(directives) == 0 {
		return nil
	}

	for _, dir := range directives {
		if dir.kind != directiveJSONBody {
			continue
		}
		body, err := encodeValueBody(dir.jsonBody, contentType)
		if err != nil {
			return &MaterializeError{Reason: EncodingFailure, Err: err}
		}
		wire.Body = body
		return nil
	}

	for _, dir := range directives {
		switch dir.kind {
		case directiveRawBody:
			wire.Body = []byte(dir.rawBody)
			return nil
		case directiveFileBody:
			wire.Body = dir.fileBody
			wire.Binary = true
			if !ctOverridden {
				wire.Header.Set(HeaderContentType, ContentTypeOctetStream)
			}
			return nil
		case directiveURLParams:
			if isReadMethod(wire.Method) {
				query := target.Query()
				encoded, err := urlpkg.ParseQuery(dir.urlParams.ToQuery())
				if err != nil {
					return &MaterializeError{Reason: EncodingFailure, Err: err}
				}
				for key, values := range encoded {
					for _, value := range values {
						query.Set(key, value)
					}
				}
				target.RawQuery = query.Encode()
				return nil
			}
			wire.Body = []byte(dir.urlParams.ToQuery())
			if !ctOverridden {
				wire.Header.Set(HeaderContentType, ContentTypeFormURLEncoded)
			}
			return nil
		}
	}
	return nil
}

// encodeValueBody serializes a JSONValue body per the resolved content
// type: MessagePack for application/x-msgpack, JSON otherwise.
func encodeValueBody(v JSONValue, contentType string) ([]byte, error) {
	if strings.Contains(strings.ToLower(contentType), ContentTypeMsgpack) {
		native, _ := v.Unwrap()
		return msgpack.Marshal(native)
	}
	return json.Marshal(v)
}
