package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
)

var logLevel string

func init() {
	logLevel = strings.ToLower(os.Getenv("APICLIENT_LOG"))
}

// RESTSession is the transport collaborator a materialized request is
// dispatched through. The client facade owns a default session; endpoints
// implementing SessionProvider may substitute their own.
type RESTSession interface {
	// Dispatch sends a wire request and decodes the JSON-ish response
	// payload into a Record or RecordSet.
	Dispatch(ctx context.Context, wire *WireRequest) (Renderable, error)
	// DispatchMultipart sends a multipart/form-data request, delegating
	// body construction to buildBody.
	DispatchMultipart(ctx context.Context, wire *WireRequest, buildBody func(*multipart.Writer) error) (Renderable, error)
	GetConfig() *Config
}

// HTTPSession is the standard RESTSession over net/http. It performs no
// caching, retrying or rate limiting; it validates the status code,
// decodes the body and runs the config hooks.
type HTTPSession struct {
	config *Config
	client *http.Client
}

// NewHTTPSession creates a session from a validated config.
func NewHTTPSession(config *Config) (*HTTPSession, error) {
	if config.Timeout == nil {
		return nil, fmt.Errorf("config timeout is not set: run Config.Validate with WithTimeout")
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !config.SslVerify}
	transport.MaxConnsPerHost = config.MaxConnections
	transport.IdleConnTimeout = *config.Timeout
	if !config.RespectProxy {
		transport.Proxy = nil
	}
	client := &http.Client{Transport: transport, Timeout: *config.Timeout}
	return &HTTPSession{config: config, client: client}, nil
}

func (s *HTTPSession) GetConfig() *Config {
	return s.config
}

// consolidateHeaders fills in defaults the materializer leaves to the
// transport. Content-Type is always set by materialization; Accept and
// User-Agent only when nothing upstream chose them.
func (s *HTTPSession) consolidateHeaders(wire *WireRequest) {
	if wire.Header.Get(HeaderAccept) == "" {
		wire.Header.Set(HeaderAccept, ContentTypeJSON)
	}
	if wire.Header.Get(HeaderUserAgent) == "" {
		wire.Header.Set(HeaderUserAgent, s.config.UserAgent)
	}
}

// Dispatch implements RESTSession.
func (s *HTTPSession) Dispatch(ctx context.Context, wire *WireRequest) (Renderable, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.consolidateHeaders(wire)
	req, err := wire.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, req, wire)
}

// DispatchMultipart implements RESTSession. The body is produced by
// buildBody writing into a multipart writer; the Content-Type header is
// replaced with the writer's boundary-carrying form.
func (s *HTTPSession) DispatchMultipart(ctx context.Context, wire *WireRequest, buildBody func(*multipart.Writer) error) (Renderable, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := buildBody(writer); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}
	wire.Body = body.Bytes()
	wire.Header.Set(HeaderContentType, writer.FormDataContentType())
	s.consolidateHeaders(wire)
	req, err := wire.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, req, wire)
}

func (s *HTTPSession) do(ctx context.Context, req *http.Request, wire *WireRequest) (Renderable, error) {
	if logLevel != "" {
		beforeRequestLog(wire.Method, wire.URL, bytes.NewReader(wire.Body))
	}
	if s.config.BeforeRequestFn != nil {
		if err := s.config.BeforeRequestFn(ctx, req, wire.Method, wire.URL, bytes.NewReader(wire.Body)); err != nil {
			return nil, err
		}
	}

	response, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform %s request to %s, error %v", wire.Method, wire.URL, err)
	}
	if err = validateResponse(response); err != nil {
		return nil, err
	}
	result, err := unmarshalToRecordUnion(response)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		afterRequestLog(result)
	}
	if s.config.AfterRequestFn != nil {
		result, err = s.config.AfterRequestFn(ctx, result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ######################################################
//
//	REQUEST/RESPONSE LOGGING
//
// ######################################################

// beforeRequestLog logs request details before dispatch. Debug mode
// includes the body; info mode only the method and URL.
func beforeRequestLog(verb, url string, body io.Reader) {
	requestInfo := fmt.Sprintf("http request start: [%s] %s", verb, url)
	var bodyMsg string

	if body != nil && logLevel == "debug" {
		bodyBytes, err := io.ReadAll(body)
		if err != nil {
			log.Printf("ERROR: failed to read request body: %v", err)
			return
		}
		trimmed := bytes.TrimSpace(bodyBytes)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			var compact bytes.Buffer
			if err := json.Compact(&compact, trimmed); err == nil {
				bodyMsg = compact.String()
			} else {
				bodyMsg = string(trimmed)
			}
		}
	}

	if bodyMsg == "" {
		log.Printf("INFO: %s", requestInfo)
	} else {
		log.Printf("DEBUG: %s | body: %s", requestInfo, bodyMsg)
	}
}

// afterRequestLog logs response details: full payload in debug mode, a
// summary otherwise.
func afterRequestLog(response Renderable) {
	if logLevel == "debug" {
		switch resp := response.(type) {
		case Record, RecordSet:
			log.Printf("DEBUG: response |\n%s", resp.PrettyJson("  "))
		default:
			log.Printf("DEBUG: response | %v", response)
		}
		return
	}
	switch resp := response.(type) {
	case Record:
		log.Printf("INFO: response | Record with %d attr(s)", len(resp))
	case RecordSet:
		log.Printf("INFO: response | RecordSet with %d record(s)", len(resp))
	default:
		log.Printf("INFO: response | response received")
	}
}
