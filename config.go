package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"
)

// Config represents the configuration required to create a client session.
// Base URLs, content types and authentication are per-endpoint concerns;
// the config only carries transport-level knobs and hooks.
type Config struct {
	SslVerify      bool           // Whether to verify SSL certificates.
	RespectProxy   bool           // Whether to respect proxy environment variables (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
	Timeout        *time.Duration // HTTP client timeout. If nil, a default is applied by validators.
	MaxConnections int            // Maximum number of concurrent HTTP connections.
	UserAgent      string         // Optional custom User-Agent header. If empty, a default is applied.
	ApiVersion     string         // API version the client speaks; checked against VersionedEndpoint declarations.

	// BeforeRequestFn is an optional hook executed before a request is
	// sent. Any error returned aborts the request.
	BeforeRequestFn func(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error

	// AfterRequestFn is an optional hook executed after a response has
	// been decoded. It may transform the Renderable before the caller
	// sees it.
	AfterRequestFn func(ctx context.Context, response Renderable) (Renderable, error)
}

// ConfigFunc defines a function that can modify or validate a Config.
type ConfigFunc func(*Config) error

// Validate applies the given ConfigFunc validators to the config.
func (config *Config) Validate(validators ...ConfigFunc) error {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			return err
		}
	}
	return nil
}

// WithTimeout returns a ConfigFunc that sets a default timeout if none is provided.
func WithTimeout(timeout time.Duration) ConfigFunc {
	return func(config *Config) error {
		if config.Timeout == nil {
			config.Timeout = &timeout
		}
		return nil
	}
}

// WithMaxConnections returns a ConfigFunc that sets the maximum number of
// connections if not explicitly provided.
func WithMaxConnections(maxConnections int) ConfigFunc {
	return func(config *Config) error {
		if config.MaxConnections == 0 {
			config.MaxConnections = maxConnections
		}
		return nil
	}
}

// WithUserAgent sets a default User-Agent header if none is provided.
func WithUserAgent(config *Config) error {
	if config.UserAgent == "" {
		config.UserAgent = fmt.Sprintf(
			"go-api-client-%s,os:%s,arch:%s",
			ClientVersion(),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// WithApiVersion returns a ConfigFunc that sets a default API version.
func WithApiVersion(defaultVer string) ConfigFunc {
	return func(config *Config) error {
		if config.ApiVersion == "" {
			config.ApiVersion = defaultVer
		}
		return nil
	}
}
