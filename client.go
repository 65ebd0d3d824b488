package apiclient

import (
	"context"
	"mime/multipart"
	"time"

	version "github.com/hashicorp/go-version"
)

// Client is the facade that turns descriptors into dispatched requests.
// It owns the default transport session, constructed once from the config
// passed to NewClient; endpoints implementing SessionProvider route around
// it per request. The client itself holds no mutable state after
// construction, so one instance serves concurrent callers.
type Client struct {
	config  *Config
	session RESTSession
}

// NewClient validates the config, builds the default session and returns
// the facade. The config value is owned by the client afterwards.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	err := config.Validate(
		WithUserAgent,
		WithTimeout(time.Second*30),
		WithMaxConnections(10),
	)
	if err != nil {
		return nil, err
	}
	session, err := NewHTTPSession(config)
	if err != nil {
		return nil, err
	}
	return &Client{config: config, session: session}, nil
}

// Session returns the client's default transport session.
func (c *Client) Session() RESTSession {
	return c.session
}

// sessionFor selects the transport for a descriptor: the endpoint's custom
// session when it declares one, the client default otherwise.
func (c *Client) sessionFor(d Descriptor) RESTSession {
	if provider, ok := d.Endpoint().(SessionProvider); ok {
		if session := provider.Session(); session != nil {
			return session
		}
	}
	return c.session
}

// checkVersionGate refuses dispatch when the endpoint declares a minimum
// API version newer than the configured one. Endpoints without a
// declaration, and clients without a configured version, always pass.
func (c *Client) checkVersionGate(d Descriptor) error {
	versioned, ok := d.Endpoint().(VersionedEndpoint)
	if !ok {
		return nil
	}
	required := versioned.AvailableFrom()
	if required == "" || c.config.ApiVersion == "" {
		return nil
	}
	requiredVer, err := version.NewVersion(required)
	if err != nil {
		return err
	}
	configuredVer, err := version.NewVersion(c.config.ApiVersion)
	if err != nil {
		return err
	}
	if configuredVer.LessThan(requiredVer) {
		return &VersionGateError{
			Endpoint:   d.Endpoint().PathTemplate(),
			Configured: c.config.ApiVersion,
			Required:   required,
		}
	}
	return nil
}

// Request materializes the descriptor and dispatches it asynchronously.
// Template, materialization and version-gate errors surface synchronously,
// before anything touches the network; the returned handle completes when
// the transport does.
func (c *Client) Request(ctx context.Context, d Descriptor) (*PendingResponse, error) {
	if err := c.checkVersionGate(d); err != nil {
		return nil, err
	}
	wire, err := Materialize(d)
	if err != nil {
		return nil, err
	}
	session := c.sessionFor(d)
	pending := newPendingResponse()
	go func() {
		result, dispatchErr := session.Dispatch(ctx, wire)
		pending.complete(result, dispatchErr)
	}()
	return pending, nil
}

// Upload behaves like Request but delegates multipart body construction
// to buildBody; the transport supplies the writer and boundary.
func (c *Client) Upload(ctx context.Context, d Descriptor, buildBody func(*multipart.Writer) error) (*PendingResponse, error) {
	if err := c.checkVersionGate(d); err != nil {
		return nil, err
	}
	wire, err := Materialize(d)
	if err != nil {
		return nil, err
	}
	session := c.sessionFor(d)
	pending := newPendingResponse()
	go func() {
		result, dispatchErr := session.DispatchMultipart(ctx, wire, buildBody)
		pending.complete(result, dispatchErr)
	}()
	return pending, nil
}

// Do is the synchronous convenience form of Request.
func (c *Client) Do(ctx context.Context, d Descriptor) (Renderable, error) {
	pending, err := c.Request(ctx, d)
	if err != nil {
		return nil, err
	}
	return pending.Wait(ctx)
}

// ResponseJSON dispatches the descriptor and decodes the response payload
// into T. Exactly one callback fires, on the transport goroutine: onSuccess
// with the decoded value, or onFailure with ErrUnspecified for any
// transport failure or type mismatch; no finer classification crosses
// this boundary. Errors detected before dispatch are returned directly.
func ResponseJSON[T any](c *Client, ctx context.Context, d Descriptor, onSuccess func(T), onFailure func(error)) error {
	pending, err := c.Request(ctx, d)
	if err != nil {
		return err
	}
	go func() {
		result, waitErr := pending.Wait(ctx)
		if waitErr != nil {
			onFailure(ErrUnspecified)
			return
		}
		if typed, ok := any(result).(T); ok {
			onSuccess(typed)
			return
		}
		switch payload := result.(type) {
		case Record:
			var out T
			if fillErr := payload.Fill(&out); fillErr == nil {
				onSuccess(out)
				return
			}
		case RecordSet:
			var out T
			if fillErr := payload.Fill(&out); fillErr == nil {
				onSuccess(out)
				return
			}
		}
		onFailure(ErrUnspecified)
	}()
	return nil
}
