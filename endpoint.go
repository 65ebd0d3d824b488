package apiclient

// Endpoint is the capability every caller-declared endpoint set must
// satisfy. An endpoint identifies one API operation by a stable path
// template; the remaining methods supply the defaults a materialized
// request falls back to when no directive overrides them.
//
// The path template may embed the placeholder marker '?' zero or more
// times; placeholders are consumed in order by Descriptor.Fill
// substitutions.
type Endpoint interface {
	// PathTemplate returns the endpoint's path template, e.g. "/users/?/posts".
	PathTemplate() string
	// BaseURL returns the base URL the resolved path is appended to.
	BaseURL() string
	// DefaultContentType returns the content type used when no
	// ContentTypeOverride directive is present.
	DefaultContentType() string
	// DefaultAuth returns the authentication mode used when no
	// AuthOverride directive is present.
	DefaultAuth() AuthMode
}

// SessionProvider is an optional Endpoint extension. Endpoints that
// implement it route their requests through the returned session instead
// of the client's default one. Returning nil falls back to the default.
type SessionProvider interface {
	Session() RESTSession
}

// VersionedEndpoint is an optional Endpoint extension declaring the
// minimum API version the endpoint exists from. The client refuses to
// dispatch when its configured APIVersion is older (VersionGateError).
type VersionedEndpoint interface {
	AvailableFrom() string
}

// StaticEndpoint is a ready-made Endpoint value for endpoint sets that
// don't need behavior beyond the declared fields. Callers with richer
// needs implement Endpoint themselves.
type StaticEndpoint struct {
	Template    string
	Base        string
	ContentType string
	Auth        AuthMode
	MinVersion  string      // optional; empty means no version gate
	Transport   RESTSession // optional; nil means the client default
}

func (e StaticEndpoint) PathTemplate() string { return e.Template }

func (e StaticEndpoint) BaseURL() string { return e.Base }

func (e StaticEndpoint) DefaultContentType() string {
	if e.ContentType == "" {
		return ContentTypeJSON
	}
	return e.ContentType
}

func (e StaticEndpoint) DefaultAuth() AuthMode { return e.Auth }

func (e StaticEndpoint) Session() RESTSession { return e.Transport }

func (e StaticEndpoint) AvailableFrom() string { return e.MinVersion }
