package apiclient

// HTTP-related constants used across descriptor materialization and the
// transport session.

// HTTP Header Names
const (
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderUserAgent     = "User-Agent"
)

// HTTP Content Types
const (
	ContentTypeJSON           = "application/json"
	ContentTypeMsgpack        = "application/x-msgpack"
	ContentTypeMultipartForm  = "multipart/form-data"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeTextPlain      = "text/plain"
	ContentTypeOctetStream    = "application/octet-stream"
)

// HTTP Authentication Types
const (
	AuthTypeBasic  = "Basic"
	AuthTypeBearer = "Bearer"
)
