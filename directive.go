package apiclient

type directiveKind int

const (
	directiveJSONBody directiveKind = iota
	directiveFileBody
	directiveRawBody
	directiveURLParams
	directiveContentType
	directiveHeader
	directiveAuth
)

// Directive is one atomic request modifier attachable to a descriptor:
// a body, a set of URL parameters, a content-type or header override, or
// an authentication override. Directives are opaque, ordered values; a
// descriptor carries an ordered list of them and resolution is
// first-match-wins per concern (see Descriptor).
type Directive struct {
	kind        directiveKind
	jsonBody    JSONValue
	fileBody    []byte
	rawBody     string
	urlParams   Params
	contentType string
	header      HeaderPair
	auth        AuthMode
}

// JSONBody selects JSON body encoding for the request; v becomes the body.
func JSONBody(v JSONValue) Directive {
	return Directive{kind: directiveJSONBody, jsonBody: v}
}

// FileBody marks the request as a binary upload with the given content.
func FileBody(content []byte) Directive {
	body := make([]byte, len(content))
	copy(body, content)
	return Directive{kind: directiveFileBody, fileBody: body}
}

// RawBody sets a literal body text. Legacy; JSONBody or URLParams cover
// almost every modern use.
func RawBody(text string) Directive {
	return Directive{kind: directiveRawBody, rawBody: text}
}

// URLParams selects query/form encoding; params becomes the query string
// for read-style methods or the form body otherwise.
func URLParams(params Params) Directive {
	copied := make(Params, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return Directive{kind: directiveURLParams, urlParams: copied}
}

// Pair is one (key, value) entry for the Pairs construction sugar.
type Pair struct {
	Key   string
	Value any
}

// Pairs is construction sugar: an ordered sequence of (key, value) pairs
// equivalent to one URLParams directive. Duplicate keys follow
// last-write-wins.
func Pairs(pairs ...Pair) Directive {
	params := make(Params, len(pairs))
	for _, pair := range pairs {
		params[pair.Key] = pair.Value
	}
	return Directive{kind: directiveURLParams, urlParams: params}
}

// ContentTypeOverride overrides the Content-Type header.
func ContentTypeOverride(contentType string) Directive {
	return Directive{kind: directiveContentType, contentType: contentType}
}

// HeaderOverride sets header name: value. Header overrides are applied
// after authentication, so an explicit Authorization header wins over one
// derived from the auth mode.
func HeaderOverride(name, value string) Directive {
	return Directive{kind: directiveHeader, header: HeaderPair{Name: name, Value: value}}
}

// AuthOverride overrides the endpoint's default authentication for this
// request.
func AuthOverride(mode AuthMode) Directive {
	return Directive{kind: directiveAuth, auth: mode}
}

// isBodyDirective reports whether the directive contributes a request body
// or query payload. Nodes containing at least one of these are candidates
// for the effective parameter node during resolution.
func (d Directive) isBodyDirective() bool {
	switch d.kind {
	case directiveJSONBody, directiveFileBody, directiveRawBody, directiveURLParams:
		return true
	default:
		return false
	}
}
