package apiclient

import (
	"encoding/base64"
	"net/http"
)

type authKind int

const (
	authNone authKind = iota
	authBasic
	authBearer
	authHeaderList
)

// HeaderPair is one (name, value) header entry. Ordered lists of pairs are
// used by AuthHeaders and the Pairs directive sugar.
type HeaderPair struct {
	Name  string
	Value string
}

// AuthMode describes how a request authenticates: nothing, HTTP Basic,
// a bearer token, or a literal list of headers. Endpoints declare a
// default mode; an AuthOverride directive replaces it per request.
type AuthMode struct {
	kind     authKind
	username string
	password string
	token    string
	headers  []HeaderPair
}

// AuthNone returns the mode that sets no authentication header.
func AuthNone() AuthMode { return AuthMode{kind: authNone} }

// AuthBasic returns HTTP Basic authentication for the given credentials.
func AuthBasic(username, password string) AuthMode {
	return AuthMode{kind: authBasic, username: username, password: password}
}

// AuthBearer returns bearer-token authentication.
func AuthBearer(token string) AuthMode {
	return AuthMode{kind: authBearer, token: token}
}

// AuthHeaders returns a mode that sets each listed header verbatim. No
// implicit Authorization header is added.
func AuthHeaders(pairs ...HeaderPair) AuthMode {
	headers := make([]HeaderPair, len(pairs))
	copy(headers, pairs)
	return AuthMode{kind: authHeaderList, headers: headers}
}

// IsNone reports whether the mode sets no headers at all.
func (a AuthMode) IsNone() bool { return a.kind == authNone }

// apply writes the mode's headers. Explicit HeaderOverride directives are
// applied after this, so they may overwrite Authorization.
func (a AuthMode) apply(headers http.Header) {
	switch a.kind {
	case authBasic:
		encoded := base64.StdEncoding.EncodeToString([]byte(a.username + ":" + a.password))
		headers.Set(HeaderAuthorization, AuthTypeBasic+" "+encoded)
	case authBearer:
		headers.Set(HeaderAuthorization, AuthTypeBearer+" "+a.token)
	case authHeaderList:
		for _, pair := range a.headers {
			headers.Set(pair.Name, pair.Value)
		}
	}
}
