package apiclient

import "net/http"

type descriptorKind int

const (
	nodeMethodCall descriptorKind = iota
	nodePatternFill
	nodeWithParams
)

// Descriptor is an immutable, recursively-composable description of a
// not-yet-issued request: a terminal method+endpoint node, optionally
// wrapped by pattern-fill and parameter-directive layers. Every mutator
// returns a new descriptor and never alters the receiver, so a descriptor
// can be built once, held as a template, and issued concurrently from
// multiple goroutines without coordination.
//
// The tree is single-rooted and acyclic; each wrapping node exclusively
// owns its inner descriptor. Consecutive parameter layers flatten: calling
// With on a descriptor whose outermost node already carries directives
// concatenates the lists instead of nesting, which bounds tree depth and
// keeps "first directive at this level" lookups unambiguous.
type Descriptor struct {
	kind          descriptorKind
	method        string
	endpoint      Endpoint
	inner         *Descriptor
	substitutions []string
	directives    []Directive
}

func methodCall(method string, endpoint Endpoint) Descriptor {
	return Descriptor{kind: nodeMethodCall, method: method, endpoint: endpoint}
}

// NewRequest returns the implicit-GET descriptor for an endpoint.
func NewRequest(endpoint Endpoint) Descriptor { return Get(endpoint) }

// Get returns a GET descriptor for the endpoint.
func Get(endpoint Endpoint) Descriptor { return methodCall(http.MethodGet, endpoint) }

// Post returns a POST descriptor for the endpoint.
func Post(endpoint Endpoint) Descriptor { return methodCall(http.MethodPost, endpoint) }

// Put returns a PUT descriptor for the endpoint.
func Put(endpoint Endpoint) Descriptor { return methodCall(http.MethodPut, endpoint) }

// Patch returns a PATCH descriptor for the endpoint.
func Patch(endpoint Endpoint) Descriptor { return methodCall(http.MethodPatch, endpoint) }

// Head returns a HEAD descriptor for the endpoint.
func Head(endpoint Endpoint) Descriptor { return methodCall(http.MethodHead, endpoint) }

// Delete returns a DELETE descriptor for the endpoint.
func Delete(endpoint Endpoint) Descriptor { return methodCall(http.MethodDelete, endpoint) }

// Fill wraps the descriptor with a pattern-fill layer. Each '?' in the
// endpoint's path template consumes one substitution, in order, at
// materialization time.
func (d Descriptor) Fill(substitutions ...string) Descriptor {
	subs := make([]string, len(substitutions))
	copy(subs, substitutions)
	inner := d
	return Descriptor{kind: nodePatternFill, inner: &inner, substitutions: subs}
}

// With wraps the descriptor with the given directives. When the outermost
// node already carries directives the lists are concatenated (flattening);
// the backing arrays are always fresh, so neither the receiver nor any
// previously returned descriptor observes the change.
func (d Descriptor) With(directives ...Directive) Descriptor {
	if d.kind == nodeWithParams {
		merged := make([]Directive, 0, len(d.directives)+len(directives))
		merged = append(merged, d.directives...)
		merged = append(merged, directives...)
		return Descriptor{kind: nodeWithParams, inner: d.inner, directives: merged}
	}
	dirs := make([]Directive, len(directives))
	copy(dirs, directives)
	inner := d
	return Descriptor{kind: nodeWithParams, inner: &inner, directives: dirs}
}

// Method returns the HTTP verb of the terminal method-call node.
func (d Descriptor) Method() string {
	switch d.kind {
	case nodeMethodCall:
		return d.method
	default:
		return d.inner.Method()
	}
}

// Endpoint returns the endpoint of the terminal method-call node.
func (d Descriptor) Endpoint() Endpoint {
	switch d.kind {
	case nodeMethodCall:
		return d.endpoint
	default:
		return d.inner.Endpoint()
	}
}

// resolveSubstitutions returns the substitution list of the outermost
// pattern-fill layer. A descriptor without one resolves with an empty
// list, which fails later only if the template actually has placeholders.
func (d Descriptor) resolveSubstitutions() []string {
	switch d.kind {
	case nodePatternFill:
		return d.substitutions
	case nodeMethodCall:
		return nil
	default:
		return d.inner.resolveSubstitutions()
	}
}

// resolveContentTypeOverride walks outside-in and returns the first
// ContentTypeOverride found. The second value reports whether any layer
// supplied one; when none did the endpoint default applies.
func (d Descriptor) resolveContentTypeOverride() (string, bool) {
	if d.kind == nodeWithParams {
		for _, dir := range d.directives {
			if dir.kind == directiveContentType {
				return dir.contentType, true
			}
		}
	}
	if d.kind == nodeMethodCall {
		return "", false
	}
	return d.inner.resolveContentTypeOverride()
}

// resolveAuth walks outside-in and returns the first AuthOverride found,
// else the endpoint's default mode.
func (d Descriptor) resolveAuth() AuthMode {
	if d.kind == nodeWithParams {
		for _, dir := range d.directives {
			if dir.kind == directiveAuth {
				return dir.auth
			}
		}
	}
	if d.kind == nodeMethodCall {
		return d.endpoint.DefaultAuth()
	}
	return d.inner.resolveAuth()
}

// resolveBodyDirectives returns the directive list of the effective
// parameter node: the nearest (outermost) parameter layer whose own list
// contains at least one body-affecting directive. Pattern-fill layers
// delegate unchanged; a bare method call has no parameters.
func (d Descriptor) resolveBodyDirectives() []Directive {
	switch d.kind {
	case nodeWithParams:
		for _, dir := range d.directives {
			if dir.isBodyDirective() {
				return d.directives
			}
		}
		return d.inner.resolveBodyDirectives()
	case nodePatternFill:
		return d.inner.resolveBodyDirectives()
	default:
		return nil
	}
}

// collectHeaders accumulates every HeaderOverride in the tree, innermost
// first, so the layer added last wins when names collide.
func (d Descriptor) collectHeaders() []HeaderPair {
	var pairs []HeaderPair
	if d.kind != nodeMethodCall {
		pairs = d.inner.collectHeaders()
	}
	if d.kind == nodeWithParams {
		for _, dir := range d.directives {
			if dir.kind == directiveHeader {
				pairs = append(pairs, dir.header)
			}
		}
	}
	return pairs
}
