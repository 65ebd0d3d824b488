// Package apiclient is a type-safe request-description layer for JSON
// HTTP APIs.
//
// Callers declare a set of endpoints (path template, base URL, defaults)
// and compose requests as immutable Descriptor values: a method call,
// optionally wrapped by path-pattern substitutions and ordered parameter
// directives. Materialize resolves a descriptor into one concrete wire
// request; Client dispatches it through a transport session and decodes
// the response into Record/RecordSet or a caller-declared struct.
//
// Descriptors are persistent values: every With or Fill call returns a
// new descriptor, so templates can be shared across goroutines freely.
package apiclient
