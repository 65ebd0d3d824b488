// Package openapi validates declared endpoint sets against an OpenAPI v3
// document: every endpoint path template and method must exist in the
// document. Placeholder markers ('?') in templates match templated
// OpenAPI path segments ("{param}").
package openapi

import (
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	apiclient "github.com/lionheart/go-api-client"
)

// LoadDocument parses an OpenAPI v3 document from raw JSON or YAML bytes.
func LoadDocument(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return doc, nil
}

// LoadDocumentFromFile parses an OpenAPI v3 document from disk.
func LoadDocumentFromFile(path string) (*openapi3.T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document: %w", err)
	}
	return LoadDocument(data)
}

// Mismatch describes one endpoint declaration the document does not cover.
type Mismatch struct {
	Method   string
	Template string
	Reason   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s: %s", m.Method, m.Template, m.Reason)
}

// templateMatchesPath reports whether an endpoint path template matches an
// OpenAPI path. Segments must agree pairwise; a '?' placeholder segment
// matches any "{param}" segment.
func templateMatchesPath(template, oasPath string) bool {
	tSegs := strings.Split(strings.Trim(template, "/"), "/")
	oSegs := strings.Split(strings.Trim(oasPath, "/"), "/")
	if len(tSegs) != len(oSegs) {
		return false
	}
	for i, tSeg := range tSegs {
		oSeg := oSegs[i]
		if tSeg == string(apiclient.PlaceholderMarker) {
			if !strings.HasPrefix(oSeg, "{") || !strings.HasSuffix(oSeg, "}") {
				return false
			}
			continue
		}
		if tSeg != oSeg {
			return false
		}
	}
	return true
}

// ValidateTemplate checks one (method, template) pair against the document.
// It returns nil when some documented path matches the template and
// declares the method.
func ValidateTemplate(doc *openapi3.T, method, template string) *Mismatch {
	if doc.Paths == nil {
		return &Mismatch{Method: method, Template: template, Reason: "document declares no paths"}
	}
	method = strings.ToUpper(method)
	pathFound := false
	for oasPath, item := range doc.Paths.Map() {
		if item == nil || !templateMatchesPath(template, oasPath) {
			continue
		}
		pathFound = true
		if item.GetOperation(method) != nil {
			return nil
		}
	}
	if pathFound {
		return &Mismatch{Method: method, Template: template, Reason: "path exists but method is not documented"}
	}
	return &Mismatch{Method: method, Template: template, Reason: "no documented path matches template"}
}

// ValidateDescriptor checks a composed descriptor's method and endpoint
// template against the document.
func ValidateDescriptor(doc *openapi3.T, d apiclient.Descriptor) *Mismatch {
	return ValidateTemplate(doc, d.Method(), d.Endpoint().PathTemplate())
}

// DeclaredOperation is one (method, endpoint) pair of a declared set.
type DeclaredOperation struct {
	Method   string
	Endpoint apiclient.Endpoint
}

// ValidateEndpoints checks every declared operation and returns all
// mismatches. An empty result means the declared set is fully covered.
func ValidateEndpoints(doc *openapi3.T, declared []DeclaredOperation) []Mismatch {
	var mismatches []Mismatch
	for _, op := range declared {
		if m := ValidateTemplate(doc, op.Method, op.Endpoint.PathTemplate()); m != nil {
			mismatches = append(mismatches, *m)
		}
	}
	return mismatches
}
