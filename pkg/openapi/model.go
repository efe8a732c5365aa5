package openapi

import (
	"net/url"
	"sort"
	"strings"
)

// Model is the version-independent query surface over a dereferenced
// specification. Structures returned by a Model are deep copies; callers may
// mutate them freely without corrupting sibling lookups.
type Model interface {
	// ServerURLs returns the normalized base URLs requests should target.
	ServerURLs() []string
	// Paths returns every declared path template, sorted.
	Paths() []string
	// Operations returns the HTTP methods declared on a path, sorted.
	Operations(path string) []string
	// Parameters returns the effective parameter objects for an operation,
	// path-level defaults overridden by operation-level declarations.
	Parameters(path, operation string) []map[string]interface{}
	// ParametersIn filters Parameters by location (path, query, header,
	// cookie, body, formData).
	ParametersIn(path, operation, location string) []map[string]interface{}
	// PayloadMimes returns the media types the operation consumes.
	PayloadMimes(path, operation string) []string
	// HasPayload reports whether the operation declares a request payload.
	HasPayload(path, operation string) bool
	// JSONBody returns the node describing the operation's JSON request
	// body, or nil when the operation declares none. For Swagger 2.0 this is
	// the single body parameter; for OpenAPI 3.x the application/json media
	// type object.
	JSONBody(path, operation string) map[string]interface{}
}

var allowedMethods = map[string]bool{
	"get":     true,
	"head":    true,
	"post":    true,
	"put":     true,
	"patch":   true,
	"delete":  true,
	"options": true,
	"trace":   true,
}

// Resolve loads and dereferences the document at schemaURL and wraps it in
// the model variant matching its declared specification version.
func Resolve(schemaURL string, loader *Loader) (Model, error) {
	doc, err := NewDereferencer(schemaURL, loader).Dereference()
	if err != nil {
		return nil, err
	}
	return ModelFor(doc, schemaURL)
}

// ModelFor selects the model variant for an already dereferenced document.
func ModelFor(doc interface{}, schemaURL string) (Model, error) {
	root, ok := doc.(map[string]interface{})
	if !ok {
		return nil, &UnsupportedSpecError{URL: schemaURL}
	}
	if _, ok := root["swagger"]; ok {
		return &Swagger2Model{schema: root, schemaURL: schemaURL}, nil
	}
	if _, ok := root["openapi"]; ok {
		return &OpenAPI3Model{Swagger2Model{schema: root, schemaURL: schemaURL}}, nil
	}
	return nil, &UnsupportedSpecError{URL: schemaURL}
}

// normalizeServerURL resolves a server URL against the schema URL and strips
// any trailing slash, so path templates can be appended directly.
func normalizeServerURL(schemaURL, serverURL string) string {
	resolved, err := resolveURL(schemaURL, serverURL)
	if err != nil {
		resolved = serverURL
	}
	return strings.TrimRight(resolved, "/")
}

func schemaURLScheme(schemaURL string) string {
	u, err := url.Parse(schemaURL)
	if err != nil || u.Scheme == "" {
		return "https"
	}
	return u.Scheme
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func stringSlice(v interface{}) []string {
	var out []string
	for _, item := range asSlice(v) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
