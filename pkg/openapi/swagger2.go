package openapi

import (
	"fmt"
	"sort"

	"github.com/oasprobe/oasprobe/lib"
)

// Swagger2Model wraps a dereferenced Swagger 2.0 document.
type Swagger2Model struct {
	schema    map[string]interface{}
	schemaURL string
}

// ServerURLs derives scheme://host+basePath for every declared scheme. When
// the document declares no host, the base path alone is resolved against the
// schema URL. When it declares a host but no schemes, the schema URL's own
// scheme is assumed.
func (m *Swagger2Model) ServerURLs() []string {
	basePath := "/"
	if bp := asString(m.schema["basePath"]); bp != "" {
		basePath = bp
	}

	host := asString(m.schema["host"])
	if host == "" {
		return []string{normalizeServerURL(m.schemaURL, basePath)}
	}

	schemes := stringSlice(m.schema["schemes"])
	if len(schemes) == 0 {
		schemes = []string{schemaURLScheme(m.schemaURL)}
	}

	urls := make([]string, 0, len(schemes))
	for _, scheme := range schemes {
		urls = append(urls, normalizeServerURL(m.schemaURL, fmt.Sprintf("%s://%s%s", scheme, host, basePath)))
	}
	return urls
}

func (m *Swagger2Model) Paths() []string {
	return sortedKeys(asMap(m.schema["paths"]))
}

func (m *Swagger2Model) Operations(path string) []string {
	pathItem := m.pathItem(path)
	var ops []string
	for key := range pathItem {
		if allowedMethods[key] {
			ops = append(ops, key)
		}
	}
	sort.Strings(ops)
	return ops
}

// Parameters merges path-level parameter defaults with operation-level
// overrides, keyed by (name, location), operation level winning.
func (m *Swagger2Model) Parameters(path, operation string) []map[string]interface{} {
	pathItem := m.pathItem(path)
	defaults := parameterList(pathItem["parameters"])
	overrides := parameterList(asMap(pathItem[operation])["parameters"])
	return lib.DeepCopyMaps(overrideParameters(defaults, overrides))
}

func (m *Swagger2Model) ParametersIn(path, operation, location string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, param := range m.Parameters(path, operation) {
		if asString(param["in"]) == location {
			out = append(out, param)
		}
	}
	return out
}

// PayloadMimes returns the operation's consumes list, falling back to the
// document-level one.
func (m *Swagger2Model) PayloadMimes(path, operation string) []string {
	op := asMap(m.pathItem(path)[operation])
	if consumes, ok := op["consumes"]; ok {
		return stringSlice(consumes)
	}
	return stringSlice(m.schema["consumes"])
}

func (m *Swagger2Model) HasPayload(path, operation string) bool {
	for _, param := range m.Parameters(path, operation) {
		in := asString(param["in"])
		if in == "body" || in == "formData" {
			return true
		}
	}
	return false
}

// JSONBody returns the operation's single body parameter, if any. Swagger
// 2.0 allows at most one.
func (m *Swagger2Model) JSONBody(path, operation string) map[string]interface{} {
	bodies := m.ParametersIn(path, operation, "body")
	if len(bodies) == 0 {
		return nil
	}
	return bodies[0]
}

func (m *Swagger2Model) pathItem(path string) map[string]interface{} {
	return asMap(asMap(m.schema["paths"])[path])
}

func parameterList(v interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	for _, item := range asSlice(v) {
		if param, ok := item.(map[string]interface{}); ok {
			out = append(out, param)
		}
	}
	return out
}

type parameterKey struct {
	name     string
	location string
}

func overrideParameters(defaults, overrides []map[string]interface{}) []map[string]interface{} {
	merged := make([]map[string]interface{}, 0, len(defaults)+len(overrides))
	index := make(map[parameterKey]int)

	add := func(param map[string]interface{}) {
		key := parameterKey{name: asString(param["name"]), location: asString(param["in"])}
		if i, ok := index[key]; ok {
			merged[i] = param
			return
		}
		index[key] = len(merged)
		merged = append(merged, param)
	}

	for _, param := range defaults {
		add(param)
	}
	for _, param := range overrides {
		add(param)
	}
	return merged
}
