package openapi

import "github.com/oasprobe/oasprobe/lib"

// OpenAPI3Model wraps a dereferenced OpenAPI 3.x document. Path, operation
// and parameter handling are shared with the Swagger 2.0 variant; server URL
// derivation and the request body object differ.
type OpenAPI3Model struct {
	Swagger2Model
}

// ServerURLs returns every entry of the servers list, normalized. A document
// without servers implicitly serves from "/" relative to the schema URL.
func (m *OpenAPI3Model) ServerURLs() []string {
	servers := asSlice(m.schema["servers"])
	if len(servers) == 0 {
		return []string{normalizeServerURL(m.schemaURL, "/")}
	}

	urls := make([]string, 0, len(servers))
	for _, server := range servers {
		urls = append(urls, normalizeServerURL(m.schemaURL, asString(asMap(server)["url"])))
	}
	return urls
}

// RequestBody returns the media type object declared for mime on the
// operation's requestBody, or nil when absent.
func (m *OpenAPI3Model) RequestBody(path, operation, mime string) map[string]interface{} {
	content := asMap(m.requestBodyContent(path, operation))
	return lib.DeepCopyMap(asMap(content[mime]))
}

func (m *OpenAPI3Model) PayloadMimes(path, operation string) []string {
	return sortedKeys(asMap(m.requestBodyContent(path, operation)))
}

func (m *OpenAPI3Model) HasPayload(path, operation string) bool {
	return len(m.PayloadMimes(path, operation)) > 0
}

func (m *OpenAPI3Model) JSONBody(path, operation string) map[string]interface{} {
	return m.RequestBody(path, operation, "application/json")
}

func (m *OpenAPI3Model) requestBodyContent(path, operation string) interface{} {
	op := asMap(m.pathItem(path)[operation])
	return asMap(op["requestBody"])["content"]
}
