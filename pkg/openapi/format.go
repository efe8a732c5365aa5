package openapi

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var yamlMimeTypes = []string{
	"text/vnd.yaml",
	"application/yaml",
	"application/x-yaml",
	"text/x-yaml",
}

var yamlExtensions = []string{".yml", ".yaml"}

// DetectFormat decides which decoder to use for a specification document.
// A document is YAML when its declared content type is one of the known YAML
// media types or when the URL carries a YAML file extension; everything else
// is treated as JSON.
func DetectFormat(url string, headers http.Header) Format {
	if isYAMLContentType(headers) || isYAMLURL(url) {
		return FormatYAML
	}
	return FormatJSON
}

func isYAMLURL(url string) bool {
	ext := strings.ToLower(filepath.Ext(url))
	for _, yamlExt := range yamlExtensions {
		if ext == yamlExt {
			return true
		}
	}
	return false
}

func isYAMLContentType(headers http.Header) bool {
	if headers == nil {
		return false
	}

	contentType := headers.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, yamlMime := range yamlMimeTypes {
		if mediaType == yamlMime {
			return true
		}
	}
	return false
}
