package openapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		contentType string
		expected    Format
	}{
		{
			name:        "yaml content type",
			url:         "https://example.com/spec",
			contentType: "application/yaml",
			expected:    FormatYAML,
		},
		{
			name:        "yaml content type with charset",
			url:         "https://example.com/spec",
			contentType: "text/x-yaml; charset=utf-8",
			expected:    FormatYAML,
		},
		{
			name:        "yaml url extension",
			url:         "https://example.com/swagger.yml",
			contentType: "text/plain",
			expected:    FormatYAML,
		},
		{
			name:        "yaml extension wins over json content type",
			url:         "https://example.com/openapi.yaml",
			contentType: "application/json",
			expected:    FormatYAML,
		},
		{
			name:        "json content type",
			url:         "https://example.com/spec",
			contentType: "application/json",
			expected:    FormatJSON,
		},
		{
			name:     "no hints defaults to json",
			url:      "https://example.com/openapi",
			expected: FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.contentType != "" {
				headers.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.expected, DetectFormat(tt.url, headers))
		})
	}
}
