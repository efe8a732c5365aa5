package openapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponse struct {
	status      int
	contentType string
	body        string
}

type stubDoer struct {
	responses map[string]stubResponse
	calls     int64
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	atomic.AddInt64(&s.calls, 1)
	resp, ok := s.responses[req.URL.String()]
	if !ok {
		return nil, fmt.Errorf("unexpected URL %s", req.URL)
	}
	header := http.Header{}
	if resp.contentType != "" {
		header.Set("Content-Type", resp.contentType)
	}
	status := resp.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
	}, nil
}

func newStubLoader(responses map[string]stubResponse) (*Loader, *stubDoer) {
	doer := &stubDoer{responses: responses}
	return NewLoader(doer, "test-agent"), doer
}

func TestLoaderDecodesJSON(t *testing.T) {
	loader, _ := newStubLoader(map[string]stubResponse{
		"https://example.com/openapi.json": {
			contentType: "application/json",
			body:        `{"openapi": "3.0.0"}`,
		},
	})

	doc, err := loader.Load("https://example.com/openapi.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"openapi": "3.0.0"}, doc)
}

func TestLoaderDecodesYAML(t *testing.T) {
	loader, _ := newStubLoader(map[string]stubResponse{
		"https://example.com/swagger.yml": {
			contentType: "text/plain",
			body:        "swagger: \"2.0\"\npaths: {}\n",
		},
	})

	doc, err := loader.Load("https://example.com/swagger.yml")
	require.NoError(t, err)
	root, ok := doc.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2.0", root["swagger"])
}

func TestLoaderCachesPerURL(t *testing.T) {
	loader, doer := newStubLoader(map[string]stubResponse{
		"https://example.com/openapi.json": {
			contentType: "application/json",
			body:        `{"openapi": "3.0.0"}`,
		},
	})

	for i := 0; i < 3; i++ {
		_, err := loader.Load("https://example.com/openapi.json")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, atomic.LoadInt64(&doer.calls))
}

func TestLoaderFetchError(t *testing.T) {
	loader, _ := newStubLoader(map[string]stubResponse{
		"https://example.com/missing.json": {status: http.StatusNotFound, body: "not found"},
	})

	_, err := loader.Load("https://example.com/missing.json")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestLoaderDecodeError(t *testing.T) {
	loader, _ := newStubLoader(map[string]stubResponse{
		"https://example.com/broken.json": {
			contentType: "application/json",
			body:        `{"openapi": `,
		},
	})

	_, err := loader.Load("https://example.com/broken.json")
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
