package scan

import (
	"encoding/json"
	"io"
	"sync"
)

// Finding is one suspicious (request, response) observation, emitted as a
// single JSON line.
type Finding struct {
	Method   string                 `json:"method"`
	URL      string                 `json:"url"`
	Query    map[string]interface{} `json:"query"`
	Data     map[string]interface{} `json:"data"`
	Headers  map[string]interface{} `json:"headers"`
	Response FindingResponse        `json:"response"`
}

// FindingResponse carries the observed status code and the parsed response
// body, null when the body was not valid JSON.
type FindingResponse struct {
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data"`
}

// FindingWriter serializes findings to its sink one JSON object per line.
// Writes are serialized so concurrent workers never interleave records.
type FindingWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewFindingWriter(w io.Writer) *FindingWriter {
	return &FindingWriter{enc: json.NewEncoder(w)}
}

func (w *FindingWriter) Write(finding Finding) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(finding)
}
