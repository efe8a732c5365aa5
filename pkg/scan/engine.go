package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oasprobe/oasprobe/pkg/fuzz"
	"github.com/oasprobe/oasprobe/pkg/http_utils"
	"github.com/oasprobe/oasprobe/pkg/openapi"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// Config holds everything the engine needs besides the task stream.
type Config struct {
	// Client issues the scan requests; its transport owns TLS and timeout
	// policy.
	Client *http.Client
	// ServerURL is the base URL task paths are appended to.
	ServerURL string
	// Headers are merged into every request after the User-Agent default
	// and before the task's own header parameters.
	Headers map[string]string
	// UserAgent overrides the default User-Agent when non-empty.
	UserAgent string
	// RateLimit caps requests per minute across all workers combined.
	RateLimit float64
	// Workers bounds how many tasks are in flight concurrently.
	Workers int
}

// Engine drains a task stream under a worker bound and a shared rate limit,
// issues the mutated requests and reports error-candidate responses.
type Engine struct {
	client    *http.Client
	serverURL string
	headers   map[string]string
	userAgent string
	limiter   *http_utils.TokenBucket
	workers   int
	findings  *FindingWriter
}

func NewEngine(cfg Config, findings *FindingWriter) *Engine {
	workers := cfg.Workers
	if workers < 1 {
		workers = 10
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = http_utils.DefaultUserAgent
	}
	return &Engine{
		client:    cfg.Client,
		serverURL: cfg.ServerURL,
		headers:   cfg.Headers,
		userAgent: userAgent,
		limiter:   http_utils.NewRequestLimiter(cfg.RateLimit),
		workers:   workers,
		findings:  findings,
	}
}

// NewEngineForModel picks the scan base URL from the model's first server.
func NewEngineForModel(model openapi.Model, cfg Config, findings *FindingWriter) (*Engine, error) {
	serverURLs := model.ServerURLs()
	if len(serverURLs) == 0 {
		return nil, errors.New("specification declares no server URL")
	}
	cfg.ServerURL = serverURLs[0]
	return NewEngine(cfg, findings), nil
}

// Run drains the task stream. It returns once every task has completed or
// failed; a single task's failure is logged and never aborts the scan.
func (e *Engine) Run(ctx context.Context, tasks <-chan fuzz.Task) {
	log.Info().Str("server_url", e.serverURL).Int("workers", e.workers).Msg("Scanning started")

	p := pool.New().WithMaxGoroutines(e.workers)
	count := 0
	for task := range tasks {
		task := task
		count++
		p.Go(func() {
			e.runTask(ctx, task)
		})
	}
	p.Wait()

	log.Info().Int("tasks", count).Msg("Scanning finished")
}

func (e *Engine) runTask(ctx context.Context, task fuzz.Task) {
	finding, err := e.execute(ctx, task)
	if err != nil {
		log.Warn().Err(err).
			Str("method", task.Method).
			Str("path", task.Path).
			Msg("Task failed")
		return
	}
	if finding == nil {
		return
	}
	if err := e.findings.Write(*finding); err != nil {
		log.Error().Err(err).Msg("Failed to write finding")
	}
}

func (e *Engine) execute(ctx context.Context, task fuzz.Task) (*Finding, error) {
	requestURL := e.serverURL + substitutePathParams(task.Path, task.PathParams)

	target := requestURL
	if query := encodeQuery(task.Query); len(query) > 0 {
		target = requestURL + "?" + query.Encode()
	}

	var body io.Reader
	if task.Body != nil {
		encoded, err := json.Marshal(task.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(task.Method), target, body)
	if err != nil {
		return nil, err
	}
	e.applyHeaders(req, task)

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", req.Method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Msg("Request completed")

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	hasError := resp.StatusCode >= 500

	// A body that fails to parse as JSON is an error candidate regardless
	// of status: default error pages from typical frameworks are HTML.
	var parsed interface{}
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		parsed = nil
		hasError = true
	}

	if !hasError {
		return nil, nil
	}
	// Bodyless operations still report an empty object so the findings
	// stream keeps a uniform shape.
	data := task.Body
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Finding{
		Method:  task.Method,
		URL:     requestURL,
		Query:   task.Query,
		Data:    data,
		Headers: task.Headers,
		Response: FindingResponse{
			StatusCode: resp.StatusCode,
			Data:       parsed,
		},
	}, nil
}

func (e *Engine) applyHeaders(req *http.Request, task fuzz.Task) {
	req.Header.Set("User-Agent", e.userAgent)
	for name, value := range e.headers {
		req.Header.Set(name, value)
	}
	for name, value := range task.Headers {
		req.Header.Set(name, fmt.Sprintf("%v", value))
	}
	if task.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

// substitutePathParams fills {name} placeholders with percent-encoded
// values.
func substitutePathParams(path string, params map[string]interface{}) string {
	for name, value := range params {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(fmt.Sprintf("%v", value)))
	}
	return path
}

// encodeQuery renders query values as strings. Booleans become 0/1: the
// query encoding contract downstream does not accept the literal words.
func encodeQuery(values map[string]interface{}) url.Values {
	query := url.Values{}
	for name, value := range values {
		switch v := value.(type) {
		case bool:
			if v {
				query.Set(name, "1")
			} else {
				query.Set(name, "0")
			}
		default:
			query.Set(name, fmt.Sprintf("%v", v))
		}
	}
	return query
}
