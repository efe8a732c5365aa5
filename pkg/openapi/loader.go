package openapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// HTTPDoer is the minimal transport surface the loader needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Loader fetches and caches raw specification documents by URL. A document
// is fetched at most once per URL for the lifetime of the loader; concurrent
// first accesses to the same URL collapse into a single fetch.
type Loader struct {
	client    HTTPDoer
	userAgent string

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	doc  interface{}
	err  error
}

// NewLoader creates a loader on top of the given client. The client owns
// retries, TLS and timeout policy; the loader only decodes and caches.
func NewLoader(client HTTPDoer, userAgent string) *Loader {
	return &Loader{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]*cacheEntry),
	}
}

// Load returns the decoded document at url, fetching it on first access.
func (l *Loader) Load(url string) (interface{}, error) {
	l.mu.Lock()
	entry, ok := l.cache[url]
	if !ok {
		entry = &cacheEntry{}
		l.cache[url] = entry
	}
	l.mu.Unlock()

	entry.once.Do(func() {
		entry.doc, entry.err = l.fetch(url)
	})
	return entry.doc, entry.err
}

func (l *Loader) fetch(url string) (interface{}, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if len(body) == 0 {
		return nil, &DecodeError{URL: url, Err: ErrEmptyContent}
	}

	format := DetectFormat(url, resp.Header)
	log.Debug().Str("url", url).Str("format", string(format)).Msg("Fetched specification document")

	var doc interface{}
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(body, &doc)
	default:
		err = json.Unmarshal(body, &doc)
	}
	if err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}
	return doc, nil
}
