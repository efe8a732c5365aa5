package http_utils

import (
	"context"
	"sync"
	"time"
)

const acquirePollInterval = 50 * time.Millisecond

// TokenBucket is a continuously refilling token bucket shared by all scan
// workers. It is safe for concurrent acquisition.
type TokenBucket struct {
	mu          sync.Mutex
	tokens      float64
	maxTokens   float64
	rate        float64 // tokens per second
	lastUpdated time.Time
}

// NewTokenBucket creates a bucket refilling at rate tokens per second with
// the given burst capacity. The bucket starts full.
func NewTokenBucket(rate float64, maxTokens float64) *TokenBucket {
	return &TokenBucket{
		tokens:      maxTokens,
		maxTokens:   maxTokens,
		rate:        rate,
		lastUpdated: time.Now(),
	}
}

// NewRequestLimiter creates a bucket sized for a requests-per-minute limit.
func NewRequestLimiter(perMinute float64) *TokenBucket {
	if perMinute <= 0 {
		perMinute = 100
	}
	return NewTokenBucket(perMinute/60, perMinute)
}

// HasToken consumes a token if one is available.
func (tb *TokenBucket) HasToken() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	delta := now.Sub(tb.lastUpdated).Seconds()
	tb.tokens += delta * tb.rate
	if tb.tokens > tb.maxTokens {
		tb.tokens = tb.maxTokens
	}
	tb.lastUpdated = now

	if tb.tokens >= 1 {
		tb.tokens -= 1
		return true
	}
	return false
}

// Wait blocks the calling worker until a token is available or the context
// is cancelled. Other workers are unaffected.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.HasToken() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(acquirePollInterval):
		}
	}
}
