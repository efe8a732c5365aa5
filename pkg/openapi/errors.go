package openapi

import (
	"errors"
	"fmt"
)

var ErrEmptyContent = errors.New("empty content provided")

// FetchError reports a transport failure or a non-2xx status while
// retrieving a specification document.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: received status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports malformed JSON or YAML in a fetched document.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// CircularReferenceError is returned when a $ref is nested inside its own
// expansion. The dereferenced model cannot be trusted, so this aborts the run.
type CircularReferenceError struct {
	Ref string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference detected: %s", e.Ref)
}

// UnsupportedSpecError is returned when a document declares neither a
// "swagger" nor an "openapi" version key.
type UnsupportedSpecError struct {
	URL string
}

func (e *UnsupportedSpecError) Error() string {
	return fmt.Sprintf("%s is neither a Swagger 2.0 nor an OpenAPI 3.x document", e.URL)
}
