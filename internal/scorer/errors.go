package scorer

import (
	"errors"
	"fmt"
)

// ErrModelLoading is returned by the detector backend while the remote model
// is still warming up. Callers may retry.
var ErrModelLoading = errors.New("model is loading")

// TransportError reports a network failure or a non-success HTTP status.
type TransportError struct {
	Err        error
	Body       string
	StatusCode int
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("scorer API error (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("scorer request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is malformed or lacks the
// expected fields.
type ParseError struct {
	Err    error
	Reason string
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse scorer response: %s: %v", e.Reason, e.Err)
	}
	return "failed to parse scorer response: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CatalogFetchError reports a failure to list models.
type CatalogFetchError struct {
	Err error
}

func (e *CatalogFetchError) Error() string {
	return fmt.Sprintf("failed to fetch models: %v", e.Err)
}

func (e *CatalogFetchError) Unwrap() error {
	return e.Err
}

func parseErr(reason string, err error) error {
	return &ParseError{Reason: reason, Err: err}
}
