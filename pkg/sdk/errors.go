package astra

import (
	"errors"
	"fmt"

	"github.com/orbital-research/astra/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery           = domain.ErrEmptyQuery
	ErrEmbeddingFailed      = domain.ErrEmbeddingProvider
	ErrRetrievalUnavailable = domain.ErrRetrievalUnavailable
)

// ErrUnauthorized signals a missing or rejected API key.
var ErrUnauthorized = errors.New("astra: unauthorized")

// APIError carries the HTTP status and server message of a failed call.
type APIError struct {
	StatusCode int
	Message    string
	sentinel   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("astra: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.sentinel }
