package domain

import "errors"

var (
	// ErrEmptyQuery signals an empty or whitespace-only query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrEmbeddingProvider signals an embedding provider failure after retries.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrEmbeddingDimMismatch signals an embedding of unexpected length.
	// Treated as a configuration/service mismatch, never retried.
	ErrEmbeddingDimMismatch = errors.New("embedding dimension mismatch")
	// ErrRetrievalUnavailable signals that the vector index could not be reached.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)
