package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// DimensionChecked is a domain decorator that rejects vectors whose length
// differs from the configured dimension. Mismatches are never truncated or
// padded, and the caller must not search with them.
type DimensionChecked struct {
	inner      Embedder
	dimensions int
}

// NewDimensionChecked wraps an embedder with dimension validation.
func NewDimensionChecked(inner Embedder, dimensions int) *DimensionChecked {
	return &DimensionChecked{inner: inner, dimensions: dimensions}
}

// Embed delegates to the inner embedder and validates the vector length.
func (d *DimensionChecked) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := d.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err
	}
	if got := len(result.Embedding); got != d.dimensions {
		return EmbeddingResult{}, fmt.Errorf(
			"expected %d dimensions, got %d: %w", d.dimensions, got, ErrEmbeddingDimMismatch,
		)
	}
	return result, nil
}

// HealthCheck proxies to the inner embedder when it supports health checks.
func (d *DimensionChecked) HealthCheck(ctx context.Context) error {
	if hc, ok := d.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// InstructionEmbedder is a domain decorator that prepends instruction text
// before embedding. Some embedding models expect a query-type prefix.
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
}

// NewInstructionEmbedder creates a decorator that prepends instruction text.
func NewInstructionEmbedder(inner Embedder, instruction string) *InstructionEmbedder {
	return &InstructionEmbedder{inner: inner, instruction: instruction}
}

// Embed prepends the instruction and delegates to the inner embedder.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return result, nil
}
