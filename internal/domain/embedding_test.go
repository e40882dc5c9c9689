package domain

import (
	"context"
	"errors"
	"testing"
)

type stubEmbedder struct {
	vec      []float32
	err      error
	lastText string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.lastText = text
	if s.err != nil {
		return EmbeddingResult{}, s.err
	}
	return EmbeddingResult{Embedding: s.vec, TotalTokens: 7}, nil
}

func TestDimensionChecked_OK(t *testing.T) {
	inner := &stubEmbedder{vec: make([]float32, 4)}
	checked := NewDimensionChecked(inner, 4)

	result, err := checked.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 4 {
		t.Errorf("expected 4 dimensions, got %d", len(result.Embedding))
	}
	if result.TotalTokens != 7 {
		t.Errorf("expected token usage to pass through, got %d", result.TotalTokens)
	}
}

func TestDimensionChecked_Mismatch(t *testing.T) {
	inner := &stubEmbedder{vec: make([]float32, 10)}
	checked := NewDimensionChecked(inner, 4096)

	_, err := checked.Embed(context.Background(), "query")
	if !errors.Is(err, ErrEmbeddingDimMismatch) {
		t.Fatalf("expected ErrEmbeddingDimMismatch, got %v", err)
	}
}

func TestDimensionChecked_InnerErrorPassesThrough(t *testing.T) {
	inner := &stubEmbedder{err: ErrEmbeddingProvider}
	checked := NewDimensionChecked(inner, 4)

	_, err := checked.Embed(context.Background(), "query")
	if !errors.Is(err, ErrEmbeddingProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestInstructionEmbedder_PrependsInstruction(t *testing.T) {
	inner := &stubEmbedder{vec: []float32{0.1}}
	emb := NewInstructionEmbedder(inner, "query: ")

	if _, err := emb.Embed(context.Background(), "dark matter"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.lastText != "query: dark matter" {
		t.Errorf("expected prefixed text, got %q", inner.lastText)
	}
}
