package query

import (
	"context"

	"github.com/orbital-research/astra/internal/domain"
	"github.com/orbital-research/astra/internal/domain/augment"
	"github.com/orbital-research/astra/internal/domain/document"
)

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.embedFn(ctx, text)
}

type mockRetriever struct {
	retrieveFn func(ctx context.Context, vector []float32) ([]document.Document, error)
	calls      int
}

func (m *mockRetriever) Retrieve(ctx context.Context, vector []float32) ([]document.Document, error) {
	m.calls++
	return m.retrieveFn(ctx, vector)
}

type mockFormatter struct {
	contextCalls int
	metaCalls    int
}

func (m *mockFormatter) ModelContext(docs []document.Document) string {
	m.contextCalls++
	return "context"
}

func (m *mockFormatter) SourceMetadata(docs []document.Document) []augment.SourceMeta {
	m.metaCalls++
	return nil
}

func embeddingOf(dims int) domain.EmbeddingResult {
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = 0.1
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 7}
}
