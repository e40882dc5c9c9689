package query

import (
	"context"

	"github.com/orbital-research/astra/internal/domain"
	"github.com/orbital-research/astra/internal/domain/augment"
	"github.com/orbital-research/astra/internal/domain/document"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Retriever returns the documents within the distance threshold,
// ascending by distance.
type Retriever interface {
	Retrieve(ctx context.Context, vector []float32) ([]document.Document, error)
}

// Formatter renders retrieved documents into the model context block and
// the compact per-source metadata.
type Formatter interface {
	ModelContext(docs []document.Document) string
	SourceMetadata(docs []document.Document) []augment.SourceMeta
}
