package retrieval

import (
	"context"

	"github.com/orbital-research/astra/internal/domain/document"
)

// Repository runs nearest-neighbor queries against the document index.
type Repository interface {
	SearchKNN(ctx context.Context, vector []float32, k int) ([]document.Document, error)
}
