package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/orbital-research/astra/internal/domain/document"
	"github.com/orbital-research/astra/internal/logger"
)

// Service retrieves the documents closest to a query embedding and keeps
// only those within the configured distance threshold.
type Service struct {
	repo      Repository
	topK      int
	threshold float64
}

func New(repo Repository, topK int, threshold float64) *Service {
	return &Service{repo: repo, topK: topK, threshold: threshold}
}

// Retrieve returns the matching documents in ascending distance order.
// Documents whose distance exceeds the threshold are dropped; an empty
// slice is a valid outcome, not an error.
func (s *Service) Retrieve(ctx context.Context, vector []float32) ([]document.Document, error) {
	log := logger.FromContext(ctx)

	candidates, err := s.repo.SearchKNN(ctx, vector, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve top %d: %w", s.topK, err)
	}

	kept := candidates[:0]
	for _, doc := range candidates {
		if doc.Score() <= s.threshold {
			kept = append(kept, doc)
		}
	}

	log.Debug("retrieval complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("kept", len(kept)),
		zap.Float64("threshold", s.threshold))

	return kept, nil
}
