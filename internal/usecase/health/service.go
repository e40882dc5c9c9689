package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/orbital-research/astra/internal/logger"
)

// Component states reported by Check.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Report aggregates per-dependency status for the health endpoint.
type Report struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Embedder string `json:"embedder"`
}

// Service probes the document store and the embedding provider.
type Service struct {
	store    StorePinger
	embedder EmbedderChecker
}

func New(store StorePinger, embedder EmbedderChecker) *Service {
	return &Service{store: store, embedder: embedder}
}

// Check probes both dependencies. A failing dependency degrades the overall
// status but never returns an error; the report itself is the answer.
func (s *Service) Check(ctx context.Context) Report {
	log := logger.FromContext(ctx)
	report := Report{Status: StatusOK, Store: StatusOK, Embedder: StatusOK}

	if err := s.store.Ping(ctx); err != nil {
		log.Warn("store health check failed", zap.Error(err))
		report.Store = StatusDegraded
		report.Status = StatusDegraded
	}

	if err := s.embedder.HealthCheck(ctx); err != nil {
		log.Warn("embedder health check failed", zap.Error(err))
		report.Embedder = StatusDegraded
		report.Status = StatusDegraded
	}

	return report
}
