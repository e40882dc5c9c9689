package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orbital-research/astra/internal/domain"
	"github.com/orbital-research/astra/internal/domain/augment"
	"github.com/orbital-research/astra/internal/logger"
	"github.com/orbital-research/astra/internal/metrics"
)

// Fixed user-facing messages. Internal error details never reach callers;
// the sentinel-to-message mapping lives here and only here.
const (
	MsgEmptyQuery = "It looks like your question was empty. " +
		"Please ask something about the document corpus."
	MsgEmbeddingFailed = "I was unable to generate an embedding for your " +
		"question. Please try again in a moment."
	MsgIndexUnavailable = "The document index is currently unavailable. " +
		"Please try again in a moment."
	MsgNoResults = "I could not find any relevant documents for your " +
		"question. Try rephrasing it or asking about another topic."
)

const systemInstruction = "You are a research assistant for a corpus of " +
	"astronomy and astrophysics papers. Answer strictly from the provided " +
	"context and name the source documents you rely on. If the context does " +
	"not cover the question, say so."

// Result is the orchestrator outcome: either an augmented chat request or a
// fixed user-facing message; never both.
type Result struct {
	Request *augment.Request
	Message string
}

// Service runs the retrieval pipeline: validate, embed, search, format,
// assemble. Safe for concurrent use; all fields are read-only after New.
type Service struct {
	embedder  Embedder
	retriever Retriever
	formatter Formatter
}

func New(embedder Embedder, retriever Retriever, formatter Formatter) *Service {
	return &Service{embedder: embedder, retriever: retriever, formatter: formatter}
}

// Run executes the pipeline for one query. Failure paths return both the
// fixed message and a sentinel-wrapped error so the transport layer can map
// a status code; an empty result set is a message, not an error.
func (s *Service) Run(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		s.observe("empty_query", start)
		return Result{Message: MsgEmptyQuery}, domain.ErrEmptyQuery
	}

	log.Info("query received", zap.Int("query_chars", len(text)))

	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		log.Error("embedding failed", zap.Error(err))
		s.observe("embedding_failed", start)
		return Result{Message: MsgEmbeddingFailed}, fmt.Errorf("embed query: %w", err)
	}
	log.Debug("query embedded",
		zap.Int("dimensions", len(emb.Embedding)),
		zap.Int("total_tokens", emb.TotalTokens))

	docs, err := s.retriever.Retrieve(ctx, emb.Embedding)
	if err != nil {
		log.Error("retrieval failed", zap.Error(err))
		s.observe("retrieval_failed", start)
		return Result{Message: MsgIndexUnavailable}, fmt.Errorf("retrieve: %w", err)
	}
	metrics.QueryDocumentsMatched.Observe(float64(len(docs)))

	if len(docs) == 0 {
		log.Info("no documents within threshold")
		s.observe("no_results", start)
		return Result{Message: MsgNoResults}, nil
	}

	contextBlock := s.formatter.ModelContext(docs)
	sources := s.formatter.SourceMetadata(docs)

	var sum float64
	for i := range docs {
		sum += docs[i].Score()
	}

	req := &augment.Request{
		Messages: []augment.Message{
			{Role: augment.RoleSystem, Content: systemInstruction},
			{Role: augment.RoleUser, Content: userTurn(contextBlock, text)},
		},
		Metadata: augment.Metadata{
			Sources:      sources,
			Timestamp:    time.Now().UTC(),
			TotalSources: len(docs),
			AverageScore: sum / float64(len(docs)),
			ElapsedMS:    time.Since(start).Milliseconds(),
		},
	}

	log.Info("query answered",
		zap.Int("total_sources", len(docs)),
		zap.Float64("average_score", req.Metadata.AverageScore),
		zap.Int64("elapsed_ms", req.Metadata.ElapsedMS))
	s.observe("answered", start)

	return Result{Request: req}, nil
}

func userTurn(contextBlock, query string) string {
	return fmt.Sprintf(
		"Use the retrieved documents below to answer the question.\n\n%s\nQuestion: %s",
		contextBlock, query,
	)
}

func (s *Service) observe(outcome string, start time.Time) {
	metrics.QueryRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.QueryDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
