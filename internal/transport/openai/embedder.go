// Package openai implements an embedding provider for OpenAI-compatible
// APIs via sashabaranov/go-openai. Endpoints that need a query-type marker
// get it as an instruction prefix (domain.InstructionEmbedder) since the
// OpenAI schema has no input_type field.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/orbital-research/astra/internal/domain"
	"github.com/orbital-research/astra/internal/metrics"
	"github.com/orbital-research/astra/internal/retry"
)

// Embedder is an embedding provider using the OpenAI-compatible API.
type Embedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	policy retry.Policy
	logger *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Policy  retry.Policy
	Logger  *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Embedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.EmbeddingModel(cfg.Model),
		policy: cfg.Policy,
		logger: cfg.Logger,
	}
}

// Embed implements domain.Embedder. The API call is retried under the
// configured policy on transient conditions only.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	start := time.Now()

	var resp openai.EmbeddingResponse
	attempt := 0
	err := e.policy.Do(ctx, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			metrics.EmbeddingRetriesTotal.WithLabelValues("openai", string(e.model)).Inc()
			e.logger.Warn("Retrying embedding request",
				zap.String("model", string(e.model)),
				zap.Int("attempt", attempt),
			)
		}
		var callErr error
		resp, callErr = e.client.CreateEmbeddings(ctx, req)
		return callErr
	}, isTransient)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues("openai", string(e.model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues("openai", string(e.model), "api_error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues("openai", string(e.model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues("openai", string(e.model), "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProvider)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("openai", string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues("openai", string(e.model)).Observe(duration.Seconds())

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// isTransient reports whether an API error may be retried: rate limits,
// request timeouts, server-side failures, and transport-level errors.
func isTransient(err error) bool {
	if code, ok := httpStatus(err); ok {
		return code == http.StatusTooManyRequests ||
			code == http.StatusRequestTimeout ||
			code >= 500
	}
	// No HTTP status means the request never completed: transport failure.
	return true
}

func httpStatus(err error) (int, bool) {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	return 0, false
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEmbeddingProvider.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProvider

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
