// Package nim implements an embedding provider for NVIDIA-NIM-style
// OpenAI-compatible endpoints. These endpoints take an extra "input_type"
// field ("query" vs "passage") that is outside the OpenAI schema, so the
// request body is built by hand over net/http.
package nim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/orbital-research/astra/internal/domain"
	"github.com/orbital-research/astra/internal/metrics"
	"github.com/orbital-research/astra/internal/retry"
)

const inputTypeQuery = "query"

// Embedder is an embedding provider for NIM-style endpoints.
type Embedder struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	policy     retry.Policy
	logger     *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Policy   retry.Policy
	Logger   *zap.Logger
}

// NewEmbedder creates a NIM-style embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	return &Embedder{
		httpClient: &http.Client{},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		policy:     cfg.Policy,
		logger:     cfg.Logger,
	}
}

type embeddingRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// statusError marks an HTTP failure so the retry predicate can inspect the code.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("embedding API error %d: %s", e.code, e.body)
}

// transportError marks a failure below the HTTP layer (dial, TLS, timeout).
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "embedding transport: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// Embed implements domain.Embedder. The call is retried under the configured
// policy on transient conditions only (rate limits, server overload,
// transport failures); a timed-out attempt counts toward the budget.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	body, err := json.Marshal(embeddingRequest{
		Input:     []string{text},
		Model:     e.model,
		InputType: inputTypeQuery,
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("marshal embedding request: %w", err)
	}

	start := time.Now()

	var result domain.EmbeddingResult
	attempt := 0
	err = e.policy.Do(ctx, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			metrics.EmbeddingRetriesTotal.WithLabelValues("nim", e.model).Inc()
			e.logger.Warn("Retrying embedding request",
				zap.String("model", e.model),
				zap.Int("attempt", attempt),
			)
		}
		var attemptErr error
		result, attemptErr = e.doRequest(ctx, body)
		return attemptErr
	}, isTransient)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues("nim", e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues("nim", e.model, errorType(err)).Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("%s: %w", err.Error(), domain.ErrEmbeddingProvider)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("nim", e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues("nim", e.model).Observe(duration.Seconds())

	return result, nil
}

// HealthCheck issues a minimal embedding request to verify the endpoint.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.Embed(ctx, "ping"); err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	return nil
}

func (e *Embedder) doRequest(ctx context.Context, body []byte) (domain.EmbeddingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return domain.EmbeddingResult{}, &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return domain.EmbeddingResult{}, &transportError{err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.EmbeddingResult{}, &statusError{code: resp.StatusCode, body: truncateBody(data)}
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return domain.EmbeddingResult{}, errors.New("empty embedding response")
	}

	return domain.EmbeddingResult{
		Embedding:    parsed.Data[0].Embedding,
		PromptTokens: parsed.Usage.PromptTokens,
		TotalTokens:  parsed.Usage.TotalTokens,
	}, nil
}

// isTransient reports whether an attempt may be retried: rate limits, request
// timeouts, server-side failures, and transport-level errors. Malformed
// responses and other 4xx statuses are permanent.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests ||
			se.code == http.StatusRequestTimeout ||
			se.code >= 500
	}
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func errorType(err error) string {
	var se *statusError
	if errors.As(err, &se) {
		return "api_error"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var te *transportError
	if errors.As(err, &te) {
		return "transport_error"
	}
	return "malformed_response"
}

func truncateBody(b []byte) string {
	const maxLen = 512
	if len(b) > maxLen {
		return string(b[:maxLen]) + "..."
	}
	return string(b)
}
