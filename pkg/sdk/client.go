package astra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/orbital-research/astra/internal/domain/augment"
)

const defaultTimeout = 60 * time.Second

// QueryResult is the outcome of one pipeline call: an augmented chat
// request when documents matched, or a plain message when they did not.
type QueryResult struct {
	Request *augment.Request
	Message string
}

// HealthStatus reports per-dependency server health.
type HealthStatus struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Embedder string `json:"embedder"`
}

// Client is the astra SDK entry point.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates an astra API client.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("astra: base URL required")
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.apiKey,
		httpClient: hc,
	}, nil
}

type queryRequest struct {
	Query string `json:"query"`
}

// queryResponse covers both server body shapes: the augmented request and
// the plain message payload.
type queryResponse struct {
	Messages []augment.Message `json:"messages"`
	Metadata augment.Metadata  `json:"metadata"`
	Message  string            `json:"message"`
}

// Query runs the retrieval pipeline for one question.
func (c *Client) Query(ctx context.Context, text string) (QueryResult, error) {
	payload, err := json.Marshal(queryRequest{Query: text})
	if err != nil {
		return QueryResult{}, fmt.Errorf("astra: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/v1/query", bytes.NewReader(payload),
	)
	if err != nil {
		return QueryResult{}, fmt.Errorf("astra: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return QueryResult{}, fmt.Errorf("astra: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return QueryResult{}, fmt.Errorf("astra: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return QueryResult{}, apiError(resp.StatusCode, body)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return QueryResult{}, fmt.Errorf("astra: decode response: %w", err)
	}

	if len(qr.Messages) == 0 {
		return QueryResult{Message: qr.Message}, nil
	}
	return QueryResult{Request: &augment.Request{
		Messages: qr.Messages,
		Metadata: qr.Metadata,
	}}, nil
}

// Health fetches the server health report.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("astra: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("astra: do request: %w", err)
	}
	defer resp.Body.Close()

	// Degraded servers answer 503 with the same report body.
	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return HealthStatus{}, fmt.Errorf("astra: decode response: %w", err)
	}
	return status, nil
}

// apiError maps a non-200 response to a sentinel-wrapped APIError.
func apiError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	if payload.Message == "" {
		payload.Message = strings.TrimSpace(string(body))
	}

	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = ErrEmptyQuery
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusBadGateway:
		sentinel = ErrEmbeddingFailed
	case http.StatusServiceUnavailable:
		sentinel = ErrRetrievalUnavailable
	}

	return &APIError{StatusCode: status, Message: payload.Message, sentinel: sentinel}
}
