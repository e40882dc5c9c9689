package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/orbital-research/astra/internal/domain"
	healthuc "github.com/orbital-research/astra/internal/usecase/health"
	queryuc "github.com/orbital-research/astra/internal/usecase/query"
)

// Error codes returned in JSON error bodies.
const (
	CodeBadRequest       = "bad_request"
	CodeEmptyQuery       = "empty_query"
	CodeEmbeddingFailed  = "embedding_failed"
	CodeIndexUnavailable = "index_unavailable"
	CodeUnauthorized     = "unauthorized"
	CodeInternalError    = "internal_error"
)

// QueryRunner executes the retrieval pipeline for one query.
type QueryRunner interface {
	Run(ctx context.Context, text string) (queryuc.Result, error)
}

// HealthChecker reports dependency status.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server exposes the pipeline over HTTP.
type Server struct {
	query  QueryRunner
	health HealthChecker
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(query QueryRunner, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{query: query, health: health, logger: logger}
}

// Routes builds the route tree. Middleware is attached by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/query", s.RunQuery)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

type queryRequest struct {
	Query string `json:"query"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// RunQuery handles POST /v1/query. The body is either the augmented chat
// request or a message payload; failure paths carry the pipeline's fixed
// user-facing message, never internal error text.
func (s *Server) RunQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.query.Run(r.Context(), req.Query)
	if err != nil {
		writeJSON(w, statusFor(err), messageResponse{Message: res.Message})
		return
	}

	if res.Request == nil {
		// Empty result set: a valid answer, just without sources.
		writeJSON(w, http.StatusOK, messageResponse{Message: res.Message})
		return
	}

	writeJSON(w, http.StatusOK, res.Request)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.StatusOK {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// statusFor maps pipeline sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingProvider),
		errors.Is(err, domain.ErrEmbeddingDimMismatch):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrRetrievalUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
