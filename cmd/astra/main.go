package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/orbital-research/astra/internal/config"
	"github.com/orbital-research/astra/internal/db"
	dbRedis "github.com/orbital-research/astra/internal/db/redis"
	"github.com/orbital-research/astra/internal/domain"
	logpkg "github.com/orbital-research/astra/internal/logger"
	"github.com/orbital-research/astra/internal/metrics"
	"github.com/orbital-research/astra/internal/repository/embcache"
	searchrepo "github.com/orbital-research/astra/internal/repository/search"
	"github.com/orbital-research/astra/internal/retry"
	chiTransport "github.com/orbital-research/astra/internal/transport/chi"
	nimEmb "github.com/orbital-research/astra/internal/transport/nim"
	openaiEmb "github.com/orbital-research/astra/internal/transport/openai"
	embeddinguc "github.com/orbital-research/astra/internal/usecase/embedding"
	healthuc "github.com/orbital-research/astra/internal/usecase/health"
	promptuc "github.com/orbital-research/astra/internal/usecase/prompt"
	queryuc "github.com/orbital-research/astra/internal/usecase/query"
	retrievaluc "github.com/orbital-research/astra/internal/usecase/retrieval"
	"github.com/orbital-research/astra/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting astra API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterQueryMetrics()

	embedder := buildEmbedder(cfg.Embedding, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	searchRepo := searchrepo.New(store, cfg.Search.IndexName)

	retrievalSvc := retrievaluc.New(searchRepo, cfg.Search.TopK, cfg.Search.ScoreThreshold)
	formatter := promptuc.New(
		cfg.Format.LongExcerptChars, cfg.Format.ShortExcerptChars, cfg.Format.ListSeparator,
	)
	querySvc := queryuc.New(embedder, retrievalSvc, formatter)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(querySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain:
// provider -> DimensionChecked -> Cached -> Instrumented -> Instruction.
func buildEmbedder(cfg config.EmbeddingConfig, store db.Store, logger *zap.Logger) domain.Embedder {
	policy := retry.Policy{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialBackoff: time.Duration(cfg.Retry.InitialBackoffMS) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.Retry.MaxBackoffMS) * time.Millisecond,
		AttemptTimeout: time.Duration(cfg.TimeoutSec) * time.Second,
	}

	var base domain.Embedder
	switch cfg.Provider {
	case "openai":
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Policy:  policy,
			Logger:  logger,
		})
	default:
		base = nimEmb.NewEmbedder(&nimEmb.Config{
			Endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/embeddings",
			APIKey:   cfg.APIKey,
			Model:    cfg.Model,
			Policy:   policy,
			Logger:   logger,
		})
	}

	// Dimension check sits directly above the provider so cached vectors
	// are already validated.
	embedder := domain.Embedder(domain.NewDimensionChecked(base, cfg.Dimensions))

	if cfg.Cache.Enabled {
		embedder = embcache.New(
			embedder, store, time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.EmbeddingCacheTotal, logger,
		)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger)

	// The NIM provider marks queries via input_type; OpenAI-compatible
	// endpoints get the query instruction as a prefix instead.
	// Outermost so the cache key includes the instruction.
	if cfg.Provider == "openai" && cfg.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.QueryInstruction)
	}

	return embedder
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbedderChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
