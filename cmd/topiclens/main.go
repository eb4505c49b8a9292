package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/config"
	logpkg "github.com/kailas-cloud/topiclens/internal/logger"
	"github.com/kailas-cloud/topiclens/internal/metrics"
	"github.com/kailas-cloud/topiclens/internal/repository/inventory"
	"github.com/kailas-cloud/topiclens/internal/transport/azsearch"
	chiTransport "github.com/kailas-cloud/topiclens/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/topiclens/internal/transport/openai"
	authuc "github.com/kailas-cloud/topiclens/internal/usecase/auth"
	healthuc "github.com/kailas-cloud/topiclens/internal/usecase/health"
	queryuc "github.com/kailas-cloud/topiclens/internal/usecase/query"
	raguc "github.com/kailas-cloud/topiclens/internal/usecase/rag"
	"github.com/kailas-cloud/topiclens/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting topiclens API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("inventory_file", cfg.Datasets.InventoryFile),
		zap.String("consumer_file", cfg.Datasets.ConsumerFile),
	)

	// Datasets are loaded once and immutable afterwards.
	store, err := inventory.Load(cfg.Datasets.InventoryFile, cfg.Datasets.ConsumerFile, cfg.Datasets.AuthFile)
	if err != nil {
		logger.Fatal("Failed to load datasets", zap.Error(err))
	}
	logger.Info("Datasets loaded",
		zap.Int("owners", len(store.Owners())),
		zap.Int("consumers", len(store.Consumers())),
	)

	// Register RAG metrics explicitly (no init())
	metrics.RegisterRAGMetrics()

	staticKnowledge, err := cfg.StaticKnowledge()
	if err != nil {
		logger.Fatal("Failed to read static knowledge", zap.Error(err))
	}

	// External clients — composition root
	retriever := azsearch.NewClient(azsearch.Config{
		Endpoint:   cfg.Search.Endpoint,
		APIKey:     cfg.Search.APIKey,
		APIVersion: cfg.Search.APIVersion,
		Logger:     logger,
	})
	completer := openaiTransport.NewCompleter(openaiTransport.Config{
		APIKey:      cfg.Completion.APIKey,
		BaseURL:     cfg.Completion.BaseURL,
		Model:       cfg.Completion.Model,
		MaxTokens:   cfg.Completion.MaxTokens,
		Temperature: cfg.Completion.Temperature,
		TopP:        cfg.Completion.TopP,
		Logger:      logger,
	})

	// Use case services
	querySvc := queryuc.New(store)
	ragSvc := raguc.New(retriever, completer, ragConfig(cfg, staticKnowledge), logger)
	authSvc := authuc.New(store, authuc.Config{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TokenTTL: time.Duration(cfg.Auth.TokenTTLSec) * time.Second,
	}, logger)
	healthSvc := healthuc.New(store, cfg.Search.Endpoint != "" && len(cfg.Search.Indexes) > 0)

	// Create chi server
	server := chiTransport.NewServer(querySvc, ragSvc, authSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes(cfg.Auth.ProtectedPrefix, chiTransport.BearerAuthMiddleware(authSvc)))

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

func ragConfig(cfg config.Config, staticKnowledge string) raguc.Config {
	indexes := make([]raguc.Index, 0, len(cfg.Search.Indexes))
	for _, idx := range cfg.Search.Indexes {
		semantics := make([]raguc.Semantic, 0, len(idx.Semantics))
		for _, sem := range idx.Semantics {
			semantics = append(semantics, raguc.Semantic{
				Name:         sem.Name,
				SelectFields: sem.SelectFields,
			})
		}
		indexes = append(indexes, raguc.Index{Name: idx.Name, Semantics: semantics})
	}

	return raguc.Config{
		Indexes: indexes,
		AppInfo: raguc.AppInfoIndex{
			Index:                 cfg.Search.AppInfo.Index,
			SemanticConfiguration: cfg.Search.AppInfo.SemanticConfiguration,
			SelectFields:          cfg.Search.AppInfo.SelectFields,
		},
		StaticKnowledge: staticKnowledge,
		MaxQuestions:    cfg.Search.MaxQuestions,
		KnowledgeBudget: cfg.Knowledge.MaxChars,
	}
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

			// Set X-Request-ID in response header
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
