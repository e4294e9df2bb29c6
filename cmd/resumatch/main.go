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

	"github.com/resumatch-io/resumatch/internal/config"
	"github.com/resumatch-io/resumatch/internal/db"
	dbPostgres "github.com/resumatch-io/resumatch/internal/db/postgres"
	dbRedis "github.com/resumatch-io/resumatch/internal/db/redis"
	"github.com/resumatch-io/resumatch/internal/domain"
	"github.com/resumatch-io/resumatch/internal/extract"
	logpkg "github.com/resumatch-io/resumatch/internal/logger"
	"github.com/resumatch-io/resumatch/internal/metrics"
	"github.com/resumatch-io/resumatch/internal/repository/embcache"
	jobrepo "github.com/resumatch-io/resumatch/internal/repository/job"
	matchrepo "github.com/resumatch-io/resumatch/internal/repository/match"
	"github.com/resumatch-io/resumatch/internal/repository/parsequeue"
	resumerepo "github.com/resumatch-io/resumatch/internal/repository/resume"
	chiTransport "github.com/resumatch-io/resumatch/internal/transport/chi"
	openaiEmb "github.com/resumatch-io/resumatch/internal/transport/openai"
	healthuc "github.com/resumatch-io/resumatch/internal/usecase/health"
	matchuc "github.com/resumatch-io/resumatch/internal/usecase/match"
	parseuc "github.com/resumatch-io/resumatch/internal/usecase/parse"
	"github.com/resumatch-io/resumatch/internal/version"
)

func main() {
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

	logger.Info("Starting resumatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	ctx := context.Background()

	// Postgres: resumes, jobs, matches.
	pool, err := dbPostgres.WaitForReady(ctx, cfg.Database.DSN,
		time.Duration(cfg.Database.ReadinessTimeout)*time.Second)
	if err != nil {
		logger.Fatal("Postgres not ready", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("Connected to Postgres")

	// Redis: embedding cache and parse queue. Optional; without it the
	// service runs uncached with synchronous parsing only.
	var cacheStore db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		cacheStore = store
		logger.Info("Connected to Redis")
	}

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	// Embedder chain: OpenAI-compatible provider, cached when Redis is up.
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	var embedder domain.Embedder = base
	if cacheStore != nil {
		embedder = embcache.New(base, cacheStore,
			cfg.Cache.KeyPrefix, cfg.Embedding.Model,
			metrics.EmbeddingCacheTotal, logger)
	}

	// Repositories ensure their schema on construction.
	resumes, err := resumerepo.NewRepository(ctx, pool)
	if err != nil {
		logger.Fatal("Failed to init resume repository", zap.Error(err))
	}
	jobs, err := jobrepo.NewRepository(ctx, pool)
	if err != nil {
		logger.Fatal("Failed to init job repository", zap.Error(err))
	}
	matches, err := matchrepo.NewRepository(ctx, pool)
	if err != nil {
		logger.Fatal("Failed to init match repository", zap.Error(err))
	}

	extractor := extract.NewExtractor(logger)

	parseSvc := parseuc.New(resumes, extractor, embedder, cfg.Embedding.Model,
		time.Duration(cfg.Parse.TimeoutSec)*time.Second, logger)
	matchSvc := matchuc.New(resumes, jobs, matches, embedder, cfg.Embedding.Model,
		time.Duration(cfg.Matching.TimeoutSec)*time.Second, logger)

	// Durable parse queue and its worker loop.
	var queue *parsequeue.Queue
	workerCtx, stopWorkers := context.WithCancel(ctx)
	var worker *parseuc.Worker
	if cfg.Parse.Queue && cacheStore != nil {
		queue = parsequeue.New(cacheStore, cfg.Cache.KeyPrefix)
		worker = parseuc.NewWorker(parseSvc, queue, cfg.Parse.Workers, logger)
		worker.Start(workerCtx)
		logger.Info("Parse queue workers started", zap.Int("workers", cfg.Parse.Workers))
	}

	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(pool, cachePinger, base)

	// Avoid a typed-nil Enqueuer interface when the queue is disabled.
	var enqueuer chiTransport.Enqueuer
	if queue != nil {
		enqueuer = queue
	}
	server := chiTransport.NewServer(parseSvc, matchSvc, enqueuer, healthSvc,
		cfg.Matching.DefaultTopK, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	stopWorkers()
	if worker != nil {
		worker.Wait()
	}

	logger.Info("Server stopped gracefully")
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
