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

	"github.com/kailas-cloud/trajplan/internal/config"
	"github.com/kailas-cloud/trajplan/internal/db"
	"github.com/kailas-cloud/trajplan/internal/db/memory"
	dbRedis "github.com/kailas-cloud/trajplan/internal/db/redis"
	logpkg "github.com/kailas-cloud/trajplan/internal/logger"
	"github.com/kailas-cloud/trajplan/internal/metrics"
	planrepo "github.com/kailas-cloud/trajplan/internal/repository/plan"
	"github.com/kailas-cloud/trajplan/internal/repository/plancache"
	chiTransport "github.com/kailas-cloud/trajplan/internal/transport/chi"
	healthuc "github.com/kailas-cloud/trajplan/internal/usecase/health"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
	plansuc "github.com/kailas-cloud/trajplan/internal/usecase/plans"
	"github.com/kailas-cloud/trajplan/internal/version"
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

	logger.Info("Starting trajplan API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := openStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register planning metrics explicitly (no init())
	metrics.RegisterPlanningMetrics()

	planner := planning.New().
		WithWorkers(cfg.Planning.Workers).
		WithSamplingStep(cfg.Planning.SamplingStep).
		WithNormalRadius(cfg.Planning.NormalRadiusMM).
		WithObserver(planning.Observers{metrics.StageObserver{}, planning.NewLogObserver(logger)}).
		WithLogger(logger)
	opts := planner.Options()
	logger.Info("Planner configured",
		zap.Int("workers", opts.Workers),
		zap.Float64("sampling_step", opts.SamplingStep),
		zap.Float64("normal_radius_mm", opts.NormalRadius),
	)

	plansSvc := plansuc.New(planner, planrepo.New(store, cfg.Storage.KeyPrefix)).
		WithPlanTTL(time.Duration(cfg.Cache.PlanTTLSec) * time.Second)
	if cfg.Cache.Enabled {
		plansSvc.WithCache(plancache.New(
			store, cfg.Storage.KeyPrefix, time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.PlanCacheTotal, logger,
		))
	}

	healthSvc := healthuc.New(store, cfg.Database.Driver)

	server := chiTransport.NewServer(plansSvc, healthSvc, logger).
		WithDefaults(cfg.Planning.Params()).
		WithMaxBodyBytes(int64(cfg.Planning.MaxRequestMB) << 20).
		WithMaxVoxels(cfg.Planning.MaxVoxels)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// openStore creates the store for the configured driver.
func openStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case config.DriverNone:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
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

			// Per-request logger: the planner picks it up from the context.
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
