package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kailas-cloud/autoindex/internal/config"
	"github.com/kailas-cloud/autoindex/internal/db/postgres"
	domcap "github.com/kailas-cloud/autoindex/internal/domain/capability"
	"github.com/kailas-cloud/autoindex/internal/eventbus"
	logpkg "github.com/kailas-cloud/autoindex/internal/logger"
	"github.com/kailas-cloud/autoindex/internal/metrics"
	chiTransport "github.com/kailas-cloud/autoindex/internal/transport/chi"
	redisTransport "github.com/kailas-cloud/autoindex/internal/transport/redis"
	autoindexuc "github.com/kailas-cloud/autoindex/internal/usecase/autoindex"
	capabilityuc "github.com/kailas-cloud/autoindex/internal/usecase/capability"
	healthuc "github.com/kailas-cloud/autoindex/internal/usecase/health"
	"github.com/kailas-cloud/autoindex/internal/version"
)

func main() {
	env := pflag.String("env", config.GetEnv(), "environment name; selects config/<env>.yaml")
	configPath := pflag.String("config", "", "explicit config file path (overrides --env lookup)")
	probeOnly := pflag.Bool("probe-only", false, "print the detected capability tier and exit")
	showVersion := pflag.Bool("version", false, "print build information and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		return
	}

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load(*env)
	}
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(*env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting autoindex",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", *env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("time_column", cfg.Project.TimeColumn),
		zap.Bool("autoindex_enabled", cfg.AutoIndex.IsEnabled()),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	ctx := context.Background()

	gateway, err := postgres.NewGateway(ctx, postgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns), //nolint:gosec // validated non-negative, small
	})
	if err != nil {
		logger.Fatal("Failed to create database gateway", zap.Error(err))
	}
	defer gateway.Close()

	if err := gateway.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register provisioning metrics explicitly (no init())
	metrics.RegisterProvisioningMetrics()

	// The tier is fixed for the life of the process.
	tier := capabilityuc.New(gateway, logger).
		WithTimeout(time.Duration(cfg.Database.ProbeTimeout) * time.Second).
		Probe(ctx)
	metrics.SetCapabilityTier(tier.String(), domcap.Legacy.String(), domcap.Modern.String())

	if *probeOnly {
		fmt.Println(tier)
		return
	}

	bus := eventbus.New(logger)

	if cfg.AutoIndex.IsEnabled() {
		reactor := autoindexuc.New(gateway, tier, cfg.Project.TimeColumn, logger)
		bus.Subscribe("autoindex", reactor.Handle)
	} else {
		logger.Warn("Auto indexing disabled, schema notifications will be dropped")
	}

	// Optional Redis pub/sub source
	var redisPinger healthuc.Pinger
	runCtx, stopSubscriber := context.WithCancel(ctx)
	defer stopSubscriber()
	if cfg.Redis.Enabled {
		sub, err := redisTransport.NewSubscriber(redisTransport.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
			Channel:  cfg.Redis.Channel,
		}, bus, logger)
		if err != nil {
			logger.Fatal("Failed to create redis subscriber", zap.Error(err))
		}
		defer sub.Close()
		redisPinger = sub

		go func() {
			if err := sub.Run(runCtx); err != nil {
				logger.Error("Redis subscription ended", zap.Error(err))
			}
		}()
	}

	healthSvc := healthuc.New(gateway, redisPinger)
	server := chiTransport.NewServer(bus, tier, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.Handler(server, chiTransport.Options{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorCodeBadRequest,
				Message: err.Error(),
			})
		},
	})

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
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.String("tier", tier.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stopSubscriber()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
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

// wideEventMiddleware emits one log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// The reactor picks this logger up, so DDL logs carry the request_id.
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
