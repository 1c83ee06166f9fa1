// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

// Command api is the entry point for the Leafmark HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis (optional, sessions only).
//  4. Hydrate the in-memory catalogue.
//  5. Wire domain services and HTTP handlers.
//  6. Start the sliding-window reclaimer.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/leafmark/leafmark/internal/api"
	"github.com/leafmark/leafmark/internal/catalog"
	"github.com/leafmark/leafmark/internal/gateway"
	"github.com/leafmark/leafmark/internal/platform/config"
	"github.com/leafmark/leafmark/internal/platform/constants"
	redisstore "github.com/leafmark/leafmark/internal/platform/redis"
	"github.com/leafmark/leafmark/internal/platform/sec"
	"github.com/leafmark/leafmark/internal/ratelimit"
	"github.com/leafmark/leafmark/internal/review"
	"github.com/leafmark/leafmark/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Leafmark] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Application-lifetime context: cancelled on shutdown so background
	// loops (limiter cleanup, window reclaimer) stop with the server.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 4. Session Store (in-memory by default, Redis when configured) ────
	var sessionRepository auth.SessionRepository
	var checkCache func() error

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(appCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		sessionRepository = auth.NewRedisSessionRepository(rdb)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
		log.Info("session_store_selected", slog.String("backend", "redis"))
	} else {
		sessionRepository = auth.NewMemorySessionRepository()
		log.Info("session_store_selected", slog.String("backend", "memory"))
	}

	// ── 5. Catalogue ──────────────────────────────────────────────────────
	bookRepository, err := catalog.NewMemoryBookRepository()
	must(log, err, "hydrate catalogue")

	catalogService := catalog.NewService(bookRepository)
	catalogHandler := catalog.NewHandler(catalogService)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.NewMemoryUserRepository(), sessionRepository, jwtSvc)
	authHandler := auth.NewHandler(authService)

	reviewService := review.NewService(review.NewMemoryReviewRepository(), catalogService)
	reviewHandler := review.NewHandler(reviewService)

	// ── 7. Async Gateway ──────────────────────────────────────────────────
	limiter := ratelimit.NewLimiter(cfg.WindowLimit, cfg.WindowDuration, log)
	limiter.StartReclaimer(appCtx, constants.WindowReclaimInterval)

	gatewayService := gateway.NewService(cfg.UpstreamBaseURL, limiter, constants.GatewayTimeout, log)
	gatewayHandler := gateway.NewHandler(gatewayService)

	// ── 8. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckCache: checkCache,
	}, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Catalog:   catalogHandler,
		Review:    reviewHandler,
		Gateway:   gatewayHandler,
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
