// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

// Command api is the entry point for the Wayfare admin API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Initialize token service, metrics, and the audit recorder.
//  7. Wire HTTP handlers and request gates.
//  8. Start HTTP server with graceful shutdown.
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
	"time"

	"github.com/wayfare-app/wayfare/internal/admin"
	"github.com/wayfare-app/wayfare/internal/api"
	"github.com/wayfare-app/wayfare/internal/audit"
	"github.com/wayfare-app/wayfare/internal/platform/config"
	"github.com/wayfare-app/wayfare/internal/platform/constants"
	"github.com/wayfare-app/wayfare/internal/platform/metrics"
	"github.com/wayfare-app/wayfare/internal/platform/middleware"
	"github.com/wayfare-app/wayfare/internal/platform/migration"
	pgstore "github.com/wayfare-app/wayfare/internal/platform/postgres"
	redisstore "github.com/wayfare-app/wayfare/internal/platform/redis"
	"github.com/wayfare-app/wayfare/internal/platform/sec"
	"github.com/wayfare-app/wayfare/internal/rbac"
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

	log.Info("service_initializing")

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

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application context cancelled on shutdown; stops background workers.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service, Metrics, Audit Recorder ─────────────────────────
	tokenService, err := sec.NewTokenService(sec.TokenConfig{
		Secret:   cfg.JWTSecret,
		TTL:      cfg.JWTTTL,
		ShortTTL: cfg.JWTShortTTL,
		Issuer:   constants.AuthIssuer,
	})
	must(log, err, "initialize token service")

	metrics.Init()

	auditStore := audit.NewPostgresStore(pool)
	recorder := audit.NewRecorder(auditStore, log)
	defer func() {
		log.Info("draining audit recorder")
		recorder.Close()
	}()

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	rbacStore := rbac.NewPostgresStore(pool)
	resolver := rbac.NewResolver(rbacStore)

	adminRepository := admin.NewPostgresStore(pool)
	revocationStore := admin.NewRedisRevocationStore(rdb)
	adminService := admin.NewService(adminRepository, revocationStore, resolver, rbacStore, tokenService, log)

	adminHandler := admin.NewHandler(adminService, recorder)
	auditHandler := audit.NewHandler(auditStore)

	// Request gates: authentication (token + revocation) and authorization
	// (admin check + declared permission requirement).
	authenticator := middleware.NewAuthenticator(tokenService, revocationStore)
	authorizer := middleware.NewAuthorizer(tokenService, resolver)
	gates := middleware.Gates{
		Authenticate: authenticator.Gate(),
		Require:      authorizer.Require,
	}

	// ── 8. Health Handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckRevocationStore: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Admin:     adminHandler,
		Audit:     auditHandler,
	}

	server := api.NewServer(appCtx, cfg, log, gates, handlers)

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

	appCancel()

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
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
