// Copyright (c) 2026 QuickShift. All rights reserved.

// Command api is the entry point for the QuickShift HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
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
	"time"

	"github.com/quickshift/quickshift/internal/api"
	"github.com/quickshift/quickshift/internal/core/company"
	"github.com/quickshift/quickshift/internal/core/shift"
	"github.com/quickshift/quickshift/internal/core/skill"
	"github.com/quickshift/quickshift/internal/platform/config"
	"github.com/quickshift/quickshift/internal/platform/constants"
	"github.com/quickshift/quickshift/internal/platform/metrics"
	"github.com/quickshift/quickshift/internal/platform/middleware"
	"github.com/quickshift/quickshift/internal/platform/migration"
	pgstore "github.com/quickshift/quickshift/internal/platform/postgres"
	redisstore "github.com/quickshift/quickshift/internal/platform/redis"
	"github.com/quickshift/quickshift/internal/platform/sec"
	"github.com/quickshift/quickshift/internal/users/account"
	"github.com/quickshift/quickshift/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "quickshift"))
	slog.SetDefault(log)

	log.Info("[QuickShift] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "quickshift"))
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

	// ── 6. Token & Cookie Machinery ───────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.AccessTokenTTL)
	must(log, err, "initialize token service")

	cookiePolicy := middleware.CookiePolicy{
		Signer:     sec.NewCookieSigner(cfg.CookieSecret),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Secure:     cfg.IsProduction(),
	}

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(rdb)
	authService := auth.NewService(userRepository, sessionRepository, tokenService, cfg.RefreshTokenTTL)

	guard := middleware.NewGuard(authService)
	authHandler := auth.NewHandler(authService, cookiePolicy, guard)

	accountService := account.NewService(userRepository, sessionRepository, log)
	accountHandler := account.NewHandler(accountService, guard)

	companyRepository := company.NewPostgresRepository(pool)
	companyService := company.NewService(companyRepository, authService, log)
	companyHandler := company.NewHandler(companyService, guard)

	shiftRepository := shift.NewPostgresRepository(pool)
	shiftService := shift.NewService(shiftRepository, companyService, log)
	shiftHandler := shift.NewHandler(shiftService, guard)

	skillRepository := skill.NewPostgresRepository(pool)
	skillService := skill.NewService(skillRepository, log)
	skillHandler := skill.NewHandler(skillService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	collector := metrics.NewCollector("quickshift")

	authConfig := middleware.AuthConfig{
		Verifier:  tokenService,
		Refresher: authService,
		Cookies:   cookiePolicy,
	}

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Company:   companyHandler,
		Shift:     shiftHandler,
		Skill:     skillHandler,
	}

	// The server context outlives startup: it drives background middleware
	// janitors for the whole process lifetime.
	server := api.NewServer(context.Background(), cfg, log, authConfig, collector, handlers)

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
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
