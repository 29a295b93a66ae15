// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Flute HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when REDIS_URL is set.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/flute/internal/api"
	"github.com/taibuivan/flute/internal/auth"
	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/core/image"
	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/platform/config"
	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/internal/platform/middleware"
	"github.com/taibuivan/flute/internal/platform/migration"
	pgstore "github.com/taibuivan/flute/internal/platform/postgres"
	redisstore "github.com/taibuivan/flute/internal/platform/redis"
	"github.com/taibuivan/flute/internal/platform/sec"
	"github.com/taibuivan/flute/internal/text/parse"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("auth_enabled", cfg.AuthEnabled()),
		slog.Bool("redis_enabled", cfg.RedisURL != ""),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	var counts book.CountCache = book.NewMemoryCountCache()
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()
		counts = book.NewRedisCountCache(rdb)
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	deps := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		deps.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(deps, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	parsers := parse.NewRegistry(parse.WithMecabPath(cfg.MecabPath))
	log.Info("parsers_registered", slog.Any("supported", parsers.Supported()))

	txManager := pgstore.NewTxManager(pool)

	languageService := language.NewService(language.NewPostgresRepository(pool), parsers, log)
	termRepository := term.NewPostgresRepository(pool)
	termService := term.NewService(termRepository, languageService, txManager, log)
	bookService := book.NewService(book.NewPostgresRepository(pool), termRepository, languageService, txManager, counts, log)

	imageStore, err := image.NewDiskStore(cfg.ImageStoragePath)
	must(log, err, "open image storage")
	imageService := image.NewService(imageStore, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Language:  language.NewHandler(languageService),
		Book:      book.NewHandler(bookService),
		Term:      term.NewHandler(termService),
		Image:     image.NewHandler(imageService),
	}

	// ── 8. Write guard ────────────────────────────────────────────────────
	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled() {
		tokens, err := sec.NewTokenService(cfg.AuthSecret, constants.AuthIssuer)
		must(log, err, "initialize token service")
		verifier = tokens
		handlers.Auth = auth.NewHandler(auth.NewService(cfg.AuthPasswordHash, tokens, log))
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, handlers)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
