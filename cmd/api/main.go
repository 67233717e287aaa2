// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the invitation page settings API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Pick the settings cache: Redis, in-process for a single instance, or none.
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

	"github.com/taibuivan/invitation/internal/api"
	"github.com/taibuivan/invitation/internal/pages/settings"
	"github.com/taibuivan/invitation/internal/platform/cache"
	"github.com/taibuivan/invitation/internal/platform/config"
	"github.com/taibuivan/invitation/internal/platform/constants"
	"github.com/taibuivan/invitation/internal/platform/migration"
	pgstore "github.com/taibuivan/invitation/internal/platform/postgres"
	redisstore "github.com/taibuivan/invitation/internal/platform/redis"
	"github.com/taibuivan/invitation/internal/platform/sec"
	"github.com/taibuivan/invitation/internal/users/account"
)

// cacheSweepInterval is how often the in-process cache drops expired entries.
const cacheSweepInterval = time.Minute

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
		slog.String("settings_cache", string(cfg.CacheMode())),
	)

	// Root context for background workers, cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Settings Cache ─────────────────────────────────────────────────
	var (
		settingsCache cache.Cache
		checkCache    func(ctx context.Context) error
	)

	switch cfg.CacheMode() {
	case config.CacheRedis:
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		settingsCache = cache.NewRedis(rdb)
		checkCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	case config.CacheInProcess:
		memory := cache.NewMemory(time.Now)
		go sweep(rootCtx, memory, log)
		settingsCache = memory
	default:
		// Per-process caches would diverge across instances; read through to the store.
		log.Info("settings_cache_disabled")
	}

	// ── 6. Identity ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	accountRepository := account.NewPostgresRepository(pool)
	resolver := account.NewResolver(accountRepository)

	settingsService := settings.NewService(
		settings.NewPostgresRepository(pool),
		settings.NewPostgresListRepository(pool),
		resolver,
		settingsCache,
		settings.Options{
			PublicStorageURL: cfg.PublicStorageURL,
			CacheTTL:         cfg.SettingsCacheTTL,
		},
	)
	accountService := account.NewService(accountRepository, settingsService, nil)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    checkCache,
	}, log)

	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		PageSettings: settings.NewHandler(settingsService, resolver),
		Account:      account.NewHandler(accountService, resolver),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, tokens, handlers)

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

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

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

// sweep periodically drops expired entries from the in-process cache.
func sweep(ctx context.Context, memory *cache.Memory, log *slog.Logger) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if dropped := memory.Sweep(); dropped > 0 {
				log.Debug("settings_cache_swept", slog.Int("dropped", dropped))
			}
		case <-ctx.Done():
			return
		}
	}
}

func closeRedis(log *slog.Logger, client *goredis.Client) {
	log.Info("closing_redis_client")
	if err := client.Close(); err != nil {
		log.Error("redis_close_error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
