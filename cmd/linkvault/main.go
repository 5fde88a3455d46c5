package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"

	fiberadapter "github.com/linkvault-app/linkvault/adapters/fiber"
	pgxadapter "github.com/linkvault-app/linkvault/adapters/pgx"
	redisadapter "github.com/linkvault-app/linkvault/adapters/redis"
	"github.com/linkvault-app/linkvault/core"
	"github.com/linkvault-app/linkvault/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "linkvault: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pgxadapter.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	storage := pgxadapter.New(pool)

	var cache core.Cache
	if cfg.RedisURL != "" {
		redisCache, err := redisadapter.NewFromURL(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisCache.Close()
		cache = redisCache
		log.Info("session cache backed by redis")
	} else {
		cache = core.NewInMemoryCache(core.CacheConfig{TTL: cfg.CacheTTL})
		log.Info("session cache is in-process; set LINKVAULT_REDIS_URL to share across replicas")
	}

	sessions := core.NewSessionManager(core.SessionConfig{MaxAge: cfg.SessionTTL}, storage, cache)
	auth := core.NewAuth(storage, sessions, nil, log)
	profiles := core.NewProfiles(storage)

	app := fiber.New(fiber.Config{
		AppName: "linkvault",
	})
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	api := fiberadapter.New(app, fiberadapter.Config{
		Auth:         auth,
		Profiles:     profiles,
		Logger:       log,
		CookieMaxAge: cfg.SessionTTL,
	})
	api.RegisterRoutes()

	if cfg.PurgeInterval > 0 {
		go purgeLoop(ctx, sessions, cfg.PurgeInterval, log)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("app.Listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// purgeLoop periodically sweeps expired sessions out of storage so the
// sessions table does not grow without bound.
func purgeLoop(ctx context.Context, sessions *core.SessionManager, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := sessions.PurgeExpired(ctx)
			if err != nil {
				log.Error("purge expired sessions", "error", err)
				continue
			}
			if purged > 0 {
				log.Info("purged expired sessions", "count", purged)
			}
		}
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
