package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pickage/platform/internal/app"
	"github.com/pickage/platform/internal/auth"
	"github.com/pickage/platform/internal/guard"
	"github.com/pickage/platform/internal/infra"
	"github.com/pickage/platform/internal/projection"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	// Connect to Postgres and apply migrations
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Snapshot projection store: Redis when configured, in-memory otherwise
	var snapshots projection.Store
	if cfg.RedisAddr != "" {
		redisClient, err := infra.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		snapshots = projection.NewRedisStore(redisClient)
		logger.Info("using redis snapshot store", "addr", cfg.RedisAddr)
	} else {
		snapshots = projection.NewInMemoryStore()
		logger.Info("using in-memory snapshot store")
	}

	// Parse JWT expiry durations
	playerExpiry, err := time.ParseDuration(cfg.JWTPlayerExpiry)
	if err != nil {
		return fmt.Errorf("parse player JWT expiry: %w", err)
	}
	opsExpiry, err := time.ParseDuration(cfg.JWTOpsExpiry)
	if err != nil {
		return fmt.Errorf("parse ops JWT expiry: %w", err)
	}
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, playerExpiry, opsExpiry)

	// Per-user rate limit on mutating wallet endpoints
	rateWindow, err := time.ParseDuration(cfg.WalletRateWindow)
	if err != nil {
		return fmt.Errorf("parse wallet rate window: %w", err)
	}
	limiter := guard.NewRateLimiter(cfg.WalletRateLimit, rateWindow)

	metrics := infra.NewMetrics()

	router := app.NewRouter(app.RouterDeps{
		Pool:      pool,
		JWTMgr:    jwtMgr,
		Logger:    logger,
		Metrics:   metrics,
		Snapshots: snapshots,
		Limiter:   limiter,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
