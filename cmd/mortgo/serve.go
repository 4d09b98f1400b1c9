package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/mortgo/internal/cache"
	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/config"
	"github.com/rgehrsitz/mortgo/internal/logger"
	"github.com/rgehrsitz/mortgo/internal/server"
	"github.com/rgehrsitz/mortgo/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Configuration comes from the environment, or a .env file
in the working directory: PORT, LOG_LEVEL, LOG_FORMAT, ENVIRONMENT,
MAX_TERM_MONTHS, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, CACHE_TTL, CACHE_SIZE,
RATE_LIMIT_PER_MINUTE and REQUEST_TIMEOUT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := logger.InitLogger(logger.NewConfig(
				cfg.LogLevel, cfg.LogFormat, logger.DefaultServiceName, version, cfg.Environment, false))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, resultCache := buildServer(ctx, cfg, log)
			defer resultCache.Close()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}
}

// buildServer wires the engine, result cache and service behind the router.
// Redis is used when configured; an unreachable Redis is reported but kept so
// /readyz shows it.
func buildServer(ctx context.Context, cfg *config.Config, log *slog.Logger) (*server.Server, cache.Cache) {
	engine := calculation.NewEngineWithMaxTerm(cfg.MaxTermMonths)
	engine.SetLogger(logger.NewSlogAdapter(log, "engine"))

	var resultCache cache.Cache
	if cfg.RedisAddr != "" {
		resultCache = cache.NewRedisCache(cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := resultCache.Ping(pingCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("Redis unreachable, results will be computed uncached until it recovers",
				"addr", cfg.RedisAddr, "error", err)
		} else {
			log.Info("Using Redis result cache", "addr", cfg.RedisAddr)
		}
	} else {
		resultCache = cache.NewLRUCache(cfg.CacheSize, cfg.CacheTTL)
		log.Info("Using in-process result cache", "size", cfg.CacheSize)
	}

	srv := server.NewServer(service.New(engine, resultCache), server.Options{
		Port:               cfg.Port,
		Version:            version,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RequestTimeout:     cfg.RequestTimeout,
	})
	return srv, resultCache
}
