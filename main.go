package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/davidleathers/muletrace-analytics/internal/api/rest"
	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/cache"
	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/config"
	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/telemetry"
	"github.com/davidleathers/muletrace-analytics/internal/metrics"
	"github.com/davidleathers/muletrace-analytics/internal/service/enrichment"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting muletrace analytics",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"port", cfg.Server.Port)

	provider, err := telemetry.Initialize(ctx, &telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer provider.Shutdown(context.Background())

	registry, err := metrics.NewRegistry("muletrace-analytics")
	if err != nil {
		return err
	}

	var resultCache cache.Cache
	if cfg.Redis.Enabled {
		zapLogger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer zapLogger.Sync()

		resultCache, err = cache.NewRedisCache(&cfg.Redis, zapLogger)
		if err != nil {
			// The cache is optional capacity, not a dependency.
			logger.Warn("result cache unavailable, running stateless", "error", err)
			resultCache = nil
		} else {
			defer resultCache.Close()
		}
	}

	enricher := enrichment.NewService(resultCache, logger,
		enrichment.WithMetrics(registry),
		enrichment.WithResultTTL(cfg.Analytics.ResultTTL),
	)

	handler := rest.NewHandler(enricher, resultCache, logger, registry, cfg.Version)
	server := rest.NewServer(cfg, handler, logger)

	if err := server.Start(ctx); err != nil {
		return err
	}

	logger.Info("shut down gracefully")
	return nil
}
