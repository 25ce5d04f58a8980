package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhijithns29/propchain/internal/adapter/httpapi"
	"github.com/abhijithns29/propchain/internal/adapter/maps"
	"github.com/abhijithns29/propchain/internal/artifact"
	"github.com/abhijithns29/propchain/internal/config"
	"github.com/abhijithns29/propchain/internal/domain"
	"github.com/abhijithns29/propchain/internal/market"
	"github.com/abhijithns29/propchain/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Distance resolution is feature-flagged; without a mapper the feature
	// engineer falls back to straight-line estimates.
	var mapper domain.Mapper
	if cfg.GoogleMapsEnabled {
		client := maps.NewClient(cfg.GoogleMapsAPIKey, cfg.GoogleMapsTimeout, metrics, logger)
		mapper = maps.NewCachedMapper(client, cfg.GoogleMapsCacheSize, metrics)
		metrics.MapsEnabled.Set(1)
		logger.Info("google maps distances enabled", "cache_size", cfg.GoogleMapsCacheSize, "timeout", cfg.GoogleMapsTimeout)
	} else {
		logger.Info("google maps distances disabled")
	}

	estimator := domain.NewEstimator(logger)
	snap, err := artifact.Load(cfg.ModelPath)
	if err != nil {
		logger.Error("failed to load model artifact", "path", cfg.ModelPath, "error", err)
		os.Exit(1)
	}
	if snap != nil {
		estimator.Swap(snap)
		metrics.ModelLoaded.Set(1)
		logger.Info("model loaded", "path", cfg.ModelPath, "trained_at", snap.TrainedAt)
	} else {
		logger.Warn("no model artifact found, serving heuristic estimates", "path", cfg.ModelPath)
	}

	store, err := market.OpenStore(cfg.MarketDBPath)
	if err != nil {
		logger.Error("failed to open market store", "path", cfg.MarketDBPath, "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(
		cfg.HTTPAddr,
		cfg.AllowedOrigins,
		domain.NewFeatureEngineer(mapper, logger),
		estimator,
		market.NewService(store, logger),
		market.NewScraper(store, logger),
		metrics,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("market store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
