package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/skifa/recipescaler/config"
	httpDelivery "github.com/skifa/recipescaler/internal/delivery/http"
	"github.com/skifa/recipescaler/internal/domain"
	"github.com/skifa/recipescaler/internal/infrastructure/cache"
	"github.com/skifa/recipescaler/internal/infrastructure/catalog"
	"github.com/skifa/recipescaler/internal/infrastructure/logging"
	"github.com/skifa/recipescaler/internal/infrastructure/pricefeed"
	"github.com/skifa/recipescaler/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Server.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting recipescaler",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	ctx := context.Background()

	snapshotCache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	repository, closeRepository, err := newCatalogRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepository()

	catalogService := usecase.NewCatalogService(snapshotCache, repository, logger, usecase.CatalogServiceConfig{
		CacheTTL:    cfg.Cache.TTL,
		FreshMarker: cfg.Catalog.FreshMarker,
	})
	costingService := usecase.NewCostingService(catalogService, logger, usecase.CostingServiceConfig{
		MaxMultiple:     cfg.Pricing.MaxMultiple,
		UnitConversions: cfg.Pricing.Units,
		Verbose:         cfg.Pricing.Verbose,
	})

	logger.Info("pricing configured",
		zap.Int("max_multiple", cfg.Pricing.MaxMultiple),
		zap.Int("custom_units", len(cfg.Pricing.Units)),
		zap.Bool("verbose", cfg.Pricing.Verbose))

	handler := httpDelivery.NewHandler(costingService, catalogService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server exited")
	return nil
}

func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache(cfg.Cache.TTL)
	return memoryCache, func() { _ = memoryCache.Close() }, nil
}

func newCatalogRepository(cfg *config.Config, logger *zap.Logger) (domain.CatalogRepository, func(), error) {
	switch cfg.Catalog.Source {
	case "postgres":
		repo, err := catalog.NewPostgresRepository(cfg.Catalog.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case "http":
		client := pricefeed.NewClient(cfg.Catalog.FeedAPIKey, cfg.Catalog.FeedURL, cfg.RateLimit.Feed, logger)
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		return client, func() {}, nil
	default:
		return catalog.NewCSVRepository(cfg.Catalog.PackagedPath, cfg.Catalog.FreshPath, logger), func() {}, nil
	}
}
