// Command catalog-import loads the CSV price lists into PostgreSQL,
// replacing whatever catalog the database held before.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/skifa/recipescaler/config"
	"github.com/skifa/recipescaler/internal/infrastructure/catalog"
	"github.com/skifa/recipescaler/internal/infrastructure/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	packagedPath := flag.String("packaged", cfg.Catalog.PackagedPath, "packaged goods CSV")
	freshPath := flag.String("fresh", cfg.Catalog.FreshPath, "fresh produce CSV")
	databaseURL := flag.String("database-url", cfg.Catalog.DatabaseURL, "PostgreSQL connection string")
	flag.Parse()

	logger, err := logging.New(cfg.Log.Level, cfg.Server.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *databaseURL == "" {
		logger.Fatal("database URL is required (set RECIPESCALER_CATALOG_DATABASE_URL or -database-url)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	source := catalog.NewCSVRepository(*packagedPath, *freshPath, logger)
	packaged, err := source.LoadPackaged(ctx)
	if err != nil {
		logger.Fatal("failed to read packaged goods", zap.String("file", *packagedPath), zap.Error(err))
	}
	fresh, err := source.LoadFresh(ctx)
	if err != nil {
		logger.Fatal("failed to read fresh produce", zap.String("file", *freshPath), zap.Error(err))
	}

	target, err := catalog.NewPostgresRepository(*databaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer target.Close()

	if err := target.Replace(ctx, packaged, fresh); err != nil {
		logger.Fatal("failed to import catalog", zap.Error(err))
	}

	logger.Info("catalog imported",
		zap.Int("packaged", len(packaged)),
		zap.Int("fresh", len(fresh)))
}
