package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/catalog"
	"github.com/yashpatel5000/auto-part/internal/config"
	"github.com/yashpatel5000/auto-part/internal/media"
	"github.com/yashpatel5000/auto-part/internal/repository/mongodb"
	"github.com/yashpatel5000/auto-part/internal/service"
	"github.com/yashpatel5000/auto-part/internal/shopify"
	"github.com/yashpatel5000/auto-part/internal/storage"
)

// Runs one full reconciliation pass and exits. Useful for backfills and for
// kicking a sync outside the cron schedule.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx := context.Background()

	client, err := mongodb.NewConnection(cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	repos := mongodb.NewRepositories(client.Database(cfg.Mongo.Database), logger)

	gateway := shopify.NewGateway(cfg.Shopify, logger)
	store, err := storage.NewObjectStore(ctx, cfg.AWS, logger)
	if err != nil {
		logger.Fatal("Failed to initialize object store", zap.Error(err))
	}
	mediaResolver := media.NewResolver(media.NewHTTPFetcher(), store, logger)
	partsClient := catalog.NewClient(cfg.PartsAPI, logger)
	enricher := catalog.NewEnricher(cfg.PartsAPI, logger)

	engine := service.NewSyncEngine(partsClient, enricher, mediaResolver, store, gateway, repos, cfg.PartsAPI.PageSize, logger)

	if err := engine.Run(ctx); err != nil {
		logger.Fatal("Sync run failed", zap.Error(err))
	}
	logger.Info("Sync run finished")
}
