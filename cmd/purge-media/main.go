package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/config"
	"github.com/yashpatel5000/auto-part/internal/storage"
)

// Deletes every object in the media bucket. Rehosted images only need to
// live until Shopify ingests them; anything still in the bucket was
// stranded by a crashed run.
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

	store, err := storage.NewObjectStore(ctx, cfg.AWS, logger)
	if err != nil {
		logger.Fatal("Failed to initialize object store", zap.Error(err))
	}

	if err := store.PurgeAll(ctx); err != nil {
		logger.Fatal("Media purge failed", zap.Error(err))
	}
	logger.Info("Media purge finished")
}
