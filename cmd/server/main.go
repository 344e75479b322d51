package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/api"
	"github.com/yashpatel5000/auto-part/internal/catalog"
	"github.com/yashpatel5000/auto-part/internal/config"
	"github.com/yashpatel5000/auto-part/internal/media"
	"github.com/yashpatel5000/auto-part/internal/repository/mongodb"
	"github.com/yashpatel5000/auto-part/internal/scheduler"
	"github.com/yashpatel5000/auto-part/internal/service"
	"github.com/yashpatel5000/auto-part/internal/shopify"
	"github.com/yashpatel5000/auto-part/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting auto-part sync server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	client, err := mongodb.NewConnection(cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	repos := mongodb.NewRepositories(client.Database(cfg.Mongo.Database), logger)

	// External collaborators
	gateway := shopify.NewGateway(cfg.Shopify, logger)
	store, err := storage.NewObjectStore(context.Background(), cfg.AWS, logger)
	if err != nil {
		logger.Fatal("Failed to initialize object store", zap.Error(err))
	}
	mediaResolver := media.NewResolver(media.NewHTTPFetcher(), store, logger)
	partsClient := catalog.NewClient(cfg.PartsAPI, logger)
	enricher := catalog.NewEnricher(cfg.PartsAPI, logger)

	engine := service.NewSyncEngine(partsClient, enricher, mediaResolver, store, gateway, repos, cfg.PartsAPI.PageSize, logger)
	reactor := service.NewWebhookReactor(gateway, repos.SyncedPart, logger)

	// Initialize router
	router := api.NewRouter(cfg, repos, reactor, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Scheduled jobs: full reconciliation and media bucket purge
	sched := scheduler.New(logger)
	if cfg.Cron.Enabled {
		if err := sched.AddJob("sync", cfg.Cron.SyncExpression, engine.Run); err != nil {
			logger.Fatal("Failed to schedule sync job", zap.Error(err))
		}
		if err := sched.AddJob("media-purge", cfg.Cron.PurgeExpression, store.PurgeAll); err != nil {
			logger.Fatal("Failed to schedule media purge job", zap.Error(err))
		}
		sched.Start()
		logger.Info("Scheduled jobs started",
			zap.String("sync", cfg.Cron.SyncExpression),
			zap.String("media_purge", cfg.Cron.PurgeExpression),
		)
	} else {
		logger.Info("Scheduled jobs disabled")
	}

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if cfg.Cron.Enabled {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
