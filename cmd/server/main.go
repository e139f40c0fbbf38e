package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/document-summary-assistant/internal/config"
	"github.com/BerylCAtieno/document-summary-assistant/internal/db"
	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/repository"
	"github.com/BerylCAtieno/document-summary-assistant/internal/router"
	"github.com/BerylCAtieno/document-summary-assistant/internal/services"
	"github.com/BerylCAtieno/document-summary-assistant/internal/storage"
	"github.com/BerylCAtieno/document-summary-assistant/internal/summarizer"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Run migrations
	if err := db.RunMigrations(cfg.DatabasePath); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional document archive
	var store storage.Storage
	if cfg.ArchiveEnabled() {
		store, err = storage.NewS3Storage(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to initialize storage", "error", err)
		}
		logger.Info("Document archive enabled", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3BucketName)
	}

	// Summary client
	generator, err := summarizer.NewGenerator(cfg.Provider, cfg.BaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize summary backend", "error", err)
	}
	client := summarizer.NewClient(generator, summarizer.DefaultCredentials(), cfg.Model, logger)
	if _, ok := summarizer.DefaultCredentials().APIKey(); !ok {
		logger.Warn("No API key in environment; summary requests will fail until one is set")
	}

	// Initialize summary service
	repo := repository.NewRepository(database)
	summaryService := services.NewService(repo, client, store, models.NewTypePolicy(cfg.AllowedTypes), logger)

	// Setup HTTP router
	handler := router.NewRouter(summaryService, logger, cfg.MaxFileSize)

	// Generation blocks for the whole model call, hence the long write timeout
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "provider", cfg.Provider, "model", client.Model())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		database.Close()
		os.Exit(1)
	}

	logger.Info("Server exited")
}
