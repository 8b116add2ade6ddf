package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/burrow/internal/config"
	"github.com/jwebster45206/burrow/internal/handlers"
	"github.com/jwebster45206/burrow/internal/logger"
	"github.com/jwebster45206/burrow/internal/middleware"
	"github.com/jwebster45206/burrow/internal/storage"
	"github.com/jwebster45206/burrow/pkg/randtext"
	"github.com/jwebster45206/burrow/pkg/textfilter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Burrow API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
		"content_rating", cfg.ContentRating)

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, storage.Options{
		SessionTTL:   cfg.SessionTTL,
		HistoryLimit: cfg.HistoryLimit,
	}, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to create storage")
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx, 10, 2*time.Second); err != nil {
		logger.WithError(log, err).Error("Failed to connect to storage")
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	var expOpts []randtext.ExpanderOption
	if cfg.RandomSeed != nil {
		expOpts = append(expOpts, randtext.WithSource(randtext.Locked(randtext.NewSeededSource(*cfg.RandomSeed))))
		log.Info("Using seeded expander", "seed", *cfg.RandomSeed)
	}
	expander := randtext.New(expOpts...)
	filter := textfilter.New()

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	templateHandler := handlers.NewTemplateHandler(expander, filter, log)
	mux.Handle("/v1/expand", templateHandler)
	mux.Handle("/v1/lint", templateHandler)

	levelHandler := handlers.NewLevelHandler(store, log)
	mux.Handle("/v1/levels", levelHandler)
	mux.Handle("/v1/levels/", levelHandler)

	sessionHandler := handlers.NewSessionHandler(store, expander, filter, cfg.ContentRating, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(log, err).Error("Server failed to start")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(log, err).Error("Server forced to shutdown")
	}

	if err := store.Close(); err != nil {
		logger.WithError(log, err).Error("Error closing storage connection")
	}

	log.Info("Server exited")
}
