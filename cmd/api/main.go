// Command api is the Rangelog API server.
//
// Usage:
//
//	rangelog-api
//	API_PORT=8080 rangelog-api

// @title Rangelog API
// @version 1.0.0
// @description Golf practice tracking API: clubs, shots, per-club stats, and dispersion charts.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/openfairway/rangelog/internal/api"
	"github.com/openfairway/rangelog/internal/auth"
	"github.com/openfairway/rangelog/internal/cache"
	"github.com/openfairway/rangelog/internal/config"
	"github.com/openfairway/rangelog/internal/db"
	"github.com/openfairway/rangelog/internal/maintenance"
	"github.com/openfairway/rangelog/internal/store"

	_ "github.com/openfairway/rangelog/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Open database (creates schema on first run)
	logger.Info("Opening database...", "driver", cfg.DBDriver)
	sqldb, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer sqldb.Close()
	logger.Info("Database ready")

	st := store.New(sqldb)
	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Start maintenance tickers (orphan sweep, ANALYZE)
	go maintenance.Start(ctx, sqldb, maintenance.DefaultConfig(), logger)

	// Create router
	router := api.NewRouter(st, authSvc, appCache, cfg, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Rangelog API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
