package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartinvoice/smartinvoice/internal/api"
	"github.com/smartinvoice/smartinvoice/internal/config"
	"github.com/smartinvoice/smartinvoice/internal/repository"
	"github.com/smartinvoice/smartinvoice/internal/service"
	"github.com/smartinvoice/smartinvoice/internal/totals"
	"github.com/smartinvoice/smartinvoice/pkg/logging"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	logging.Setup()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	ctx := context.Background()

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	services := api.NewServices(store, totals.New(cfg.VATRate), cfg.JWTSecret, cfg.TokenTTL)

	if cfg.RedisURL != "" {
		rateLimitService, err := service.NewRateLimitService(cfg.RedisURL, cfg.RateLimitDaily, cfg.RateLimitMonthly)
		if err != nil {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rateLimitService.Close()
		services.RateLimit = rateLimitService
	} else {
		slog.Warn("REDIS_URL not set, rate limiting disabled")
	}

	router := api.NewRouter(services, cfg.StaticDir)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server exited gracefully")
}
