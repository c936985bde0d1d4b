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

	"github.com/AdamBeresnev/pong-tracker/internal/config"
	"github.com/AdamBeresnev/pong-tracker/internal/db"
	"github.com/AdamBeresnev/pong-tracker/internal/logging"
	"github.com/AdamBeresnev/pong-tracker/internal/metrics"
)

func main() {
	startTime := time.Now()
	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stderr, cfg.Log))

	database, err := db.InitDB(cfg.DB)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		slog.Info("Closing database connection")
		database.Close()
	}()

	if err := db.RunMigrations(database.DB, cfg.MigrationsDir); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	metricsSvc := metrics.NewService()
	router := newRouter(routerConfig{
		DB:             database,
		Metrics:        metricsSvc,
		MetricsHandler: metrics.NewMetricsHandler(),
		JWTSecret:      cfg.JWTSecret,
		AutoRackStatus: cfg.Rounds.AutoRackStatus,
	})
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, write endpoints are open")
	}

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	slog.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", "http://localhost:"+cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		} else {
			slog.Info("Server gracefully stopped")
		}
	}
}
