// agentexec server: serves the read-only activity API and runs the
// retention loop. Task workers live in the applications that register
// tasks; this binary only observes and cleans up.
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

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/api"
	"github.com/agentexec/agentexec/pkg/cleanup"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/database"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	httpPort := getEnv("HTTP_PORT", "8080")

	cfg, err := config.LoadWithDotenv(getEnv("AGENTEXEC_ENV_FILE", ".env"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting agentexec server",
		"version", version.Full(),
		"http_port", httpPort,
		"state_backend", cfg.StateBackend)

	ctx := context.Background()

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to PostgreSQL database")

	store := activity.NewStore(dbClient, cfg)

	// Expired key-value rows only need reclaiming on the SQL backend.
	var kvPurger cleanup.KVPurger
	if cfg.StateBackend == config.BackendPostgres {
		backend := state.NewPostgres(dbClient)
		defer backend.Close()
		kvPurger = backend
	}
	cleanupService := cleanup.NewService(cfg, store, kvPurger)
	cleanupService.Start(ctx)
	defer cleanupService.Stop()

	server := api.NewServer(store, dbClient)
	httpServer := &http.Server{
		Addr:    ":" + httpPort,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	slog.Info("Shutdown complete")
}
