// Package main is the entry point for the travel tracker server.
//
// Configuration comes from the environment (see internal/config). With no
// variables set the server listens on :3000 with a SQLite file at
// data/travel.db and signed-cookie sessions.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/travel-tracker/internal/config"
	"github.com/sakif/travel-tracker/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT or SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
