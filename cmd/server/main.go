package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/openpos/tillpoint/internal/config"
	"github.com/openpos/tillpoint/internal/server"
	"github.com/openpos/tillpoint/internal/service"
	"github.com/openpos/tillpoint/internal/storage/sqlite"
	"github.com/openpos/tillpoint/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	store, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Storage.DBPath)

	pos, err := service.New(context.Background(), store, cfg.License.Secret,
		service.WithPrinter(service.LogPrinter{}))
	if err != nil {
		slog.Error("Failed to initialize POS", "error", err)
		os.Exit(1)
	}

	staticDir := cfg.Server.StaticDir
	if staticDir != "" {
		if staticDir, err = filepath.Abs(staticDir); err != nil {
			slog.Error("Failed to resolve static path", "error", err)
			os.Exit(1)
		}
		slog.Info("Serving static files", "path", staticDir)
	}

	addr := cfg.Server.Addr()
	slog.Info("POS server starting", "address", addr, "url", "http://localhost"+addr)
	if err := http.ListenAndServe(addr, server.New(pos).Handler(staticDir)); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
