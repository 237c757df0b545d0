package main

import (
	"log/slog"
	"os"

	"github.com/nfrund/insightboard/internal/config"
	"github.com/nfrund/insightboard/internal/logging"
	"github.com/nfrund/insightboard/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.New()

	s, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}
	if err := s.Start(cfg.GetServerAddr()); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
