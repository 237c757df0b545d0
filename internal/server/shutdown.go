package server

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/insightboard/internal/analysis"
	"github.com/samber/do/v2"
)

// waitForShutdown returns a channel that fires on an interrupt or terminate signal.
func waitForShutdown() <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	return quit
}

// Shutdown stops the HTTP server and releases the bus and database connections.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server")
	var errs []error
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.Bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if loader, err := do.Invoke[analysis.ResponseLoader](s.Injector); err == nil {
		if client, ok := loader.(*analysis.Client); ok {
			errs = append(errs, client.Close(ctx))
		}
	}
	if err := s.DB.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
