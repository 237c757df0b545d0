package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Start connects to the database in the background, starts the auth watcher and
// serves HTTP until an interrupt or terminate signal arrives.
//
// Requests that arrive before the database is ready see the loading state.
func (s *Server) Start(addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.DB.ConnectAsync(ctx)
	if err := s.Watcher.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitForShutdown():
	}
	// Stops background reconnects before the connection is closed.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return s.Shutdown(shutdownCtx)
}
