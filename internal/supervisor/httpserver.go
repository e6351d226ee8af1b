// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// shutdownGrace bounds graceful HTTP shutdown once the context is canceled.
const shutdownGrace = 10 * time.Second

// HTTPServerService adapts an http.Server to suture.Service. Serve returns
// nil on context cancellation so suture treats shutdown as normal
// termination, and returns the listen error otherwise so suture restarts the
// server.
type HTTPServerService struct {
	server *http.Server
	logger zerolog.Logger
}

// NewHTTPServerService wraps a configured server.
func NewHTTPServerService(server *http.Server, logger zerolog.Logger) *HTTPServerService {
	return &HTTPServerService{
		server: server,
		logger: logger.With().Str("service", "http_server").Logger(),
	}
}

// Serve implements suture.Service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("http server shutdown failed")
			return fmt.Errorf("http server shutdown: %w", err)
		}
		s.logger.Info().Msg("http server stopped")
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}

// String names the service in supervision events.
func (s *HTTPServerService) String() string {
	return "http-server"
}
