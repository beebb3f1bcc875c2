// Package server implements the HTTP server that fronts the review service:
// the GitHub webhook receiver, a health check, and the Prometheus /metrics
// endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sevigo/grepiku/internal/config"
	"github.com/sevigo/grepiku/internal/forge"
	"github.com/sevigo/grepiku/internal/scheduler"
)

// Server wraps an HTTP server with graceful shutdown capabilities.
type Server struct {
	ctx    context.Context
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server from env and a ready scheduler.
func NewServer(ctx context.Context, env *config.Env, clients *forge.Factory, sched *scheduler.Scheduler, logger *slog.Logger) *Server {
	router := NewRouter(env.GitHub.WebhookSecret, clients, sched, logger)

	return &Server{
		ctx: ctx,
		server: &http.Server{
			Addr:         ":" + env.Server.Port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until shutdown or error.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server with a 30-second timeout.
func (s *Server) Stop() error {
	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}
