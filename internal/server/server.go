// Package server exposes the tutor over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/skanderbz/tutord/internal/config"
	"github.com/skanderbz/tutord/internal/logging"
	"github.com/skanderbz/tutord/internal/orchestrator"
)

// Server is the tutor HTTP API server.
type Server struct {
	cfg  config.ServerConfig
	orch *orchestrator.Orchestrator
	log  *logging.Logger

	httpServer *http.Server
}

// New builds a server around an orchestrator.
func New(cfg config.ServerConfig, orch *orchestrator.Orchestrator, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	s := &Server{cfg: cfg, orch: orch, log: log.Component("server")}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           withMiddleware(s.routes(), s.log, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		// Provider timeouts bound the slow path; this is the hard stop.
		WriteTimeout: 2 * time.Minute,
	}
	return s
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("DELETE /chat/{session_id}", s.handleClearSession)
	mux.HandleFunc("GET /sessions", s.handleSessions)
	mux.HandleFunc("GET /stats", s.handleStats)
	return mux
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.log.Info().Msg("http server stopped")
	return nil
}
