// Package server implements the pomgrid HTTP API.
//
// The API serves the dependency matrix produced by analyze and, when a
// snapshot store is configured, the scan history. The matrix file is
// read per request, so re-running analyze refreshes the API without a
// restart.
//
// Routes:
//
//	GET /healthz                 liveness probe
//	GET /api/matrix              the full matrix document
//	GET /api/matrix/{group}      one group's artifacts
//	GET /api/snapshots           snapshot summaries, newest first
//	GET /api/snapshots/{id}      one full snapshot
//
// Every response carries an X-Request-Id header (honored from the
// request when present) and is logged with method, path, status, and
// duration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/pomgrid/pomgrid/pkg/store"
)

// Config holds the server's dependencies and settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// MatrixPath is the matrix JSON file served under /api/matrix.
	MatrixPath string

	// Store serves /api/snapshots when set; the endpoints answer 503
	// otherwise.
	Store store.Store

	// Logger receives request logs. nil falls back to log.Default().
	Logger *log.Logger
}

// Server is the pomgrid HTTP API server.
type Server struct {
	addr       string
	matrixPath string
	store      store.Store
	logger     *log.Logger
}

// New creates a server from the config.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:       cfg.Addr,
		matrixPath: cfg.MatrixPath,
		store:      cfg.Store,
		logger:     logger,
	}
}

// Router builds the chi route tree with the request-id and recovery
// middleware applied. Exposed separately from Start for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/matrix", s.handleMatrix)
		r.Get("/matrix/{group}", s.handleGroup)
		r.Get("/snapshots", s.handleSnapshots)
		r.Get("/snapshots/{id}", s.handleSnapshot)
	})

	return r
}

// Start runs the server until ctx is canceled, then shuts down
// gracefully. It returns the listen error, if any, once the server has
// stopped.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API listening", "addr", s.addr, "matrix", s.matrixPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
