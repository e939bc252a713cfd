// Package server implements the HTTP API for partition enumeration and
// recursion tree visualization.
//
// The API is stateless except for enumeration sessions: a client creates a
// session for a request, then steps it forward and backward one partition
// per call. Tree endpoints are pure functions of their query parameters and
// carry no session.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/config"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/pipeline"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/session"
)

// Server is the HTTP API server.
type Server struct {
	cfg    config.Config
	store  session.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server with the given configuration and session store.
// A nil logger uses the package default.
func New(cfg config.Config, store session.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		store:  store,
		runner: pipeline.NewRunner(logger),
		logger: logger,
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/count", s.handleCount)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/next", s.handleAdvance("next"))
				r.Post("/previous", s.handleAdvance("previous"))
				r.Get("/partition/render", s.handleRenderPartition)
			})
		})

		r.Route("/tree", func(r chi.Router) {
			r.Get("/", s.handleTree)
			r.Get("/trace", s.handleTrace)
			r.Get("/render", s.handleRenderTree)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully. It also sweeps expired sessions in the background for stores
// without native expiry.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.cleanupLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", s.cfg.Server.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
