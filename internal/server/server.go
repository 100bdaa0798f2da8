// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the prerequisite parser and the course store over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/pdiddy/prereqs/internal/prereq"
	"github.com/pdiddy/prereqs/internal/store"
	"github.com/pdiddy/prereqs/pkg/types"
)

// Courses is the part of the store the server reads.
type Courses interface {
	Get(ctx context.Context, code string) (types.Course, error)
	List(ctx context.Context, opts store.ListOptions) ([]types.Course, error)
}

// Server routes API requests.
type Server struct {
	router  chi.Router
	parser  *prereq.Parser
	courses Courses
	logger  *slog.Logger
}

// New returns a Server that parses with cfg and reads from courses. A nil
// logger uses slog.Default.
func New(cfg types.ParserConfig, courses Courses, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  chi.NewRouter(),
		parser:  prereq.New(cfg),
		courses: courses,
		logger:  logger,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/parse", s.handleParse)
	s.router.Get("/v1/courses", s.handleListCourses)
	s.router.Get("/v1/courses/{code}", s.handleGetCourse)
	s.router.Get("/v1/courses/{code}/prerequisites", s.handlePrerequisites)
	s.router.Post("/v1/courses/{code}/check", s.handleCheck)
}

// ListenAndServe serves s on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
		s.logger.Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
