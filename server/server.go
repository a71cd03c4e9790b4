// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/stemdex/core"
)

const (
	defaultAddr           = ":8080"
	defaultMaxRequestSize = 10 * 1024 * 1024 // 10MB
	shutdownTimeout       = 30 * time.Second
)

// Index is the document index served over HTTP.
type Index interface {
	Ingest(ctx context.Context, contents []string) ([]*core.Document, error)
	Search(ctx context.Context, query string, limit int) ([]*core.SearchResult, error)
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)
}

// Server is the HTTP front end of an Index.
type Server struct {
	index          Index
	router         *chi.Mux
	httpSrv        *http.Server
	addr           string
	maxRequestSize int64
	startTime      time.Time
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Default is ":8080".
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithMaxRequestSize limits request bodies to n bytes. Default is 10MB.
func WithMaxRequestSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxRequestSize = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// New creates a server for index.
func New(index Index, opts ...Option) (*Server, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	s := &Server{
		index:          index,
		router:         chi.NewRouter(),
		addr:           defaultAddr,
		maxRequestSize: defaultMaxRequestSize,
		startTime:      time.Now(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpSrv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures HTTP middleware stack
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
	s.router.Use(s.requestSizeLimitMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures HTTP routes
func (s *Server) setupRoutes() {
	s.router.Get("/_health", s.handleHealth)

	s.router.Get("/stem/{word}", s.handleStem)

	s.router.Route("/documents", func(r chi.Router) {
		r.Post("/", s.handleIngest)
		r.Get("/{id}", s.handleGetDocument)
	})

	s.router.Get("/search", s.handleSearch)
}

// Handler returns the router, for embedding or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown error", "err", err)
		return err
	}
	return nil
}

// requestLogger logs each request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()))
	})
}

// requestSizeLimitMiddleware limits request body size
func (s *Server) requestSizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestSize)
		next.ServeHTTP(w, r)
	})
}
