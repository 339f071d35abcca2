// Package web serves the cleaner over HTTP: list eras and clean an uploaded
// spreadsheet into CSV or JSON.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/evalnorm/internal/config"
	"github.com/JonMunkholm/evalnorm/internal/export"
	weblog "github.com/JonMunkholm/evalnorm/internal/web/middleware"
)

// Server is the HTTP server for the cleaner.
type Server struct {
	cfg    *config.Config
	sink   export.Sink
	slots  *limiter
	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server. sink, when non-nil, also receives every
// cleaned upload (SQLite or PostgreSQL).
func NewServer(cfg *config.Config, sink export.Sink) *Server {
	s := &Server{
		cfg:    cfg,
		sink:   sink,
		slots:  newLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/eras", s.handleListEras)
		r.Post("/clean/{era}", s.handleClean)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// WaitForCleans blocks until in-flight cleans finish or ctx ends.
func (s *Server) WaitForCleans(ctx context.Context) error {
	return s.slots.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// started is when the process came up; reported by the health check.
var started = time.Now()
