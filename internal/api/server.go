// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/flute/internal/auth"
	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/core/image"
	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/platform/config"
	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth issues write-guard tokens. Nil when the guard is disabled.
	Auth *auth.Handler

	Language *language.Handler
	Book     *book.Handler
	Term     *term.Handler
	Image    *image.Handler
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and
registers all route groups under /api.

When verifier is nil every route is open. Otherwise mutating requests
need a bearer token.
*/
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	limiter := middleware.NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	go limiter.Cleanup(ctx)

	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))

	r.Route("/api", func(api chi.Router) {
		// # Infrastructure Endpoints
		api.Get("/health", h.Liveness)
		api.Get("/ready", h.Readiness)

		if h.Auth != nil {
			api.Route("/auth", h.Auth.RegisterRoutes)
		}

		// # Application API
		api.Group(func(app chi.Router) {
			if verifier != nil {
				app.Use(middleware.Authenticate(verifier))
				app.Use(middleware.RequireAuthForWrites)
			}
			app.Route("/languages", h.Language.RegisterRoutes)
			app.Route("/books", h.Book.RegisterRoutes)
			app.Route("/terms", h.Term.RegisterRoutes)
			app.Route("/images", h.Image.RegisterRoutes)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
