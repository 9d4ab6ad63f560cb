// Copyright (c) 2026 Memry. All rights reserved.
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

	"github.com/memry/photobook/internal/admin"
	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/demo"
	"github.com/memry/photobook/internal/editor"
	"github.com/memry/photobook/internal/photo"
	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/config"
	"github.com/memry/photobook/internal/platform/constants"
	"github.com/memry/photobook/internal/platform/middleware"
	"github.com/memry/photobook/internal/viewer"
	"github.com/memry/photobook/internal/wizard"
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
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Catalog   *catalog.Handler
	Photobook *photobook.Handler
	Photo     *photo.Handler
	Wizard    *wizard.Handler
	Editor    *editor.Handler
	Viewer    *viewer.Handler
	Admin     *admin.Handler
	Demo      *demo.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Customer routes are anonymous. Everything under /admin except setup and
// login requires a token bound to a live console session.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, sessions middleware.SessionChecker, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health checks for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {

		// Customer flow
		api.Mount("/catalog", h.Catalog.Routes())
		api.Route("/photobooks", func(books chi.Router) {
			books.Mount("/{id}/photos", h.Photo.BookRoutes())
			books.Mount("/", h.Photobook.Routes())
		})
		api.Mount("/uploads", h.Photo.UploadRoutes())
		api.Mount("/photos", h.Photo.Routes())
		api.Mount("/wizard", h.Wizard.Routes())
		api.Mount("/editor", h.Editor.Routes())
		api.Mount("/view", h.Viewer.Routes())

		// Admin console
		api.Route("/admin", func(console chi.Router) {
			console.Group(func(guarded chi.Router) {
				guarded.Use(middleware.RequireAdmin(sessions))
				guarded.Mount("/catalog", h.Catalog.AdminRoutes())
				guarded.Mount("/photobooks", h.Photobook.AdminRoutes())
				guarded.Mount("/demo", h.Demo.Routes())
			})
			console.Mount("/", h.Admin.Routes())
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

// Handler exposes the router, for tests.
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
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
