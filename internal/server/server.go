// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config and passes it here. New() then builds the chain:
//
//	sqlite.DB → TokenService / PasswordService
//	          → AuthService, MovieService
//	          → AuthHandler, MovieHandler
//	          → routes
//
// This is the "composition root" pattern — all dependencies are wired in
// one place rather than scattered across the codebase. Each layer only
// receives what it needs: the services get repository interfaces, the
// handlers get services, and nobody below this package touches HTTP routing.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nafis/movielog/internal/auth"
	"github.com/nafis/movielog/internal/config"
	"github.com/nafis/movielog/internal/handler"
	"github.com/nafis/movielog/internal/middleware"
	sqliteRepo "github.com/nafis/movielog/internal/repository/sqlite"
	"github.com/nafis/movielog/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down it
// must close the connection to flush pending writes and release the file
// lock; that happens in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with all routes wired.
//
// IMPORT ALIAS:
// repository/sqlite is imported as `sqliteRepo` to avoid confusion with the
// sqlite driver package. Import aliases are common in Go when package names
// would otherwise collide or be unclear.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // clean up the DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /auth/register      → create an account
//	POST   /auth/login         → issue token + cookie
//	POST   /auth/logout        → clear cookie
//	GET    /api/me             → current user           [auth required]
//	GET    /api/movies         → list movies            [auth optional]
//	GET    /api/movies/{id}    → single movie           [auth optional]
//	POST   /api/movies         → create movie           [auth required]
//	PUT    /api/movies/{id}    → update movie           [auth required + owner]
//	DELETE /api/movies/{id}    → delete movie           [auth required + owner]
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
//  1. RequestID — assigns a unique ID to each request (for tracing)
//  2. RealIP — extracts the real client IP from proxy headers, which the
//     rate limiter below keys on
//  3. Recoverer — catches panics and returns 500 instead of crashing
//  4. CORS — answers preflights before anything heavier runs
//  5. RateLimit — rejects over-limit clients early
//  6. Logger — logs each request with timing info
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	movieService := service.NewMovieService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.config.TokenTTL, s.logger)
	movieHandler := handler.NewMovieHandler(movieService, s.logger)

	// === Global middleware — runs on EVERY request, in order ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(s.config.CORSOrigins))
	s.router.Use(middleware.NewRateLimit(s.config.RateLimitRPM, s.config.AuthRateLimitRPM).Handler)
	s.router.Use(middleware.Logger(s.logger))

	// === Auth routes — no token needed to register or log in ===
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	// === API routes ===
	// chi.Router.Group creates a sub-router sharing the parent's middleware
	// but adding its own — here, the two auth modes. Reads work without a
	// token (OptionalAuth still resolves one if present, so the list can
	// mark the viewer's movies); writes demand one (RequireAuth).
	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/movies", movieHandler.HandleList)
			r.Get("/movies/{id}", movieHandler.HandleGetByID)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Post("/movies", movieHandler.HandleCreate)
			r.Put("/movies/{id}", movieHandler.HandleUpdate)
			r.Delete("/movies/{id}", movieHandler.HandleDelete)
		})
	})

	return nil
}

// Router exposes the configured router, mainly so tests can drive the full
// middleware + handler stack through httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
