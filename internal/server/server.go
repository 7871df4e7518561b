package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/praetorlabs/praetor/internal/config"
	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
	"github.com/praetorlabs/praetor/internal/platform"
)

// Server is the HTTP surface over the integrity engine: scan, repair, and
// audit inspection per guild.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	scanner    *integrity.Scanner
	engine     *integrity.Engine
	audit      domain.AuditRepository
	checker    platform.ExistenceChecker // nil when no workspace token is configured
	cfg        *config.Config
}

// New creates a Server with all routes wired. checker may be nil; strict
// scans then degrade to lenient.
func New(cfg *config.Config, scanner *integrity.Scanner, engine *integrity.Engine, audit domain.AuditRepository, checker platform.ExistenceChecker) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router:  router,
		scanner: scanner,
		engine:  engine,
		audit:   audit,
		checker: checker,
		cfg:     cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	router.Route("/v1/guilds/{guildID}", func(r chi.Router) {
		r.Post("/integrity/scan", s.handleScan)
		r.Post("/integrity/repair", s.handleRepair)
		r.Get("/audit", s.handleAuditList)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
