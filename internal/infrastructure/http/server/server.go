// Package server wires the chi router and manages the HTTP server
// lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/infrastructure/config"
	"github.com/mealdex/enrich/internal/infrastructure/http/handlers"
	"github.com/mealdex/enrich/internal/infrastructure/http/middleware"
)

// Server is the HTTP server for the enrichment API
type Server struct {
	httpServer *http.Server
	router     chi.Router
	logger     *zap.Logger
}

// New builds the router and server
func New(
	cfg *config.Config,
	enrichment *handlers.EnrichmentHandler,
	demo http.HandlerFunc,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Server {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.JSONOnly)

	r.Route("/enrichment", func(r chi.Router) {
		r.Get("/", enrichment.GetEnrichment)
		r.Post("/", enrichment.PostEnrichment)
		r.Get("/health", enrichment.Health)
		if demo != nil {
			r.Get("/demo", demo)
		}
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		router: r,
		logger: logger.Named("server"),
	}
}

// Router exposes the underlying router, mainly for tests
func (s *Server) Router() chi.Router {
	return s.router
}

// Start begins serving and blocks until the listener closes
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
