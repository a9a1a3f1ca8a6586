// Package api provides the HTTP API for TripMapper.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripmapper/tripmapper/internal/api/handler"
	"github.com/tripmapper/tripmapper/internal/api/middleware"
	"github.com/tripmapper/tripmapper/internal/provider/resilience"
	"github.com/tripmapper/tripmapper/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Trips       *trip.Registry
	Providers   *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "tripmapper-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Providers, cfg.Trips)
	tripHandler := handler.NewTripHandler(cfg.Trips)

	// Create rate limit middleware for different endpoint categories
	planRateLimit := middleware.RateLimitByIP(middleware.PlanRateLimit)         // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 120 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Trip session endpoints
		r.Route("/trips", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Use(middleware.RequireJSON)

			r.Post("/", tripHandler.CreateTrip)

			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", tripHandler.GetTrip)
				r.Delete("/", tripHandler.DeleteTrip)

				r.Route("/spots", func(r chi.Router) {
					r.Post("/", tripHandler.AddSpot)
					r.Delete("/", tripHandler.ClearSpots)
					r.Delete("/{spotId}", tripHandler.RemoveSpot)
				})

				// Planning fans out to the external optimizer - strict rate limit
				r.With(planRateLimit).Post("/route:plan", tripHandler.PlanRoute)
				r.Delete("/route", tripHandler.ClearRoute)
			})
		})
	})

	return r
}
