package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/openfairway/rangelog/internal/api/handler"
	"github.com/openfairway/rangelog/internal/auth"
	"github.com/openfairway/rangelog/internal/cache"
	"github.com/openfairway/rangelog/internal/config"
	"github.com/openfairway/rangelog/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(st *store.Store, authSvc *auth.Service, appCache *cache.Cache, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(st, appCache, cfg, logger)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth (public)
		r.Post("/auth/register", auth.RegisterHandler(authSvc, st, logger))
		r.Post("/auth/login", auth.LoginHandler(authSvc, st, logger))

		// Everything below is scoped to the authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(authSvc))

			// Clubs
			r.Route("/clubs", func(r chi.Router) {
				r.Get("/", h.ListClubs)
				r.Post("/", h.CreateClub)
				r.Get("/{clubID}", h.GetClub)
				r.Put("/{clubID}", h.UpdateClub)
				r.Delete("/{clubID}", h.DeleteClub)
			})

			// Shots
			r.Route("/shots", func(r chi.Router) {
				r.Get("/", h.ListShots)
				r.Post("/", h.CreateShot)
				r.Delete("/{shotID}", h.DeleteShot)
			})

			// Stats
			r.Get("/stats/clubs", h.ClubStats)
			r.Get("/stats/dispersion", h.DispersionChart)
		})
	})

	return r
}
