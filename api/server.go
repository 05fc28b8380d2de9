/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the upload frontend
  5. RateLimit:  Per-IP limit on report uploads only

ROUTE GROUPS:
  /api/reports/*        Report generation (multipart upload)
  /api/profiles/*       Report profile management
  /api/overrides/*      Shift cutoff overrides
  /api/samples/*        Sample exports
  /api/health           Liveness

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - ratelimit.go: Upload rate limiting
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures the router.
type Options struct {
	// AllowedOrigins for CORS. Empty means the local dev frontends.
	AllowedOrigins []string
	// ReportRatePerMinute limits report uploads per client IP; 0 disables.
	ReportRatePerMinute int
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Report routes
		r.Route("/reports/{variant}", func(r chi.Router) {
			r.Use(RateLimit(opts.ReportRatePerMinute))
			r.Post("/json", h.GenerateReportJSON)
			r.Post("/excel", h.GenerateReportExcel)
		})

		// Profile routes
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.ListProfiles)
			r.Get("/{variant}", h.GetProfile)
			r.Put("/{variant}", h.UpdateProfile)
		})

		// Override routes
		r.Route("/overrides", func(r chi.Router) {
			r.Get("/", h.ListOverrides)
			r.Post("/", h.CreateOverride)
			r.Delete("/{id}", h.DeleteOverride)
		})

		// Sample routes
		r.Route("/samples", func(r chi.Router) {
			r.Get("/", h.ListSamples)
			r.Get("/{id}", h.DownloadSample)
		})
	})

	return r
}
