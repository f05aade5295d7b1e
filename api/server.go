/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns (also used as metric labels)

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind a proxy
  3. Logger:     zerolog request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Metrics:    Prometheus counters by route pattern
  6. CORS:       Cross-origin requests for a frontend

ROUTE GROUPS:
  /healthz                  Liveness and database check
  /metrics                  Prometheus scrape endpoint
  /api/properties/*         Properties, registers, projections
  /api/projections          Stateless projection
  /api/financial-years/*    Calendar helpers
  /api/scenarios/*          Demo properties

SECURITY NOTE:
  No authentication middleware. All endpoints are public; run it behind
  something that isn't.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Logging and metrics middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds router options that come from configuration.
type RouterConfig struct {
	AllowedOrigins []string

	// Gatherer backs /metrics. Nil means the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	if h.Metrics != nil {
		r.Use(Instrument(h.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Property routes
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.ListProperties)
			r.Post("/", h.CreateProperty)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetProperty)
				r.Delete("/", h.DeleteProperty)

				r.Get("/assets", h.ListAssets)
				r.Post("/assets", h.CreateAsset)
				r.Delete("/assets/{assetID}", h.DeleteAsset)
				r.Get("/assets/{assetID}/schedule", h.GetAssetSchedule)

				r.Get("/capital-works", h.ListCapitalWorks)
				r.Post("/capital-works", h.CreateCapitalWork)
				r.Delete("/capital-works/{workID}", h.DeleteCapitalWork)

				r.Get("/projection", h.GetProjection)
				r.Get("/projection/snapshot", h.GetLatestSnapshot)
				r.Post("/projection/snapshot", h.CreateSnapshot)
			})
		})

		// Stateless projection
		r.Post("/projections", h.ProjectRegister)

		// Calendar routes
		r.Get("/financial-years/current", h.CurrentFinancialYear)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", nil)
	})

	return r
}
