package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"supply-route-service/internal/api/handlers"
	"supply-route-service/internal/metrics"
	"supply-route-service/internal/services"
)

type RouterConfig struct {
	// RateLimit is the sustained allocation requests per second; zero disables limiting.
	RateLimit float64
	RateBurst int
	// HealthChecks are optional dependency pings reported by /health.
	HealthChecks map[string]func(context.Context) error
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(runs *services.RunService, cfg RouterConfig) http.Handler {
	metrics.RegisterDefault()

	healthHandler := &handlers.HealthHandler{Checks: cfg.HealthChecks}
	allocHandler := &handlers.AllocationHandler{Runs: runs}
	networkHandler := &handlers.NetworkHandler{Runs: runs}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/network", networkHandler.Get)
	r.Get("/allocations/{period}", allocHandler.Latest)

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			burst := cfg.RateBurst
			if burst < 1 {
				burst = 1
			}
			r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)))
		}
		r.Post("/allocations", allocHandler.Create)
		r.Post("/allocations/stored", allocHandler.RunStored)
	})

	return r
}
