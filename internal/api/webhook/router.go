package webhook

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the webhook endpoint alongside health and metrics probes.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/alert", h.HandleAlerts)
	r.Get("/healthz", h.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
