package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faciam-dev/urlpreview/internal/server/middleware"
)

// setupMetrics registers metrics middleware and handlers.
func setupMetrics(api huma.API, r chi.Router) {
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	api.UseMiddleware(middleware.MetricsMW)
}
