package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/faciam-dev/urlpreview/internal/api/handler"
	"github.com/faciam-dev/urlpreview/internal/config"
	"github.com/faciam-dev/urlpreview/internal/framepolicy"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
)

// New builds the interface API on top of reg. policy may be nil, in which
// case evaluate responses carry no frame check.
func New(reg interfaces.Registry, policy *framepolicy.Policy, cfg config.Config) huma.API {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "If-None-Match", "If-Modified-Since"},
		ExposedHeaders:   []string{"ETag", "Last-Modified"},
		AllowCredentials: true,
	}))

	api := humachi.New(r, huma.DefaultConfig("Interface API", "1.0.0"))
	setupMetrics(api, r)

	h := &handler.InterfaceHandler{Reg: reg, Policy: policy}
	handler.RegisterInterfaces(api, h)
	r.Get("/v1/interfaces/stream", h.Stream)

	return api
}
