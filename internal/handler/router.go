package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/service"
)

// RouterConfig wires handlers into the API router. A nil Profiles handler
// leaves the profile routes unregistered.
type RouterConfig struct {
	Generator      *GeneratorHandler
	Profiles       *ProfileHandler
	Auth           *AuthHandler
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Post("/api/v1/generate", cfg.Generator.HandleGenerate)
		r.Post("/api/v1/auth/token", cfg.Auth.HandleToken)
	})

	if cfg.Profiles != nil {
		r.Get("/api/v1/profiles", cfg.Profiles.HandleList)
		r.Get("/api/v1/profiles/{name}", cfg.Profiles.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret, service.ScopeProfilesWrite))
			r.Put("/api/v1/profiles/{name}", cfg.Profiles.HandlePut)
			r.Delete("/api/v1/profiles/{name}", cfg.Profiles.HandleDelete)
		})
	}

	return r
}
