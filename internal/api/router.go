// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/flixflow/internal/config"
)

// NewRouter builds the full route tree with the global middleware stack.
func NewRouter(cfg *config.APIConfig, h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(cfg))
		r.Use(PrometheusMetrics)

		r.Get("/health", h.Health)

		r.Get("/recommendations/{userID}", h.GetRecommendations)

		r.Get("/movies/{movieID}", h.GetMovie)
		r.Get("/movies/{movieID}/similar", h.GetSimilar)
		r.Get("/trending", h.GetTrending)
		r.Get("/search", h.Search)

		r.Get("/users/{userID}", h.GetUser)
		r.Post("/rate", h.Rate)
		r.Post("/onboard", h.Onboard)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
