// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/tomtom215/flixflow/internal/logging"
	"github.com/tomtom215/flixflow/internal/models"
	"github.com/tomtom215/flixflow/internal/recommend"
	"github.com/tomtom215/flixflow/internal/sources"
	"github.com/tomtom215/flixflow/internal/store"
	"github.com/tomtom215/flixflow/internal/validation"
)

// requestTimeout bounds every handler's downstream work.
const requestTimeout = 10 * time.Second

// Recommender is the engine slice the handlers need.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// Catalog is the store slice the handlers need.
type Catalog interface {
	GetMovie(ctx context.Context, movieID int) (*models.Movie, error)
	SimilarByGenres(ctx context.Context, movieID, limit int) ([]models.Movie, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]models.Movie, error)
	GetUser(ctx context.Context, userID int) (*models.User, error)
	UpsertRating(ctx context.Context, userID, movieID int, rating float64) error
	OnboardUser(ctx context.Context, userID int, seeds []models.SeedRating) error
	Ping(ctx context.Context) error
}

// SimilarityService is the content model service slice the handlers need.
// When the service is unavailable the handlers fall back to genre-overlap
// queries against the local catalog.
type SimilarityService interface {
	SimilarMovies(ctx context.Context, movieID, topN int) ([]recommend.ScoredCandidate, error)
	Search(ctx context.Context, query string, topN int) ([]recommend.ScoredCandidate, error)
}

// Trending is the statistical source slice the handlers need.
type Trending interface {
	TrendingByGenre(ctx context.Context, genre string, topN int) ([]recommend.ScoredCandidate, error)
}

// Invalidator drops cached rating aggregates after a write.
type Invalidator interface {
	Invalidate()
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	engine     Recommender
	catalog    Catalog
	similarity SimilarityService
	trending   Trending
	meanCache  Invalidator

	defaultPageSize int
	maxPageSize     int
}

// NewHandler wires the handler set.
func NewHandler(engine Recommender, catalog Catalog, similarity SimilarityService, trending Trending, meanCache Invalidator, defaultPageSize, maxPageSize int) *Handler {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &Handler{
		engine:          engine,
		catalog:         catalog,
		similarity:      similarity,
		trending:        trending,
		meanCache:       meanCache,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// GetRecommendations handles GET /api/v1/recommendations/{userID}.
//
// Query parameters: strategy (hybrid, collaborative, content, statistical)
// and top_n. Unknown strategies fold into hybrid; new users are routed to
// cold start regardless of the requested strategy.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID <= 0 {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user ID", err)
		return
	}

	topN := 0
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			topN = parsed
		}
	}

	req := recommend.Request{
		UserID:    userID,
		Strategy:  r.URL.Query().Get("strategy"),
		TopN:      topN,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.engine.Recommend(ctx, req)
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", err)
		return
	case errors.Is(err, recommend.ErrAllSourcesFailed):
		respondError(w, r, http.StatusServiceUnavailable, "SOURCES_UNAVAILABLE",
			"All recommendation sources are unavailable", err)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, "RECOMMENDATION_ERROR",
			"Failed to generate recommendations", err)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			QueryTimeMS: result.Meta.LatencyMS,
		},
	})
}

// GetMovie handles GET /api/v1/movies/{movieID}.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID <= 0 {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid movie ID", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	movie, err := h.catalog.GetMovie(ctx, movieID)
	if errors.Is(err, store.ErrMovieNotFound) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Movie not found", err)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load movie", err)
		return
	}

	respondData(w, r, http.StatusOK, movie)
}

// GetSimilar handles GET /api/v1/movies/{movieID}/similar.
//
// The content model service provides vector similarity; when it is disabled
// or failing, the local genre-overlap ranking answers instead.
func (h *Handler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID <= 0 {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid movie ID", err)
		return
	}
	limit := h.limitParam(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := h.catalog.GetMovie(ctx, movieID); err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Movie not found", err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load movie", err)
		return
	}

	similar, err := h.similarity.SimilarMovies(ctx, movieID, limit)
	if err != nil {
		if !errors.Is(err, sources.ErrSourceDisabled) {
			logging.Ctx(r.Context()).Warn().Err(err).
				Int("movie_id", movieID).
				Msg("similarity service failed, falling back to genre overlap")
		}
		movies, err := h.catalog.SimilarByGenres(ctx, movieID, limit)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to find similar movies", err)
			return
		}
		respondData(w, r, http.StatusOK, map[string]interface{}{
			"movie_id": movieID,
			"source":   "genre_overlap",
			"results":  movies,
		})
		return
	}

	respondData(w, r, http.StatusOK, map[string]interface{}{
		"movie_id": movieID,
		"source":   "content_similarity",
		"results":  similar,
	})
}

// GetTrending handles GET /api/v1/trending.
//
// Query parameters: genre (optional) and limit. The ranking is the Bayesian
// weighted rating over the local catalog, so it works with no model services.
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	genre := r.URL.Query().Get("genre")
	limit := h.limitParam(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ranked, err := h.trending.TrendingByGenre(ctx, genre, limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to rank trending movies", err)
		return
	}

	respondData(w, r, http.StatusOK, map[string]interface{}{
		"genre":   genre,
		"count":   len(ranked),
		"results": ranked,
	})
}

// Search handles GET /api/v1/search.
//
// The content service's semantic search answers when available; otherwise a
// title substring match against the catalog.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter q is required", nil)
		return
	}
	limit := h.limitParam(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	results, err := h.similarity.Search(ctx, query, limit)
	if err != nil {
		if !errors.Is(err, sources.ErrSourceDisabled) {
			logging.Ctx(r.Context()).Warn().Err(err).
				Str("query", query).
				Msg("search service failed, falling back to title match")
		}
		movies, err := h.catalog.SearchMovies(ctx, query, limit)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Search failed", err)
			return
		}
		respondData(w, r, http.StatusOK, map[string]interface{}{
			"query":   query,
			"source":  "title_match",
			"count":   len(movies),
			"results": movies,
		})
		return
	}

	respondData(w, r, http.StatusOK, map[string]interface{}{
		"query":   query,
		"source":  "semantic",
		"count":   len(results),
		"results": results,
	})
}

// GetUser handles GET /api/v1/users/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID <= 0 {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user ID", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.catalog.GetUser(ctx, userID)
	if errors.Is(err, recommend.ErrUserNotFound) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", err)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load user", err)
		return
	}

	respondData(w, r, http.StatusOK, user)
}

// Rate handles POST /api/v1/rate. A successful write invalidates the cached
// global mean so the statistical ranking sees the new rating.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	var req models.RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
			Status: "error",
			Error: &models.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := h.catalog.UpsertRating(ctx, req.UserID, req.MovieID, req.Rating)
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", err)
		return
	case errors.Is(err, store.ErrMovieNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Movie not found", err)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save rating", err)
		return
	}

	h.meanCache.Invalidate()

	respondData(w, r, http.StatusOK, map[string]interface{}{
		"user_id":  req.UserID,
		"movie_id": req.MovieID,
		"rating":   req.Rating,
	})
}

// Onboard handles POST /api/v1/onboard: register a user with initial seed
// ratings in one transaction.
func (h *Handler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req models.OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
			Status: "error",
			Error: &models.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := h.catalog.OnboardUser(ctx, req.UserID, req.Ratings)
	switch {
	case errors.Is(err, store.ErrMovieNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Seed movie not found", err)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to onboard user", err)
		return
	}

	if len(req.Ratings) > 0 {
		h.meanCache.Invalidate()
	}

	respondJSON(w, r, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"user_id":      req.UserID,
			"seed_ratings": len(req.Ratings),
		},
	})
}

// Health handles GET /api/v1/health: process liveness plus a database ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	dbStatus := "up"
	code := http.StatusOK
	if err := h.catalog.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = "down"
		code = http.StatusServiceUnavailable
		logging.Ctx(r.Context()).Error().Err(err).Msg("health check database ping failed")
	}

	respondData(w, r, code, map[string]interface{}{
		"status":   status,
		"database": dbStatus,
	})
}

// limitParam parses the limit query parameter, clamped to the configured
// page-size bounds.
func (h *Handler) limitParam(r *http.Request) int {
	limit := h.defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}
	return limit
}
