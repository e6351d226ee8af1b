// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flixflow/internal/config"
	"github.com/tomtom215/flixflow/internal/recommend"
)

// CollaborativeSource queries the external matrix-factorization model
// service for per-user predicted ratings on the 0.5-5.0 scale.
type CollaborativeSource struct {
	client *restClient
}

// NewCollaborative builds the collaborative source client.
func NewCollaborative(cfg config.ModelServiceConfig, logger zerolog.Logger) *CollaborativeSource {
	return &CollaborativeSource{
		client: newRESTClient("collaborative", cfg, logger),
	}
}

// Name implements recommend.CandidateSource.
func (s *CollaborativeSource) Name() recommend.Source {
	return recommend.SourceCollaborative
}

// predictResponse is the model service's prediction payload.
type predictResponse struct {
	Predictions []wireMovie `json:"predictions"`
}

// GetCandidates returns the model's top predicted movies for the user. The
// service already excludes movies the user has rated.
func (s *CollaborativeSource) GetCandidates(ctx context.Context, userID, topN int) ([]recommend.ScoredCandidate, error) {
	query := url.Values{
		"user_id": {strconv.Itoa(userID)},
		"top_n":   {strconv.Itoa(topN)},
	}

	var resp predictResponse
	if err := s.client.getJSON(ctx, "/predict", query, &resp); err != nil {
		return nil, err
	}

	candidates := make([]recommend.ScoredCandidate, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		candidates = append(candidates, recommend.ScoredCandidate{
			MovieID:  p.MovieID,
			TmdbID:   p.TmdbID,
			Title:    p.Title,
			Genres:   p.Genres,
			RawScore: p.Score,
			Source:   recommend.SourceCollaborative,
		})
	}
	return candidates, nil
}

// GetHero returns the model's single strongest prediction.
func (s *CollaborativeSource) GetHero(ctx context.Context, userID int) (*recommend.ScoredCandidate, error) {
	top, err := s.GetCandidates(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, nil
	}
	return &top[0], nil
}
