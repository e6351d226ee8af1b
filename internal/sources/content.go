// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package sources

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/flixflow/internal/config"
	"github.com/tomtom215/flixflow/internal/recommend"
)

const (
	// likeThreshold is the rating at which a movie counts as "loved" for
	// seeding content similarity.
	likeThreshold = 4.0

	// maxSeedMovies caps how many liked movies seed the neighbor queries.
	maxSeedMovies = 10

	// neighborsPerSeed is how many neighbors to fetch per liked movie.
	neighborsPerSeed = 20

	// maxConcurrentNeighborQueries bounds the per-request fan-out to the
	// similarity service.
	maxConcurrentNeighborQueries = 4

	// repeatBoost rewards movies that neighbor several liked movies.
	repeatBoost = 0.1
)

// ContentSource queries the external vector-similarity index. Candidates are
// the aggregated neighbors of the user's loved movies: each neighbor's
// similarity scores are summed and repeated appearances across seeds earn a
// small boost, so a movie similar to three favorites outranks a movie very
// similar to one.
type ContentSource struct {
	client *restClient
	users  recommend.UserRepository
	logger zerolog.Logger
}

// NewContent builds the content source client.
func NewContent(cfg config.ModelServiceConfig, users recommend.UserRepository, logger zerolog.Logger) *ContentSource {
	return &ContentSource{
		client: newRESTClient("content", cfg, logger),
		users:  users,
		logger: logger.With().Str("source", "content").Logger(),
	}
}

// Name implements recommend.CandidateSource.
func (s *ContentSource) Name() recommend.Source {
	return recommend.SourceContent
}

// similarResponse is the similarity service's neighbor payload.
type similarResponse struct {
	Results []wireMovie `json:"results"`
}

// GetCandidates aggregates neighbors of the user's loved movies. A user with
// no loved movies gets an empty list, not an error.
func (s *ContentSource) GetCandidates(ctx context.Context, userID, topN int) ([]recommend.ScoredCandidate, error) {
	if !s.client.enabled() {
		return nil, ErrSourceDisabled
	}

	liked, err := s.users.LikedMovies(ctx, userID, likeThreshold)
	if err != nil {
		return nil, err
	}
	if len(liked) == 0 {
		return []recommend.ScoredCandidate{}, nil
	}
	if len(liked) > maxSeedMovies {
		liked = liked[:maxSeedMovies]
	}

	seedSet := make(map[int]struct{}, len(liked))
	for _, id := range liked {
		seedSet[id] = struct{}{}
	}

	type aggregate struct {
		movie       wireMovie
		sumScore    float64
		appearances int
	}

	var mu sync.Mutex
	byMovie := make(map[int]*aggregate)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentNeighborQueries)
	for _, seedID := range liked {
		g.Go(func() error {
			neighbors, err := s.SimilarMovies(gctx, seedID, neighborsPerSeed)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, n := range neighbors {
				if _, isSeed := seedSet[n.MovieID]; isSeed {
					continue
				}
				agg, ok := byMovie[n.MovieID]
				if !ok {
					agg = &aggregate{movie: wireMovie{
						MovieID: n.MovieID,
						TmdbID:  n.TmdbID,
						Title:   n.Title,
						Genres:  n.Genres,
					}}
					byMovie[n.MovieID] = agg
				}
				agg.sumScore += n.RawScore
				agg.appearances++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]recommend.ScoredCandidate, 0, len(byMovie))
	for _, agg := range byMovie {
		score := agg.sumScore * (1 + repeatBoost*float64(agg.appearances-1))
		candidates = append(candidates, recommend.ScoredCandidate{
			MovieID:  agg.movie.MovieID,
			TmdbID:   agg.movie.TmdbID,
			Title:    agg.movie.Title,
			Genres:   agg.movie.Genres,
			RawScore: score,
			Source:   recommend.SourceContent,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].RawScore != candidates[j].RawScore {
			return candidates[i].RawScore > candidates[j].RawScore
		}
		return candidates[i].MovieID < candidates[j].MovieID
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates, nil
}

// GetHero returns the strongest aggregated neighbor.
func (s *ContentSource) GetHero(ctx context.Context, userID int) (*recommend.ScoredCandidate, error) {
	top, err := s.GetCandidates(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, nil
	}
	return &top[0], nil
}

// SimilarMovies returns the similarity index's neighbors for one movie.
func (s *ContentSource) SimilarMovies(ctx context.Context, movieID, topN int) ([]recommend.ScoredCandidate, error) {
	query := url.Values{
		"movie_id": {strconv.Itoa(movieID)},
		"top_n":    {strconv.Itoa(topN)},
	}

	var resp similarResponse
	if err := s.client.getJSON(ctx, "/similar", query, &resp); err != nil {
		return nil, err
	}

	return wireToCandidates(resp.Results), nil
}

// Search performs free-text semantic search against the similarity index.
func (s *ContentSource) Search(ctx context.Context, text string, topN int) ([]recommend.ScoredCandidate, error) {
	query := url.Values{
		"q":     {text},
		"top_n": {strconv.Itoa(topN)},
	}

	var resp similarResponse
	if err := s.client.getJSON(ctx, "/search", query, &resp); err != nil {
		return nil, err
	}

	return wireToCandidates(resp.Results), nil
}

// wireToCandidates converts service rows preserving order.
func wireToCandidates(rows []wireMovie) []recommend.ScoredCandidate {
	out := make([]recommend.ScoredCandidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, recommend.ScoredCandidate{
			MovieID:  r.MovieID,
			TmdbID:   r.TmdbID,
			Title:    r.Title,
			Genres:   r.Genres,
			RawScore: r.Score,
			Source:   recommend.SourceContent,
		})
	}
	return out
}
