// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package sources

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flixflow/internal/metrics"
	"github.com/tomtom215/flixflow/internal/models"
	"github.com/tomtom215/flixflow/internal/recommend"
)

// DefaultGlobalMean is the assumed catalog mean rating when no ratings exist
// yet, keeping the weighted rating defined on an empty database.
const DefaultGlobalMean = 3.0

// CatalogStats is the slice of the store the statistical engine needs.
type CatalogStats interface {
	RatedMovieStats(ctx context.Context, minVotes int, genre string) ([]models.Movie, error)
	GlobalMeanRating(ctx context.Context) (mean float64, count int, err error)
}

// MeanCache caches the global mean rating so the statistical ranking does
// not recompute it per request. The cache is explicitly owned and
// invalidated by rating writes; there is no hidden process-global state.
type MeanCache struct {
	mu      sync.Mutex
	loaded  bool
	value   float64
	catalog CatalogStats
}

// NewMeanCache builds a cache over the given catalog.
func NewMeanCache(catalog CatalogStats) *MeanCache {
	return &MeanCache{catalog: catalog}
}

// Get returns the cached global mean, computing it on first use. An empty
// ratings table yields DefaultGlobalMean.
func (c *MeanCache) Get(ctx context.Context) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.value, nil
	}

	mean, count, err := c.catalog.GlobalMeanRating(ctx)
	if err != nil {
		return 0, fmt.Errorf("load global mean: %w", err)
	}
	if count == 0 {
		mean = DefaultGlobalMean
	}

	c.value = mean
	c.loaded = true
	return c.value, nil
}

// Invalidate drops the cached value; the next Get recomputes it. Call after
// every rating write.
func (c *MeanCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	metrics.MeanCacheInvalidations.Inc()
}

// StatisticalSource ranks movies by Bayesian weighted rating:
//
//	WR = (v/(v+m))*R + (m/(v+m))*C
//
// where v is the movie's vote count, R its mean rating, m the minimum-votes
// prior, and C the cached global mean. Low-volume movies shrink toward the
// global mean instead of dominating on a handful of five-star votes.
type StatisticalSource struct {
	catalog  CatalogStats
	mean     *MeanCache
	minVotes int
	logger   zerolog.Logger
}

// NewStatistical builds the statistical source. The MeanCache is shared with
// whoever writes ratings so invalidation stays coupled to writes.
func NewStatistical(catalog CatalogStats, mean *MeanCache, minVotes int, logger zerolog.Logger) *StatisticalSource {
	return &StatisticalSource{
		catalog:  catalog,
		mean:     mean,
		minVotes: minVotes,
		logger:   logger.With().Str("source", "statistical").Logger(),
	}
}

// Name implements recommend.CandidateSource.
func (s *StatisticalSource) Name() recommend.Source {
	return recommend.SourceStatistical
}

// GetCandidates returns the top movies by weighted rating. Movies below the
// vote threshold are excluded entirely, not just penalized.
func (s *StatisticalSource) GetCandidates(ctx context.Context, userID, topN int) ([]recommend.ScoredCandidate, error) {
	return s.rank(ctx, "", topN)
}

// GetHero returns the single highest weighted-rating movie.
func (s *StatisticalSource) GetHero(ctx context.Context, userID int) (*recommend.ScoredCandidate, error) {
	top, err := s.rank(ctx, "", 1)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, nil
	}
	return &top[0], nil
}

// TrendingByGenre returns the weighted-rating ranking restricted to one
// genre; an empty genre ranks the whole catalog.
func (s *StatisticalSource) TrendingByGenre(ctx context.Context, genre string, topN int) ([]recommend.ScoredCandidate, error) {
	return s.rank(ctx, genre, topN)
}

func (s *StatisticalSource) rank(ctx context.Context, genre string, topN int) ([]recommend.ScoredCandidate, error) {
	globalMean, err := s.mean.Get(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.catalog.RatedMovieStats(ctx, s.minVotes, genre)
	if err != nil {
		return nil, fmt.Errorf("statistical candidates: %w", err)
	}

	candidates := make([]recommend.ScoredCandidate, 0, len(rows))
	for _, m := range rows {
		candidates = append(candidates, recommend.ScoredCandidate{
			MovieID:   m.MovieID,
			TmdbID:    m.TmdbID,
			Title:     m.Title,
			Genres:    m.Genres,
			RawScore:  WeightedRating(m.VoteCount, m.AvgRating, s.minVotes, globalMean),
			Source:    recommend.SourceStatistical,
			VoteCount: m.VoteCount,
			AvgRating: m.AvgRating,
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

// WeightedRating computes the Bayesian weighted rating for one movie.
func WeightedRating(voteCount int, avgRating float64, minVotes int, globalMean float64) float64 {
	v := float64(voteCount)
	m := float64(minVotes)
	if v+m == 0 {
		return globalMean
	}
	return (v/(v+m))*avgRating + (m/(v+m))*globalMean
}
