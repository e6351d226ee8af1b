// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import (
	"fmt"
	"math"
	"time"
)

// WeightSumTolerance is the allowed deviation of the hybrid weight sum from
// 1.0. Weight validation happens once at configuration load, never per
// request.
const WeightSumTolerance = 0.01

// RankingWeights defines the contribution of each source to the hybrid
// combined score. The three weights must sum to 1.0 within
// WeightSumTolerance.
type RankingWeights struct {
	Collaborative float64 `json:"collaborative"`
	Content       float64 `json:"content"`
	Statistical   float64 `json:"statistical"`
}

// Sum returns the total of the three weights.
func (w RankingWeights) Sum() float64 {
	return w.Collaborative + w.Content + w.Statistical
}

// Validate checks that the weights form a valid convex combination.
func (w RankingWeights) Validate() error {
	if w.Collaborative < 0 || w.Content < 0 || w.Statistical < 0 {
		return fmt.Errorf("ranking weights must be non-negative, got %+v", w)
	}
	if diff := math.Abs(w.Sum() - 1.0); diff > WeightSumTolerance {
		return fmt.Errorf("ranking weights must sum to 1.0 within %.2f, got %.4f", WeightSumTolerance, w.Sum())
	}
	return nil
}

// Weight returns the weight assigned to a single source.
func (w RankingWeights) Weight(s Source) float64 {
	switch s {
	case SourceCollaborative:
		return w.Collaborative
	case SourceContent:
		return w.Content
	case SourceStatistical:
		return w.Statistical
	default:
		return 0
	}
}

// Rescale returns weights restricted to the available sources, scaled
// pro-rata so they sum to 1.0 again. This implements the partial-failure
// policy: when a source is down, the surviving sources split its weight in
// proportion to their own. Returns the zero value when no source is
// available.
func (w RankingWeights) Rescale(available map[Source]bool) RankingWeights {
	out := RankingWeights{}
	if available[SourceCollaborative] {
		out.Collaborative = w.Collaborative
	}
	if available[SourceContent] {
		out.Content = w.Content
	}
	if available[SourceStatistical] {
		out.Statistical = w.Statistical
	}

	sum := out.Sum()
	if sum == 0 {
		return out
	}

	out.Collaborative /= sum
	out.Content /= sum
	out.Statistical /= sum
	return out
}

// Config contains all tuning parameters for the recommendation engine.
type Config struct {
	// Weights defines the hybrid blend across the three sources.
	Weights RankingWeights `json:"weights"`

	// ColdStartThreshold is the rating count below which a user is routed
	// to population-level statistics regardless of requested strategy.
	// Default: 5.
	ColdStartThreshold int `json:"cold_start_threshold"`

	// MinVotes is the minimum vote count for a movie to participate in
	// the statistical ranking at all. Default: 50.
	MinVotes int `json:"min_votes"`

	// DiversityFactor controls how strongly genre novelty is rewarded
	// during reranking, in [0, 1]. Default: 0.3.
	DiversityFactor float64 `json:"diversity_factor"`

	// DefaultTopN is the per-section result count when the request does
	// not specify one. Default: 20.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps the per-section result count. Default: 50.
	MaxTopN int `json:"max_top_n"`

	// SourceTimeout bounds each candidate source call during fan-out.
	// A source exceeding it is treated as a partial failure. Default: 3s.
	SourceTimeout time.Duration `json:"source_timeout"`
}

// DefaultConfig returns a Config with production defaults matching the
// historical behavior of the system.
func DefaultConfig() *Config {
	return &Config{
		Weights: RankingWeights{
			Collaborative: 0.5,
			Content:       0.3,
			Statistical:   0.2,
		},
		ColdStartThreshold: 5,
		MinVotes:           50,
		DiversityFactor:    0.3,
		DefaultTopN:        20,
		MaxTopN:            50,
		SourceTimeout:      3 * time.Second,
	}
}

// Validate checks the configuration for errors. It is called at load time so
// an invalid weight set fails before any request is served.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.ColdStartThreshold < 0 {
		return fmt.Errorf("cold_start_threshold must be non-negative, got %d", c.ColdStartThreshold)
	}
	if c.MinVotes < 1 {
		return fmt.Errorf("min_votes must be positive, got %d", c.MinVotes)
	}
	if c.DiversityFactor < 0 || c.DiversityFactor > 1 {
		return fmt.Errorf("diversity_factor must be in [0, 1], got %f", c.DiversityFactor)
	}
	if c.DefaultTopN < 1 {
		return fmt.Errorf("default_top_n must be positive, got %d", c.DefaultTopN)
	}
	if c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("max_top_n must be >= default_top_n, got %d < %d", c.MaxTopN, c.DefaultTopN)
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source_timeout must be positive, got %v", c.SourceTimeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}
