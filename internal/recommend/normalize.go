// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

// NormalizeScores rescales one source's raw scores onto [0, 1] using min-max
// scaling and returns a movie ID to normalized score map scoped to that
// source's result set.
//
// An empty input yields an empty map, not an error. When every raw score is
// identical the whole list normalizes to 1.0: a uniformly-scored source is
// treated as fully confident rather than neutral. Downstream weighting
// depends on this exact behavior; do not change it to 0.5.
func NormalizeScores(candidates []ScoredCandidate) map[int]float64 {
	normalized := make(map[int]float64, len(candidates))
	if len(candidates) == 0 {
		return normalized
	}

	minScore := candidates[0].RawScore
	maxScore := candidates[0].RawScore
	for _, c := range candidates[1:] {
		if c.RawScore < minScore {
			minScore = c.RawScore
		}
		if c.RawScore > maxScore {
			maxScore = c.RawScore
		}
	}

	if maxScore == minScore {
		for _, c := range candidates {
			normalized[c.MovieID] = 1.0
		}
		return normalized
	}

	span := maxScore - minScore
	for _, c := range candidates {
		normalized[c.MovieID] = (c.RawScore - minScore) / span
	}
	return normalized
}
