// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import "sort"

// metadataPriority is the fixed order in which source lists are consulted
// when resolving display metadata (title, genres, TMDB ID) for a merged
// movie. Sources may disagree on metadata fields; the first source in this
// order that returned the movie wins, regardless of the order the lists were
// passed in.
var metadataPriority = []Source{SourceCollaborative, SourceContent, SourceStatistical}

// MergeAndRank combines three independently produced, independently scaled
// candidate lists into one strictly ordered ranking with one entry per
// distinct movie ID.
//
// Each list is min-max normalized on its own (see NormalizeScores), then the
// combined score for a movie is the weighted sum over the sources that
// actually returned it; a missing source contributes zero, never an imputed
// value. With weights summing to 1.0 and normalized scores in [0, 1], the
// combined score is bounded in [0, 1].
//
// Ordering is combined score descending with movie ID ascending as the
// secondary tie-break, so output is reproducible across runs. O(n log n) in
// the total candidate count.
func MergeAndRank(collab, content, stats []ScoredCandidate, weights RankingWeights) []CombinedCandidate {
	type sourceList struct {
		source     Source
		candidates []ScoredCandidate
		normalized map[int]float64
	}

	lists := []sourceList{
		{SourceCollaborative, collab, NormalizeScores(collab)},
		{SourceContent, content, NormalizeScores(content)},
		{SourceStatistical, stats, NormalizeScores(stats)},
	}

	// Single pass per list: accumulate weighted scores and build the
	// priority-ordered metadata lookup. Lists are iterated in
	// metadataPriority order, so the first writer for a movie ID is the
	// highest-priority source that has it.
	combined := make(map[int]float64)
	contributors := make(map[int][]Source)
	metadata := make(map[int]*ScoredCandidate)

	for li := range lists {
		l := &lists[li]
		weight := weights.Weight(l.source)
		for ci := range l.candidates {
			c := &l.candidates[ci]
			combined[c.MovieID] += l.normalized[c.MovieID] * weight
			contributors[c.MovieID] = append(contributors[c.MovieID], l.source)
			if _, ok := metadata[c.MovieID]; !ok {
				metadata[c.MovieID] = c
			}
		}
	}

	ranked := make([]CombinedCandidate, 0, len(combined))
	for movieID, score := range combined {
		meta := metadata[movieID]
		ranked = append(ranked, CombinedCandidate{
			MovieID: movieID,
			TmdbID:  meta.TmdbID,
			Title:   meta.Title,
			Genres:  meta.Genres,
			Score:   score,
			Sources: contributors[movieID],
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].MovieID < ranked[j].MovieID
	})

	return ranked
}

// FromSource converts a single source's candidates into display form without
// cross-source merging, preserving the source's own ordering.
func FromSource(candidates []ScoredCandidate) []CombinedCandidate {
	out := make([]CombinedCandidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		out = append(out, CombinedCandidate{
			MovieID: c.MovieID,
			TmdbID:  c.TmdbID,
			Title:   c.Title,
			Genres:  c.Genres,
			Score:   c.RawScore,
			Sources: []Source{c.Source},
		})
	}
	return out
}
