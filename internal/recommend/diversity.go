// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

// RerankDiversity greedily reorders a ranked list to spread genre coverage,
// preventing a wall of near-identical genres at the top.
//
// At each step every remaining candidate gets an adjusted score:
//
//	adjusted = score + factor * |genres - seenGenres| / |genres|
//
// and the highest adjusted score is selected; its genres join seenGenres. A
// candidate whose genres are all already covered gets no boost, as does a
// candidate with no genres at all (which also guards the division). Ties go
// to the earliest remaining position, so the rerank is stable.
//
// The output is always a permutation of the input. O(n²); fine for section
// sizes up to a few hundred, a known ceiling for larger catalogs.
func RerankDiversity(items []CombinedCandidate, factor float64) []CombinedCandidate {
	if len(items) == 0 {
		return []CombinedCandidate{}
	}

	result := make([]CombinedCandidate, 0, len(items))
	seenGenres := make(map[string]struct{})
	remaining := make([]CombinedCandidate, len(items))
	copy(remaining, items)

	for len(remaining) > 0 {
		bestIdx := 0
		bestScore := adjustedScore(&remaining[0], seenGenres, factor)

		for i := 1; i < len(remaining); i++ {
			if s := adjustedScore(&remaining[i], seenGenres, factor); s > bestScore {
				bestScore = s
				bestIdx = i
			}
		}

		chosen := remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		result = append(result, chosen)

		for _, g := range chosen.Genres {
			seenGenres[g] = struct{}{}
		}
	}

	return result
}

// adjustedScore computes the diversity-boosted score for one candidate.
func adjustedScore(c *CombinedCandidate, seenGenres map[string]struct{}, factor float64) float64 {
	if len(c.Genres) == 0 {
		return c.Score
	}

	newGenres := 0
	for _, g := range c.Genres {
		if _, seen := seenGenres[g]; !seen {
			newGenres++
		}
	}
	if newGenres == 0 {
		return c.Score
	}

	return c.Score + factor*float64(newGenres)/float64(len(c.Genres))
}
