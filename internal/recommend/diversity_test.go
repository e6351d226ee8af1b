// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import "testing"

func TestRerankDiversityDisjointGenresKeepsOrder(t *testing.T) {
	// Fully disjoint genre sets: both candidates get the full boost at
	// every step, so the base ranking already wins and the order is
	// unchanged.
	in := []CombinedCandidate{
		{MovieID: 1, Genres: []string{"Drama", "Romance"}, Score: 0.9},
		{MovieID: 2, Genres: []string{"Action", "Thriller"}, Score: 0.8},
	}

	got := RerankDiversity(in, 0.3)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].MovieID != 1 || got[1].MovieID != 2 {
		t.Errorf("got order [%d, %d], want [1, 2]", got[0].MovieID, got[1].MovieID)
	}
}

func TestRerankDiversityPromotesNovelGenres(t *testing.T) {
	// Movies 1 and 2 share a genre; movie 3 brings a new one. After movie
	// 1 is picked, movie 3's full boost (0.3 * 1/1) overtakes movie 2's
	// unboosted 0.84.
	in := []CombinedCandidate{
		{MovieID: 1, Genres: []string{"Action"}, Score: 0.90},
		{MovieID: 2, Genres: []string{"Action"}, Score: 0.84},
		{MovieID: 3, Genres: []string{"Comedy"}, Score: 0.60},
	}

	got := RerankDiversity(in, 0.3)
	wantOrder := []int{1, 3, 2}
	for i, want := range wantOrder {
		if got[i].MovieID != want {
			t.Errorf("rank %d: got movie %d, want %d", i, got[i].MovieID, want)
		}
	}
}

func TestRerankDiversityNoGenresNoBoost(t *testing.T) {
	// A genre-less candidate never receives a boost and never divides by
	// zero.
	in := []CombinedCandidate{
		{MovieID: 1, Genres: nil, Score: 0.5},
		{MovieID: 2, Genres: []string{"Drama"}, Score: 0.4},
	}

	got := RerankDiversity(in, 0.3)
	// Movie 2 gets 0.4 + 0.3 = 0.7 on the first pick and overtakes the
	// unboosted 0.5.
	if got[0].MovieID != 2 || got[1].MovieID != 1 {
		t.Errorf("got order [%d, %d], want [2, 1]", got[0].MovieID, got[1].MovieID)
	}
}

func TestRerankDiversityZeroFactorIsIdentity(t *testing.T) {
	in := []CombinedCandidate{
		{MovieID: 1, Genres: []string{"Drama"}, Score: 0.9},
		{MovieID: 2, Genres: []string{"Action"}, Score: 0.8},
		{MovieID: 3, Genres: []string{"Comedy"}, Score: 0.7},
	}

	got := RerankDiversity(in, 0.0)
	for i := range in {
		if got[i].MovieID != in[i].MovieID {
			t.Errorf("position %d: got movie %d, want %d", i, got[i].MovieID, in[i].MovieID)
		}
	}
}

func TestRerankDiversityIsPermutation(t *testing.T) {
	in := []CombinedCandidate{
		{MovieID: 1, Genres: []string{"Drama"}, Score: 0.95},
		{MovieID: 2, Genres: []string{"Drama", "Romance"}, Score: 0.90},
		{MovieID: 3, Genres: []string{"Action"}, Score: 0.85},
		{MovieID: 4, Genres: []string{"Drama"}, Score: 0.80},
		{MovieID: 5, Genres: nil, Score: 0.75},
		{MovieID: 6, Genres: []string{"Comedy", "Family"}, Score: 0.70},
	}

	got := RerankDiversity(in, 0.3)
	if len(got) != len(in) {
		t.Fatalf("got %d candidates, want %d", len(got), len(in))
	}

	seen := make(map[int]int)
	for _, c := range got {
		seen[c.MovieID]++
	}
	for _, c := range in {
		if seen[c.MovieID] != 1 {
			t.Errorf("movie %d appears %d times, want exactly once", c.MovieID, seen[c.MovieID])
		}
	}
}

func TestRerankDiversityEmptyInput(t *testing.T) {
	got := RerankDiversity(nil, 0.3)
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want 0", len(got))
	}
}
