// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import (
	"math"
	"testing"
)

func TestNormalizeScores(t *testing.T) {
	tests := []struct {
		name string
		in   []ScoredCandidate
		want map[int]float64
	}{
		{
			name: "empty input yields empty map",
			in:   nil,
			want: map[int]float64{},
		},
		{
			name: "single candidate normalizes to one",
			in: []ScoredCandidate{
				{MovieID: 1, RawScore: 4.2},
			},
			want: map[int]float64{1: 1.0},
		},
		{
			name: "identical scores all normalize to one",
			in: []ScoredCandidate{
				{MovieID: 1, RawScore: 3.5},
				{MovieID: 2, RawScore: 3.5},
				{MovieID: 3, RawScore: 3.5},
			},
			want: map[int]float64{1: 1.0, 2: 1.0, 3: 1.0},
		},
		{
			name: "min-max scaling over a spread",
			in: []ScoredCandidate{
				{MovieID: 10, RawScore: 1.0},
				{MovieID: 20, RawScore: 3.0},
				{MovieID: 30, RawScore: 5.0},
			},
			want: map[int]float64{10: 0.0, 20: 0.5, 30: 1.0},
		},
		{
			name: "negative scores are handled",
			in: []ScoredCandidate{
				{MovieID: 1, RawScore: -2.0},
				{MovieID: 2, RawScore: 0.0},
				{MovieID: 3, RawScore: 2.0},
			},
			want: map[int]float64{1: 0.0, 2: 0.5, 3: 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeScores(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if math.Abs(got[id]-want) > 1e-9 {
					t.Errorf("movie %d: got %.6f, want %.6f", id, got[id], want)
				}
			}
		})
	}
}

func TestNormalizeScoresBounds(t *testing.T) {
	in := []ScoredCandidate{
		{MovieID: 1, RawScore: 0.7},
		{MovieID: 2, RawScore: 4.9},
		{MovieID: 3, RawScore: 2.3},
		{MovieID: 4, RawScore: 3.1},
	}

	got := NormalizeScores(in)
	for id, score := range got {
		if score < 0.0 || score > 1.0 {
			t.Errorf("movie %d: score %.6f outside [0, 1]", id, score)
		}
	}
	if got[1] != 0.0 {
		t.Errorf("minimum should normalize to 0.0, got %.6f", got[1])
	}
	if got[2] != 1.0 {
		t.Errorf("maximum should normalize to 1.0, got %.6f", got[2])
	}
}
