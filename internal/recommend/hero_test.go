// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import (
	"math"
	"testing"
)

func TestSelectHero(t *testing.T) {
	tests := []struct {
		name           string
		candidates     []ScoredCandidate
		wantNil        bool
		wantMovieID    int
		wantConfidence float64
	}{
		{
			name:    "empty list yields nil hero",
			wantNil: true,
		},
		{
			name: "collaborative rating scales by five",
			candidates: []ScoredCandidate{
				{MovieID: 1, RawScore: 4.5, Source: SourceCollaborative},
				{MovieID: 2, RawScore: 4.0, Source: SourceCollaborative},
			},
			wantMovieID:    1,
			wantConfidence: 0.9,
		},
		{
			name: "statistical weighted rating scales by five",
			candidates: []ScoredCandidate{
				{MovieID: 9, RawScore: 4.0, Source: SourceStatistical},
			},
			wantMovieID:    9,
			wantConfidence: 0.8,
		},
		{
			name: "content similarity passes through",
			candidates: []ScoredCandidate{
				{MovieID: 3, RawScore: 0.73, Source: SourceContent},
			},
			wantMovieID:    3,
			wantConfidence: 0.73,
		},
		{
			name: "confidence clamps at one",
			candidates: []ScoredCandidate{
				{MovieID: 4, RawScore: 7.5, Source: SourceCollaborative},
			},
			wantMovieID:    4,
			wantConfidence: 1.0,
		},
		{
			name: "content score above one clamps too",
			candidates: []ScoredCandidate{
				{MovieID: 5, RawScore: 1.4, Source: SourceContent},
			},
			wantMovieID:    5,
			wantConfidence: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectHero(tt.candidates)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("got hero %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("got nil hero")
			}
			if got.MovieID != tt.wantMovieID {
				t.Errorf("got movie %d, want %d", got.MovieID, tt.wantMovieID)
			}
			if math.Abs(got.Confidence-tt.wantConfidence) > 1e-9 {
				t.Errorf("got confidence %.6f, want %.6f", got.Confidence, tt.wantConfidence)
			}
		})
	}
}
