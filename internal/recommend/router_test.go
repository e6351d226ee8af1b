// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import (
	"context"
	"errors"
	"testing"
)

func TestRouteStrategy(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		isNewUser bool
		want      State
	}{
		{"new user overrides hybrid", "hybrid", true, StateColdStart},
		{"new user overrides collaborative", "collaborative", true, StateColdStart},
		{"new user with empty strategy", "", true, StateColdStart},
		{"collaborative", "collaborative", false, StateCollaborativeOnly},
		{"content", "content", false, StateContentOnly},
		{"statistical", "statistical", false, StateStatisticalOnly},
		{"hybrid", "hybrid", false, StateHybrid},
		{"empty folds to hybrid", "", false, StateHybrid},
		{"unrecognized folds to hybrid", "svd++", false, StateHybrid},
		{"case-sensitive match folds to hybrid", "Collaborative", false, StateHybrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RouteStrategy(tt.requested, tt.isNewUser)
			if got != tt.want {
				t.Errorf("RouteStrategy(%q, %v) = %v, want %v", tt.requested, tt.isNewUser, got, tt.want)
			}
		})
	}
}

func TestStateStrategyName(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateColdStart, "statistical"},
		{StateStatisticalOnly, "statistical"},
		{StateCollaborativeOnly, "collaborative"},
		{StateContentOnly, "content"},
		{StateHybrid, "hybrid"},
	}

	for _, tt := range tests {
		if got := tt.state.StrategyName(); got != tt.want {
			t.Errorf("%v.StrategyName() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestClassifyUser(t *testing.T) {
	users := &mockUserRepository{ratingCounts: map[int]int{10: 2, 20: 5, 30: 42}}

	tests := []struct {
		name      string
		userID    int
		threshold int
		wantNew   bool
		wantCount int
	}{
		{"below threshold is cold start", 10, 5, true, 2},
		{"at threshold is established", 20, 5, false, 5},
		{"well above threshold", 30, 5, false, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyUser(context.Background(), users, tt.userID, tt.threshold)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.IsNewUser != tt.wantNew {
				t.Errorf("got IsNewUser=%v, want %v", got.IsNewUser, tt.wantNew)
			}
			if got.RatingCount != tt.wantCount {
				t.Errorf("got RatingCount=%d, want %d", got.RatingCount, tt.wantCount)
			}
		})
	}
}

func TestClassifyUserNotFound(t *testing.T) {
	users := &mockUserRepository{}

	_, err := ClassifyUser(context.Background(), users, 99, 5)
	if err == nil {
		t.Fatal("expected error for unknown user")
	}
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}
