// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/flixflow/internal/config"
	"github.com/tomtom215/flixflow/internal/models"
	"github.com/tomtom215/flixflow/internal/recommend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustInsertMovie(t *testing.T, s *Store, m models.Movie) {
	t.Helper()
	if err := s.InsertMovie(context.Background(), m); err != nil {
		t.Fatalf("InsertMovie: %v", err)
	}
}

func mustRate(t *testing.T, s *Store, userID, movieID int, rating float64) {
	t.Helper()
	ctx := context.Background()
	if err := s.CreateUser(ctx, userID); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.UpsertRating(ctx, userID, movieID, rating); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
}

func TestGetMovie(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsertMovie(t, s, models.Movie{
		MovieID: 1, TmdbID: 862, Title: "Toy Story (1995)",
		Genres: []string{"Animation", "Comedy"}, Year: 1995,
	})
	mustRate(t, s, 10, 1, 4.0)
	mustRate(t, s, 11, 1, 5.0)

	got, err := s.GetMovie(ctx, 1)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if got.Title != "Toy Story (1995)" {
		t.Errorf("got title %q", got.Title)
	}
	if len(got.Genres) != 2 || got.Genres[0] != "Animation" {
		t.Errorf("got genres %v", got.Genres)
	}
	if got.VoteCount != 2 {
		t.Errorf("got vote count %d, want 2", got.VoteCount)
	}
	if got.AvgRating != 4.5 {
		t.Errorf("got avg rating %f, want 4.5", got.AvgRating)
	}
}

func TestGetMovieNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetMovie(context.Background(), 999)
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("got %v, want ErrMovieNotFound", err)
	}
}

func TestSplitGenres(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"Action|Sci-Fi|Thriller", 3},
		{"Drama", 1},
		{"", 0},
		{"(no genres listed)", 0},
	}
	for _, tt := range tests {
		if got := SplitGenres(tt.in); len(got) != tt.want {
			t.Errorf("SplitGenres(%q) = %v, want %d entries", tt.in, got, tt.want)
		}
	}
}

func TestRatingCountAndExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsertMovie(t, s, models.Movie{MovieID: 1, Title: "A"})
	mustInsertMovie(t, s, models.Movie{MovieID: 2, Title: "B"})
	mustRate(t, s, 7, 1, 4.0)
	if err := s.UpsertRating(ctx, 7, 2, 3.0); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	count, err := s.RatingCount(ctx, 7)
	if err != nil {
		t.Fatalf("RatingCount: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d ratings, want 2", count)
	}

	// Re-rating the same movie replaces, not duplicates.
	if err := s.UpsertRating(ctx, 7, 1, 2.0); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	count, _ = s.RatingCount(ctx, 7)
	if count != 2 {
		t.Errorf("got %d ratings after re-rate, want 2", count)
	}

	if _, err := s.RatingCount(ctx, 999); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}

	exists, err := s.Exists(ctx, 7)
	if err != nil || !exists {
		t.Errorf("Exists(7) = %v, %v; want true", exists, err)
	}
	exists, err = s.Exists(ctx, 999)
	if err != nil || exists {
		t.Errorf("Exists(999) = %v, %v; want false", exists, err)
	}
}

func TestLikedMovies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		mustInsertMovie(t, s, models.Movie{MovieID: i, Title: "M"})
	}
	mustRate(t, s, 1, 1, 5.0)
	for movieID, rating := range map[int]float64{2: 4.0, 3: 3.5, 4: 4.5} {
		if err := s.UpsertRating(ctx, 1, movieID, rating); err != nil {
			t.Fatalf("UpsertRating: %v", err)
		}
	}

	liked, err := s.LikedMovies(ctx, 1, 4.0)
	if err != nil {
		t.Fatalf("LikedMovies: %v", err)
	}
	// Ordered highest rating first: 1 (5.0), 4 (4.5), 2 (4.0).
	want := []int{1, 4, 2}
	if len(liked) != len(want) {
		t.Fatalf("got %v, want %v", liked, want)
	}
	for i := range want {
		if liked[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, liked[i], want[i])
		}
	}
}

func TestUpsertRatingUnknownRefs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsertMovie(t, s, models.Movie{MovieID: 1, Title: "A"})

	if err := s.UpsertRating(ctx, 42, 1, 4.0); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}

	if err := s.CreateUser(ctx, 42); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.UpsertRating(ctx, 42, 999, 4.0); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("got %v, want ErrMovieNotFound", err)
	}
}

func TestRatedMovieStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsertMovie(t, s, models.Movie{MovieID: 1, Title: "Popular", Genres: []string{"Action"}})
	mustInsertMovie(t, s, models.Movie{MovieID: 2, Title: "Niche", Genres: []string{"Drama"}})
	mustInsertMovie(t, s, models.Movie{MovieID: 3, Title: "Unrated", Genres: []string{"Action"}})

	for user := 1; user <= 3; user++ {
		mustRate(t, s, user, 1, 4.0)
	}
	mustRate(t, s, 4, 2, 5.0)

	// Threshold 2 keeps only the movie with 3 votes.
	got, err := s.RatedMovieStats(ctx, 2, "")
	if err != nil {
		t.Fatalf("RatedMovieStats: %v", err)
	}
	if len(got) != 1 || got[0].MovieID != 1 {
		t.Fatalf("got %v, want only movie 1", got)
	}
	if got[0].VoteCount != 3 || got[0].AvgRating != 4.0 {
		t.Errorf("got votes=%d avg=%f", got[0].VoteCount, got[0].AvgRating)
	}

	// Genre filter.
	got, err = s.RatedMovieStats(ctx, 1, "Drama")
	if err != nil {
		t.Fatalf("RatedMovieStats: %v", err)
	}
	if len(got) != 1 || got[0].MovieID != 2 {
		t.Errorf("genre filter got %v, want only movie 2", got)
	}
}

func TestGlobalMeanRating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mean, count, err := s.GlobalMeanRating(ctx)
	if err != nil {
		t.Fatalf("GlobalMeanRating: %v", err)
	}
	if count != 0 || mean != 0 {
		t.Errorf("empty db: got mean=%f count=%d", mean, count)
	}

	mustInsertMovie(t, s, models.Movie{MovieID: 1, Title: "A"})
	mustRate(t, s, 1, 1, 3.0)
	mustRate(t, s, 2, 1, 5.0)

	mean, count, err = s.GlobalMeanRating(ctx)
	if err != nil {
		t.Fatalf("GlobalMeanRating: %v", err)
	}
	if count != 2 || mean != 4.0 {
		t.Errorf("got mean=%f count=%d, want 4.0/2", mean, count)
	}
}

func TestSimilarByGenres(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsertMovie(t, s, models.Movie{MovieID: 1, Title: "Source", Genres: []string{"Action", "Sci-Fi"}})
	mustInsertMovie(t, s, models.Movie{MovieID: 2, Title: "Both", Genres: []string{"Action", "Sci-Fi"}})
	mustInsertMovie(t, s, models.Movie{MovieID: 3, Title: "One", Genres: []string{"Action", "Drama"}})
	mustInsertMovie(t, s, models.Movie{MovieID: 4, Title: "None", Genres: []string{"Romance"}})

	got, err := s.SimilarByGenres(ctx, 1, 10)
	if err != nil {
		t.Fatalf("SimilarByGenres: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d movies, want 2 (zero-overlap excluded)", len(got))
	}
	if got[0].MovieID != 2 || got[1].MovieID != 3 {
		t.Errorf("got order [%d, %d], want [2, 3]", got[0].MovieID, got[1].MovieID)
	}
}

func TestSearchMovies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsertMovie(t, s, models.Movie{MovieID: 1, Title: "The Matrix (1999)"})
	mustInsertMovie(t, s, models.Movie{MovieID: 2, Title: "The Matrix Reloaded (2003)"})
	mustInsertMovie(t, s, models.Movie{MovieID: 3, Title: "Inception (2010)"})

	got, err := s.SearchMovies(ctx, "matrix", 10)
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d results, want 2", len(got))
	}

	got, err = s.SearchMovies(ctx, "matrix", 1)
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("limit not applied: got %d results", len(got))
	}
}

func TestOnboardUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsertMovie(t, s, models.Movie{MovieID: 1, Title: "A"})
	mustInsertMovie(t, s, models.Movie{MovieID: 2, Title: "B"})

	seeds := []models.SeedRating{
		{MovieID: 1, Rating: 4.5},
		{MovieID: 2, Rating: 3.0},
	}
	if err := s.OnboardUser(ctx, 100, seeds); err != nil {
		t.Fatalf("OnboardUser: %v", err)
	}

	count, err := s.RatingCount(ctx, 100)
	if err != nil {
		t.Fatalf("RatingCount: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d ratings, want 2", count)
	}
}

func TestOnboardUserRollsBackOnUnknownMovie(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsertMovie(t, s, models.Movie{MovieID: 1, Title: "A"})

	seeds := []models.SeedRating{
		{MovieID: 1, Rating: 4.5},
		{MovieID: 999, Rating: 3.0},
	}
	if err := s.OnboardUser(ctx, 100, seeds); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("got %v, want ErrMovieNotFound", err)
	}

	// The whole transaction rolls back, including user creation.
	exists, err := s.Exists(ctx, 100)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("failed onboarding must not leave a registered user behind")
	}
}

func TestSeedMockData(t *testing.T) {
	s, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 2, SeedMockData: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	movies, err := s.SearchMovies(ctx, "", 100)
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if len(movies) == 0 {
		t.Fatal("seeded catalog is empty")
	}

	_, count, err := s.GlobalMeanRating(ctx)
	if err != nil {
		t.Fatalf("GlobalMeanRating: %v", err)
	}
	if count == 0 {
		t.Error("seeded ratings missing")
	}
}
