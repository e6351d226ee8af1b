// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/flixflow/internal/models"
	"github.com/tomtom215/flixflow/internal/recommend"
)

// RatingCount returns how many ratings the user has submitted. Implements
// recommend.UserRepository; unknown users map to recommend.ErrUserNotFound.
func (s *Store) RatingCount(ctx context.Context, userID int) (_ int, err error) {
	defer observe("rating_count", &err)()

	exists, err := s.Exists(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("user %d: %w", userID, recommend.ErrUserNotFound)
	}

	var count int
	err = s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ratings WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("rating count for user %d: %w", userID, err)
	}
	return count, nil
}

// LikedMovies returns IDs of movies the user rated at or above minRating,
// highest rated first.
func (s *Store) LikedMovies(ctx context.Context, userID int, minRating float64) (_ []int, err error) {
	defer observe("liked_movies", &err)()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT movie_id FROM ratings
		WHERE user_id = ? AND rating >= ?
		ORDER BY rating DESC, movie_id ASC`, userID, minRating)
	if err != nil {
		return nil, fmt.Errorf("liked movies for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liked movie: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Exists reports whether the user is registered.
func (s *Store) Exists(ctx context.Context, userID int) (bool, error) {
	var one int
	err := s.conn.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE user_id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user exists %d: %w", userID, err)
	}
	return true, nil
}

// GetUser returns the user with their rating activity summary.
func (s *Store) GetUser(ctx context.Context, userID int) (*models.User, error) {
	var u models.User
	err := s.conn.QueryRowContext(ctx, `
		SELECT u.user_id, u.created_at,
		       (SELECT COUNT(*) FROM ratings r WHERE r.user_id = u.user_id)
		FROM users u
		WHERE u.user_id = ?`, userID).Scan(&u.UserID, &u.CreatedAt, &u.RatingCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, recommend.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return &u, nil
}

// CreateUser registers a user if not already present.
func (s *Store) CreateUser(ctx context.Context, userID int) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO users (user_id, created_at)
		VALUES (?, ?)
		ON CONFLICT (user_id) DO NOTHING`, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create user %d: %w", userID, err)
	}
	return nil
}

// UpsertRating writes or replaces one rating. The movie and user must exist;
// the rating value is validated at the API boundary.
func (s *Store) UpsertRating(ctx context.Context, userID, movieID int, rating float64) (err error) {
	defer observe("upsert_rating", &err)()

	exists, err := s.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, recommend.ErrUserNotFound)
	}

	var one int
	err = s.conn.QueryRowContext(ctx,
		`SELECT 1 FROM movies WHERE movie_id = ?`, movieID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("movie %d: %w", movieID, ErrMovieNotFound)
	}
	if err != nil {
		return fmt.Errorf("movie exists %d: %w", movieID, err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO ratings (user_id, movie_id, rating, rated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			rating = excluded.rating,
			rated_at = excluded.rated_at`,
		userID, movieID, rating, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert rating user=%d movie=%d: %w", userID, movieID, err)
	}
	return nil
}

// OnboardUser registers a user and writes their initial ratings in one
// transaction, so a partially applied onboarding never survives.
func (s *Store) OnboardUser(ctx context.Context, userID int, seeds []models.SeedRating) (err error) {
	defer observe("onboard_user", &err)()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("onboard user %d: begin: %w", userID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (user_id, created_at)
		VALUES (?, ?)
		ON CONFLICT (user_id) DO NOTHING`, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("onboard user %d: create: %w", userID, err)
	}

	for _, seed := range seeds {
		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM movies WHERE movie_id = ?`, seed.MovieID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("movie %d: %w", seed.MovieID, ErrMovieNotFound)
		}
		if err != nil {
			return fmt.Errorf("onboard user %d: movie check: %w", userID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ratings (user_id, movie_id, rating, rated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, movie_id) DO UPDATE SET
				rating = excluded.rating,
				rated_at = excluded.rated_at`,
			userID, seed.MovieID, seed.Rating, time.Now().UTC()); err != nil {
			return fmt.Errorf("onboard user %d: seed rating: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("onboard user %d: commit: %w", userID, err)
	}
	return nil
}
