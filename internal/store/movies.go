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
	"strings"
	"time"

	"github.com/tomtom215/flixflow/internal/metrics"
	"github.com/tomtom215/flixflow/internal/models"
)

// observe returns a deferred recorder for one query's Prometheus DB metrics.
// The error pointer lets the defer see the method's final named return.
func observe(operation string, err *error) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQuery(operation, time.Since(start), *err)
	}
}

// movieColumns is the shared select list joining catalog rows with their
// rating aggregates.
const movieColumns = `
	m.movie_id, m.tmdb_id, m.title, m.genres, m.year, m.overview,
	COALESCE(s.vote_count, 0), COALESCE(s.avg_rating, 0)`

// scanMovie reads one joined movie row.
func scanMovie(row interface{ Scan(...interface{}) error }) (models.Movie, error) {
	var (
		m        models.Movie
		tmdbID   sql.NullInt64
		genres   sql.NullString
		year     sql.NullInt64
		overview sql.NullString
	)
	err := row.Scan(&m.MovieID, &tmdbID, &m.Title, &genres, &year, &overview, &m.VoteCount, &m.AvgRating)
	if err != nil {
		return models.Movie{}, err
	}
	m.TmdbID = int(tmdbID.Int64)
	m.Year = int(year.Int64)
	m.Overview = overview.String
	m.Genres = SplitGenres(genres.String)
	return m, nil
}

// SplitGenres splits a pipe-separated genre string into a slice, dropping
// empties and the MovieLens "(no genres listed)" placeholder.
func SplitGenres(raw string) []string {
	if raw == "" || raw == "(no genres listed)" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinGenres is the inverse of SplitGenres.
func JoinGenres(genres []string) string {
	return strings.Join(genres, "|")
}

// GetMovie returns one movie with its rating aggregates. Returns
// ErrMovieNotFound for unknown IDs.
func (s *Store) GetMovie(ctx context.Context, movieID int) (_ *models.Movie, err error) {
	defer observe("get_movie", &err)()

	row := s.conn.QueryRowContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies m
		LEFT JOIN movie_stats s ON s.movie_id = m.movie_id
		WHERE m.movie_id = ?`, movieID)

	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movie %d: %w", movieID, ErrMovieNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", movieID, err)
	}
	return &m, nil
}

// MoviesByIDs returns the catalog records for the given IDs. Unknown IDs are
// silently skipped; order is not preserved.
func (s *Store) MoviesByIDs(ctx context.Context, movieIDs []int) (_ []models.Movie, err error) {
	defer observe("movies_by_ids", &err)()

	if len(movieIDs) == 0 {
		return []models.Movie{}, nil
	}

	placeholders := strings.Repeat("?,", len(movieIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(movieIDs))
	for i, id := range movieIDs {
		args[i] = id
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies m
		LEFT JOIN movie_stats s ON s.movie_id = m.movie_id
		WHERE m.movie_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("movies by ids: %w", err)
	}
	defer rows.Close()

	return collectMovies(rows)
}

// RatedMovieStats returns aggregate rows for every movie at or above the
// vote-count threshold, optionally restricted to a genre. The statistical
// engine computes its weighted rating over these rows.
func (s *Store) RatedMovieStats(ctx context.Context, minVotes int, genre string) (_ []models.Movie, err error) {
	defer observe("rated_movie_stats", &err)()

	query := `
		SELECT ` + movieColumns + `
		FROM movies m
		JOIN movie_stats s ON s.movie_id = m.movie_id
		WHERE s.vote_count >= ?`
	args := []interface{}{minVotes}

	if genre != "" {
		// Pipe-separated genres; anchor on the separator so "War" does
		// not match "Warfare".
		query += ` AND ('|' || m.genres || '|') ILIKE ?`
		args = append(args, "%|"+genre+"|%")
	}
	query += ` ORDER BY s.avg_rating DESC, m.movie_id ASC`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rated movie stats: %w", err)
	}
	defer rows.Close()

	return collectMovies(rows)
}

// GlobalMeanRating returns the mean of all ratings and the total rating
// count. A zero count means the mean is undefined and the caller should use
// its configured default.
func (s *Store) GlobalMeanRating(ctx context.Context) (_ float64, _ int, err error) {
	defer observe("global_mean_rating", &err)()

	var (
		mean  sql.NullFloat64
		count int
	)
	err = s.conn.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(*) FROM ratings`).Scan(&mean, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("global mean rating: %w", err)
	}
	return mean.Float64, count, nil
}

// SimilarByGenres returns movies sharing the most genres with the given
// movie, most-overlapping first, excluding the movie itself. Used as the
// local fallback when the vector similarity service is unavailable.
func (s *Store) SimilarByGenres(ctx context.Context, movieID, limit int) (_ []models.Movie, err error) {
	defer observe("similar_by_genres", &err)()

	source, err := s.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if len(source.Genres) == 0 {
		return []models.Movie{}, nil
	}

	var overlap strings.Builder
	args := make([]interface{}, 0, len(source.Genres)+2)
	for i, g := range source.Genres {
		if i > 0 {
			overlap.WriteString(" + ")
		}
		overlap.WriteString(`CAST(('|' || m.genres || '|') ILIKE ? AS INTEGER)`)
		args = append(args, "%|"+g+"|%")
	}
	args = append(args, movieID, limit)

	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+movieColumns+`, (`+overlap.String()+`) AS overlap
		FROM movies m
		LEFT JOIN movie_stats s ON s.movie_id = m.movie_id
		WHERE m.movie_id != ?
		ORDER BY overlap DESC, COALESCE(s.avg_rating, 0) DESC, m.movie_id ASC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("similar by genres: %w", err)
	}
	defer rows.Close()

	out := make([]models.Movie, 0, limit)
	for rows.Next() {
		var (
			m        models.Movie
			tmdbID   sql.NullInt64
			genres   sql.NullString
			year     sql.NullInt64
			overview sql.NullString
			overlapN int
		)
		if err := rows.Scan(&m.MovieID, &tmdbID, &m.Title, &genres, &year, &overview,
			&m.VoteCount, &m.AvgRating, &overlapN); err != nil {
			return nil, fmt.Errorf("similar by genres scan: %w", err)
		}
		if overlapN == 0 {
			continue
		}
		m.TmdbID = int(tmdbID.Int64)
		m.Year = int(year.Int64)
		m.Overview = overview.String
		m.Genres = SplitGenres(genres.String)
		out = append(out, m)
	}
	return out, rows.Err()
}

// SearchMovies performs a case-insensitive title substring search.
func (s *Store) SearchMovies(ctx context.Context, query string, limit int) (_ []models.Movie, err error) {
	defer observe("search_movies", &err)()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies m
		LEFT JOIN movie_stats s ON s.movie_id = m.movie_id
		WHERE m.title ILIKE ?
		ORDER BY COALESCE(s.vote_count, 0) DESC, m.movie_id ASC
		LIMIT ?`, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer rows.Close()

	return collectMovies(rows)
}

// InsertMovie adds or replaces a catalog record. Used by seeding and tests.
func (s *Store) InsertMovie(ctx context.Context, m models.Movie) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO movies (movie_id, tmdb_id, title, genres, year, overview)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.MovieID, m.TmdbID, m.Title, JoinGenres(m.Genres), m.Year, m.Overview)
	if err != nil {
		return fmt.Errorf("insert movie %d: %w", m.MovieID, err)
	}
	return nil
}

// collectMovies drains a joined movie result set.
func collectMovies(rows *sql.Rows) ([]models.Movie, error) {
	out := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
