// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

// Package store provides the embedded DuckDB catalog: movies, users, and
// ratings, plus the SQL aggregation backing the statistical recommendation
// engine. It implements recommend.UserRepository.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/flixflow/internal/config"
	"github.com/tomtom215/flixflow/internal/logging"
)

// ErrMovieNotFound indicates the requested movie does not exist in the
// catalog.
var ErrMovieNotFound = errors.New("movie not found")

// Store wraps the DuckDB connection and owns the catalog schema.
type Store struct {
	conn *sql.DB
}

// New opens (or creates) the DuckDB database at cfg.Path and initializes the
// schema. Use Path ":memory:" for an ephemeral database in tests.
func New(cfg *config.DatabaseConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Auto-install/auto-load stays off so startup cannot hang on network
	// fetches in restricted environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// DuckDB is an in-process engine; a small pool avoids write contention.
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	s := &Store{conn: conn}
	if err := s.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if cfg.SeedMockData {
		if err := s.seedMockData(context.Background()); err != nil {
			logging.Warn().Err(err).Msg("failed to seed mock data")
		}
	}

	logging.Info().Str("path", cfg.Path).Msg("database ready")
	return s, nil
}

// initSchema creates tables and the aggregate view when absent. Genres are
// stored pipe-separated in MovieLens style and split at the Go boundary.
func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			movie_id   INTEGER PRIMARY KEY,
			tmdb_id    INTEGER,
			title      VARCHAR NOT NULL,
			genres     VARCHAR,
			year       INTEGER,
			overview   VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id    INTEGER PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id    INTEGER NOT NULL,
			movie_id   INTEGER NOT NULL,
			rating     DOUBLE NOT NULL,
			rated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings (movie_id)`,
		`CREATE OR REPLACE VIEW movie_stats AS
			SELECT movie_id,
			       COUNT(*)    AS vote_count,
			       AVG(rating) AS avg_rating
			FROM ratings
			GROUP BY movie_id`,
	}

	for _, stmt := range statements {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// Conn exposes the underlying connection for advanced queries and tests.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
