// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/flixflow/internal/models"
)

// seedMockData loads a small demo catalog with enough rating volume that the
// statistical engine produces a non-trivial ranking out of the box.
func (s *Store) seedMockData(ctx context.Context) error {
	var count int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if count > 0 {
		return nil
	}

	movies := []models.Movie{
		{MovieID: 1, TmdbID: 862, Title: "Toy Story (1995)", Genres: []string{"Adventure", "Animation", "Children", "Comedy", "Fantasy"}, Year: 1995},
		{MovieID: 32, TmdbID: 63, Title: "Twelve Monkeys (1995)", Genres: []string{"Mystery", "Sci-Fi", "Thriller"}, Year: 1995},
		{MovieID: 47, TmdbID: 807, Title: "Seven (1995)", Genres: []string{"Mystery", "Thriller"}, Year: 1995},
		{MovieID: 50, TmdbID: 629, Title: "The Usual Suspects (1995)", Genres: []string{"Crime", "Mystery", "Thriller"}, Year: 1995},
		{MovieID: 260, TmdbID: 11, Title: "Star Wars: Episode IV - A New Hope (1977)", Genres: []string{"Action", "Adventure", "Sci-Fi"}, Year: 1977},
		{MovieID: 296, TmdbID: 680, Title: "Pulp Fiction (1994)", Genres: []string{"Comedy", "Crime", "Drama", "Thriller"}, Year: 1994},
		{MovieID: 318, TmdbID: 278, Title: "The Shawshank Redemption (1994)", Genres: []string{"Crime", "Drama"}, Year: 1994},
		{MovieID: 356, TmdbID: 13, Title: "Forrest Gump (1994)", Genres: []string{"Comedy", "Drama", "Romance", "War"}, Year: 1994},
		{MovieID: 527, TmdbID: 424, Title: "Schindler's List (1993)", Genres: []string{"Drama", "War"}, Year: 1993},
		{MovieID: 593, TmdbID: 274, Title: "The Silence of the Lambs (1991)", Genres: []string{"Crime", "Horror", "Thriller"}, Year: 1991},
		{MovieID: 608, TmdbID: 275, Title: "Fargo (1996)", Genres: []string{"Comedy", "Crime", "Drama", "Thriller"}, Year: 1996},
		{MovieID: 858, TmdbID: 238, Title: "The Godfather (1972)", Genres: []string{"Crime", "Drama"}, Year: 1972},
		{MovieID: 1196, TmdbID: 1891, Title: "Star Wars: Episode V - The Empire Strikes Back (1980)", Genres: []string{"Action", "Adventure", "Sci-Fi"}, Year: 1980},
		{MovieID: 2571, TmdbID: 603, Title: "The Matrix (1999)", Genres: []string{"Action", "Sci-Fi", "Thriller"}, Year: 1999},
		{MovieID: 2959, TmdbID: 550, Title: "Fight Club (1999)", Genres: []string{"Action", "Crime", "Drama", "Thriller"}, Year: 1999},
		{MovieID: 4993, TmdbID: 120, Title: "The Lord of the Rings: The Fellowship of the Ring (2001)", Genres: []string{"Adventure", "Fantasy"}, Year: 2001},
		{MovieID: 58559, TmdbID: 155, Title: "The Dark Knight (2008)", Genres: []string{"Action", "Crime", "Drama"}, Year: 2008},
		{MovieID: 79132, TmdbID: 27205, Title: "Inception (2010)", Genres: []string{"Action", "Crime", "Drama", "Mystery", "Sci-Fi", "Thriller"}, Year: 2010},
		{MovieID: 109487, TmdbID: 157336, Title: "Interstellar (2014)", Genres: []string{"Sci-Fi"}, Year: 2014},
		{MovieID: 134853, TmdbID: 150540, Title: "Inside Out (2015)", Genres: []string{"Adventure", "Animation", "Children", "Comedy", "Drama", "Fantasy"}, Year: 2015},
	}

	for _, m := range movies {
		if err := s.InsertMovie(ctx, m); err != nil {
			return err
		}
	}

	// A spread of users: established raters plus one cold-start user.
	ratings := map[int]map[int]float64{
		1: {318: 5.0, 858: 5.0, 296: 4.5, 2571: 4.5, 593: 4.0, 50: 4.5, 47: 4.0},
		2: {260: 5.0, 1196: 5.0, 2571: 4.5, 79132: 4.5, 109487: 4.0, 4993: 4.5},
		3: {1: 4.0, 134853: 4.5, 356: 4.0, 318: 4.5, 527: 5.0, 608: 3.5},
		4: {296: 5.0, 2959: 4.5, 58559: 5.0, 79132: 4.0, 318: 5.0, 858: 4.5, 50: 4.0},
		5: {318: 4.0, 356: 3.5},
	}

	for userID, userRatings := range ratings {
		if err := s.CreateUser(ctx, userID); err != nil {
			return err
		}
		for movieID, rating := range userRatings {
			if err := s.UpsertRating(ctx, userID, movieID, rating); err != nil {
				return err
			}
		}
	}

	return nil
}
