// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package models

import "time"

// Movie is one catalog record with its aggregated rating statistics.
type Movie struct {
	MovieID   int      `json:"movie_id"`
	TmdbID    int      `json:"tmdb_id,omitempty"`
	Title     string   `json:"title"`
	Genres    []string `json:"genres"`
	Year      int      `json:"year,omitempty"`
	Overview  string   `json:"overview,omitempty"`
	VoteCount int      `json:"vote_count"`
	AvgRating float64  `json:"avg_rating"`
}

// Rating is one user's rating of one movie on the 0.5-5.0 scale.
type Rating struct {
	UserID  int       `json:"user_id"`
	MovieID int       `json:"movie_id"`
	Rating  float64   `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// User is one registered user with their rating activity summary.
type User struct {
	UserID      int       `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	RatingCount int       `json:"rating_count"`
}

// RateRequest is the payload for submitting or updating a rating. Ratings
// use the half-star 0.5-5.0 scale.
type RateRequest struct {
	UserID  int     `json:"user_id" validate:"required,gt=0"`
	MovieID int     `json:"movie_id" validate:"required,gt=0"`
	Rating  float64 `json:"rating" validate:"required,gte=0.5,lte=5"`
}

// SeedRating is one movie rating inside an onboarding payload.
type SeedRating struct {
	MovieID int     `json:"movie_id" validate:"required,gt=0"`
	Rating  float64 `json:"rating" validate:"required,gte=0.5,lte=5"`
}

// OnboardRequest registers a new user with an initial batch of ratings so
// they can exit the cold-start path sooner.
type OnboardRequest struct {
	UserID  int          `json:"user_id" validate:"required,gt=0"`
	Ratings []SeedRating `json:"ratings" validate:"dive"`
}
