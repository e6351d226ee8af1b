// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import (
	"context"
	"errors"
	"time"
)

// Source identifies which candidate engine produced a score.
type Source int

const (
	// SourceCollaborative is the matrix-factorization engine scored by
	// predicted rating (0.5-5.0).
	SourceCollaborative Source = iota
	// SourceContent is the vector-similarity engine scored by an aggregated
	// similarity/frequency score.
	SourceContent
	// SourceStatistical is the Bayesian weighted-rating engine.
	SourceStatistical
)

// String returns the wire name for the source.
func (s Source) String() string {
	switch s {
	case SourceCollaborative:
		return "collaborative"
	case SourceContent:
		return "content"
	case SourceStatistical:
		return "statistical"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so sources serialize as
// their wire names in JSON.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ScoredCandidate is one movie as scored by exactly one candidate source.
// RawScore is on the source's native scale and must be normalized before
// scores from different sources can be compared.
type ScoredCandidate struct {
	// MovieID is the unique movie identifier.
	MovieID int `json:"movie_id"`

	// TmdbID is the TMDB identifier, zero when unknown.
	TmdbID int `json:"tmdb_id,omitempty"`

	// Title is the display title.
	Title string `json:"title"`

	// Genres is the movie's genre set.
	Genres []string `json:"genres"`

	// RawScore is the source-native score (predicted rating, similarity
	// sum, or weighted rating depending on Source).
	RawScore float64 `json:"raw_score"`

	// Source identifies the engine that produced this candidate.
	Source Source `json:"source"`

	// VoteCount is the number of ratings backing AvgRating, when known.
	VoteCount int `json:"vote_count,omitempty"`

	// AvgRating is the mean user rating, when known.
	AvgRating float64 `json:"avg_rating,omitempty"`
}

// CombinedCandidate is one movie after cross-source merging. Exactly one
// entry exists per distinct movie ID in a merged ranking.
type CombinedCandidate struct {
	MovieID int      `json:"movie_id"`
	TmdbID  int      `json:"tmdb_id,omitempty"`
	Title   string   `json:"title"`
	Genres  []string `json:"genres"`

	// Score is the weighted sum of per-source normalized scores.
	Score float64 `json:"score"`

	// Sources lists the engines that contributed to Score, in fixed
	// collaborative, content, statistical order.
	Sources []Source `json:"sources,omitempty"`
}

// Hero is the single top-ranked movie surfaced prominently, with a
// normalized confidence value in [0, 1].
type Hero struct {
	CombinedCandidate
	Confidence float64 `json:"confidence"`
}

// Section is one ordered block of recommendations in a response. Sections
// are never deduplicated against each other; a movie may legitimately appear
// in more than one section.
type Section struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	SourceTag   string              `json:"source"`
	Movies      []CombinedCandidate `json:"movies"`
}

// UserContext is the classifier output for one request.
type UserContext struct {
	UserID      int  `json:"user_id"`
	RatingCount int  `json:"rating_count"`
	IsNewUser   bool `json:"is_new_user"`
}

// Request is one recommendation request.
type Request struct {
	// UserID is the user to generate recommendations for.
	UserID int `json:"user_id"`

	// Strategy is the requested routing strategy. Anything outside
	// {collaborative, content, statistical} folds to hybrid.
	Strategy string `json:"strategy,omitempty"`

	// TopN is the number of recommendations per section.
	// Defaults to Config.DefaultTopN if zero, capped at Config.MaxTopN.
	TopN int `json:"top_n,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Result is the assembled recommendation response.
type Result struct {
	// Strategy is the strategy actually executed, which may differ from
	// the requested one for cold-start users.
	Strategy string `json:"strategy"`

	// IsNewUser reports whether the user was classified as cold start.
	IsNewUser bool `json:"is_new_user"`

	// Hero is the single top pick, absent when no source produced
	// candidates.
	Hero *Hero `json:"hero"`

	// Sections is the ordered list of recommendation sections.
	Sections []Section `json:"sections"`

	// Meta carries timing and degradation diagnostics.
	Meta ResultMeta `json:"metadata"`
}

// ResultMeta contains timing and diagnostic information for a result.
type ResultMeta struct {
	RequestID string `json:"request_id"`
	UserID    int    `json:"user_id"`

	// FailedSources lists sources that errored or timed out; the result
	// was computed from the remaining ones.
	FailedSources []string `json:"failed_sources,omitempty"`

	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// CandidateSource is the contract implemented by each external scoring
// engine. Implementations must return an empty list, not an error, when no
// data is available for the user, and should honor the caller's deadline.
type CandidateSource interface {
	// Name returns the source identifier.
	Name() Source

	// GetCandidates returns up to topN scored candidates for the user.
	GetCandidates(ctx context.Context, userID, topN int) ([]ScoredCandidate, error)

	// GetHero returns the single best candidate, or nil when none exists.
	GetHero(ctx context.Context, userID int) (*ScoredCandidate, error)
}

// UserRepository provides the user signals the router needs.
type UserRepository interface {
	// RatingCount returns how many ratings the user has submitted.
	// Returns ErrUserNotFound for unknown users.
	RatingCount(ctx context.Context, userID int) (int, error)

	// LikedMovies returns IDs of movies the user rated at or above
	// minRating.
	LikedMovies(ctx context.Context, userID int, minRating float64) ([]int, error)

	// Exists reports whether the user is known.
	Exists(ctx context.Context, userID int) (bool, error)
}

// Sentinel errors surfaced by the engine and its collaborators.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAllSourcesFailed indicates every invoked candidate source errored
	// or timed out, so no ranking could be produced.
	ErrAllSourcesFailed = errors.New("all candidate sources failed")
)
