// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import (
	"context"
	"fmt"
)

// State is a terminal routing state for one request. It determines which
// candidate sources are invoked and how the result is assembled.
type State int

const (
	// StateColdStart routes a low-history user to population statistics.
	StateColdStart State = iota
	// StateCollaborativeOnly serves predictions from the factorization
	// model only.
	StateCollaborativeOnly
	// StateContentOnly serves content-similarity neighbors only.
	StateContentOnly
	// StateStatisticalOnly serves the Bayesian trending ranking only.
	StateStatisticalOnly
	// StateHybrid blends all three sources into one weighted ranking.
	StateHybrid
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateColdStart:
		return "cold_start"
	case StateCollaborativeOnly:
		return "collaborative_only"
	case StateContentOnly:
		return "content_only"
	case StateStatisticalOnly:
		return "statistical_only"
	case StateHybrid:
		return "hybrid"
	}
	return "unknown"
}

// StrategyName returns the strategy label reported to clients for this
// state. Cold start reports "statistical" because that is the path actually
// executed.
func (s State) StrategyName() string {
	switch s {
	case StateColdStart, StateStatisticalOnly:
		return "statistical"
	case StateCollaborativeOnly:
		return "collaborative"
	case StateContentOnly:
		return "content"
	default:
		return "hybrid"
	}
}

// RouteStrategy selects the terminal state for a request.
//
// A cold-start user is forced to StateColdStart regardless of the requested
// strategy: a user with no history cannot receive personalized signals, so
// cold start overrides client intent. Otherwise the requested string is
// matched against the enumerated strategies; any other value, including the
// literal "hybrid" and unrecognized strings, routes to StateHybrid. The
// silent fold to hybrid is long-standing documented behavior, not an
// accident; it is deliberately not a validation error.
func RouteStrategy(requested string, isNewUser bool) State {
	if isNewUser {
		return StateColdStart
	}

	switch requested {
	case "collaborative":
		return StateCollaborativeOnly
	case "content":
		return StateContentOnly
	case "statistical":
		return StateStatisticalOnly
	default:
		return StateHybrid
	}
}

// ClassifyUser determines the user's cold-start status from their rating
// count. A missing user propagates ErrUserNotFound to the caller; it is not
// recovered here.
func ClassifyUser(ctx context.Context, users UserRepository, userID, coldStartThreshold int) (UserContext, error) {
	count, err := users.RatingCount(ctx, userID)
	if err != nil {
		return UserContext{}, fmt.Errorf("rating count for user %d: %w", userID, err)
	}

	return UserContext{
		UserID:      userID,
		RatingCount: count,
		IsNewUser:   count < coldStartThreshold,
	}, nil
}
