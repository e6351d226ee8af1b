// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

// Package recommend implements the ranking and orchestration engine that
// combines relevance signals from independent candidate sources into a single
// ranked, deduplicated, diversity-aware recommendation list.
//
// # Architecture
//
// The engine routes each request through a small state machine based on the
// requested strategy and the user's rating history, fans out to the selected
// candidate sources concurrently, and reconciles their heterogeneous scores:
//
//	Router -> CandidateSources (parallel) -> Normalize -> Merge -> Diversity -> Hero
//
// Candidate sources (collaborative filtering, content similarity, statistical
// ranking) are external collaborators behind the CandidateSource interface.
// All merge, rerank, and hero logic is pure computation over already-fetched
// data.
//
// # Score Reconciliation
//
// Each source produces raw scores on its own scale (predicted ratings,
// similarity sums, Bayesian weighted ratings). Scores are min-max normalized
// per source onto [0, 1] and combined as a weighted sum; a source that did not
// return a movie contributes zero for it. Ordering is fully deterministic:
// combined score descending, movie ID ascending on ties.
//
// # Partial Failures
//
// A failed or timed-out source degrades the request rather than aborting it:
// the remaining weights are rescaled pro-rata so they still sum to 1.0. Only
// when every invoked source fails does the engine return ErrAllSourcesFailed.
//
// This package has no dependencies on other internal packages. The
// UserRepository and CandidateSource interfaces allow integration with the
// storage and source layers without circular imports.
package recommend
