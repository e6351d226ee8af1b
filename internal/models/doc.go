// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

// Package models defines the shared data structures exchanged between the
// HTTP API, the recommendation engine, and the storage layer: catalog
// records, request payloads, and the standardized response envelope.
package models
