// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flixflow/internal/recommend"
)

func TestCollaborativeGetCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("got path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("top_n"); got != "2" {
			t.Errorf("got top_n %q", got)
		}
		fmt.Fprint(w, `{"predictions":[
			{"movie_id":10,"tmdb_id":100,"title":"First","genres":["Drama"],"score":4.7},
			{"movie_id":20,"title":"Second","genres":["Action"],"score":4.1}
		]}`)
	}))
	defer server.Close()

	src := NewCollaborative(testServiceConfig(server.URL), zerolog.Nop())

	got, err := src.GetCandidates(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("GetCandidates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].MovieID != 10 || got[0].RawScore != 4.7 {
		t.Errorf("got first candidate %+v", got[0])
	}
	if got[0].Source != recommend.SourceCollaborative {
		t.Errorf("got source %v", got[0].Source)
	}
	if got[0].TmdbID != 100 {
		t.Errorf("got tmdb id %d, want 100", got[0].TmdbID)
	}
}

func TestCollaborativeGetHero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("top_n"); got != "1" {
			t.Errorf("hero request should ask for one prediction, got top_n=%q", got)
		}
		fmt.Fprint(w, `{"predictions":[{"movie_id":10,"title":"Top","score":4.9}]}`)
	}))
	defer server.Close()

	src := NewCollaborative(testServiceConfig(server.URL), zerolog.Nop())

	hero, err := src.GetHero(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetHero: %v", err)
	}
	if hero == nil || hero.MovieID != 10 {
		t.Errorf("got hero %+v", hero)
	}
}

func TestCollaborativeEmptyPredictions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"predictions":[]}`)
	}))
	defer server.Close()

	src := NewCollaborative(testServiceConfig(server.URL), zerolog.Nop())

	got, err := src.GetCandidates(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("no data must not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}

	hero, err := src.GetHero(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetHero: %v", err)
	}
	if hero != nil {
		t.Errorf("got hero %+v, want nil", hero)
	}
}

func TestCollaborativeServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewCollaborative(testServiceConfig(server.URL), zerolog.Nop())

	if _, err := src.GetCandidates(context.Background(), 7, 10); err == nil {
		t.Fatal("expected error when the model service is down")
	}
}
