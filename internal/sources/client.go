// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

// Package sources implements the three recommend.CandidateSource engines:
// the statistical ranking over the local DuckDB catalog, and HTTP clients
// for the external collaborative-filtering and content-similarity model
// services. The remote clients share one protected REST client with a
// circuit breaker and an outbound rate limit.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/flixflow/internal/config"
	"github.com/tomtom215/flixflow/internal/metrics"
)

// ErrSourceDisabled indicates the source has no service URL configured. The
// engine treats it like any other source failure and degrades.
var ErrSourceDisabled = errors.New("source disabled: no service url configured")

// maxResponseBytes caps model service response bodies.
const maxResponseBytes = 4 << 20

// restClient is a model service HTTP client protected by a client-side rate
// limiter and a circuit breaker. Safe for concurrent use.
type restClient struct {
	name    string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// newRESTClient builds a protected client from one model service config. A
// client with an empty URL is valid but every call returns
// ErrSourceDisabled.
func newRESTClient(name string, cfg config.ModelServiceConfig, logger zerolog.Logger) *restClient {
	settings := gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		Timeout: cfg.BreakerOpenTimeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String(), breakerStateValue(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}

	return &restClient{
		name:    name,
		baseURL: cfg.URL,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger.With().Str("client", name).Logger(),
	}
}

// breakerStateValue maps a breaker state to the gauge scale.
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// enabled reports whether a service URL is configured.
func (c *restClient) enabled() bool {
	return c.baseURL != ""
}

// getJSON performs a rate-limited, breaker-protected GET and decodes the
// JSON response into out.
func (c *restClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if !c.enabled() {
		return fmt.Errorf("%s: %w", c.name, ErrSourceDisabled)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", c.name, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doGet(ctx, path, query)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

// doGet executes one HTTP GET inside the breaker.
func (c *restClient) doGet(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// wireMovie is one scored movie as returned by the model services.
type wireMovie struct {
	MovieID int      `json:"movie_id"`
	TmdbID  int      `json:"tmdb_id"`
	Title   string   `json:"title"`
	Genres  []string `json:"genres"`
	Score   float64  `json:"score"`
}
