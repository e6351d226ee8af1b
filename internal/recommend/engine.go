// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flixflow/internal/metrics"
)

// Engine orchestrates the full recommendation flow: classify the user, route
// the strategy, fan out to the candidate sources, merge, rerank, and assemble
// the response. An Engine is safe for concurrent use once constructed.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger
	users  UserRepository

	collab  CandidateSource
	content CandidateSource
	stats   CandidateSource
}

// NewEngine builds an engine from a validated configuration and its
// collaborators. A nil config uses DefaultConfig.
func NewEngine(cfg *Config, logger zerolog.Logger, users UserRepository, collab, content, stats CandidateSource) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if collab == nil || content == nil || stats == nil {
		return nil, fmt.Errorf("all three candidate sources are required")
	}

	return &Engine{
		cfg:     cfg.Clone(),
		logger:  logger.With().Str("component", "recommend_engine").Logger(),
		users:   users,
		collab:  collab,
		content: content,
		stats:   stats,
	}, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// sourceResult is one source's outcome from the concurrent fan-out.
type sourceResult struct {
	source     Source
	candidates []ScoredCandidate
	err        error
}

// Recommend runs one recommendation request end to end.
//
// Unknown users return ErrUserNotFound. Individual source failures degrade
// the result (recorded in Meta.FailedSources) rather than failing the
// request; only when every invoked source fails is ErrAllSourcesFailed
// returned.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	topN := req.TopN
	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}
	if topN > e.cfg.MaxTopN {
		topN = e.cfg.MaxTopN
	}

	userCtx, err := ClassifyUser(ctx, e.users, req.UserID, e.cfg.ColdStartThreshold)
	if err != nil {
		return nil, err
	}

	state := RouteStrategy(req.Strategy, userCtx.IsNewUser)

	e.logger.Debug().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Str("requested_strategy", req.Strategy).
		Stringer("state", state).
		Int("rating_count", userCtx.RatingCount).
		Int("top_n", topN).
		Msg("routing recommendation request")

	sources := e.sourcesFor(state)
	results := e.fanOut(ctx, sources, req.UserID, topN)

	var failed []string
	succeeded := make(map[Source][]ScoredCandidate, len(results))
	for _, r := range results {
		if r.err != nil {
			failed = append(failed, r.source.String())
			e.logger.Warn().
				Str("request_id", req.RequestID).
				Stringer("source", r.source).
				Err(r.err).
				Msg("candidate source failed")
			continue
		}
		succeeded[r.source] = r.candidates
	}

	if len(succeeded) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrAllSourcesFailed, failed)
	}

	result := e.assemble(state, userCtx, succeeded, topN)
	result.Meta = ResultMeta{
		RequestID:     req.RequestID,
		UserID:        req.UserID,
		FailedSources: failed,
		LatencyMS:     time.Since(start).Milliseconds(),
		Timestamp:     time.Now().UTC(),
	}

	metrics.RecordRecommendation(result.Strategy, time.Since(start), failed)

	e.logger.Info().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Str("strategy", result.Strategy).
		Int("sections", len(result.Sections)).
		Strs("failed_sources", failed).
		Int64("latency_ms", result.Meta.LatencyMS).
		Msg("recommendation served")

	return result, nil
}

// sourcesFor returns the candidate sources a state invokes, in fixed
// collaborative, content, statistical order.
func (e *Engine) sourcesFor(state State) []CandidateSource {
	switch state {
	case StateColdStart, StateStatisticalOnly:
		return []CandidateSource{e.stats}
	case StateCollaborativeOnly:
		return []CandidateSource{e.collab}
	case StateContentOnly:
		return []CandidateSource{e.content}
	default:
		return []CandidateSource{e.collab, e.content, e.stats}
	}
}

// fanOut queries all sources concurrently, bounding each call with the
// configured per-source timeout so one slow source cannot hold the request.
func (e *Engine) fanOut(ctx context.Context, sources []CandidateSource, userID, topN int) []sourceResult {
	results := make([]sourceResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src CandidateSource) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, e.cfg.SourceTimeout)
			defer cancel()

			callStart := time.Now()
			candidates, err := src.GetCandidates(callCtx, userID, topN)
			metrics.RecordSourceLatency(src.Name().String(), time.Since(callStart))
			results[i] = sourceResult{source: src.Name(), candidates: candidates, err: err}
		}(i, src)
	}
	wg.Wait()

	return results
}

// assemble builds the final sections and hero from the surviving source
// results according to the routed state.
func (e *Engine) assemble(state State, userCtx UserContext, succeeded map[Source][]ScoredCandidate, topN int) *Result {
	result := &Result{
		Strategy:  state.StrategyName(),
		IsNewUser: userCtx.IsNewUser,
	}

	switch state {
	case StateColdStart:
		stats := succeeded[SourceStatistical]
		result.Hero = SelectHero(stats)
		result.Sections = []Section{{
			Title:       "Trending & Highly Rated",
			Description: "Popular movies with excellent ratings",
			SourceTag:   SourceStatistical.String(),
			Movies:      truncate(FromSource(stats), topN),
		}}

	case StateCollaborativeOnly:
		collab := succeeded[SourceCollaborative]
		result.Hero = SelectHero(collab)
		result.Sections = []Section{{
			Title:       "Personalized Picks",
			Description: "Based on your rating history",
			SourceTag:   SourceCollaborative.String(),
			Movies:      truncate(FromSource(collab), topN),
		}}

	case StateContentOnly:
		content := succeeded[SourceContent]
		result.Hero = SelectHero(content)
		result.Sections = []Section{{
			Title:       "Similar to Movies You Loved",
			Description: "Based on content similarity",
			SourceTag:   SourceContent.String(),
			Movies:      truncate(FromSource(content), topN),
		}}

	case StateStatisticalOnly:
		stats := succeeded[SourceStatistical]
		result.Hero = SelectHero(stats)
		result.Sections = []Section{{
			Title:       "Top Rated Movies",
			Description: "Highest quality by statistical significance",
			SourceTag:   SourceStatistical.String(),
			Movies:      truncate(FromSource(stats), topN),
		}}

	default:
		result.Sections, result.Hero = e.assembleHybrid(succeeded, topN)
	}

	return result
}

// assembleHybrid builds the blended hybrid response: a weighted merged
// ranking reranked for genre diversity, followed by the surviving per-source
// sections. The hero comes from the collaborative list when it survived,
// falling back to the top of the merged ranking otherwise.
func (e *Engine) assembleHybrid(succeeded map[Source][]ScoredCandidate, topN int) ([]Section, *Hero) {
	available := make(map[Source]bool, len(succeeded))
	for s := range succeeded {
		available[s] = true
	}
	weights := e.cfg.Weights.Rescale(available)

	merged := MergeAndRank(
		succeeded[SourceCollaborative],
		succeeded[SourceContent],
		succeeded[SourceStatistical],
		weights,
	)
	merged = RerankDiversity(merged, e.cfg.DiversityFactor)

	sections := []Section{{
		Title:       "Personalized for You",
		Description: "A blend of everything we know about your taste",
		SourceTag:   "hybrid",
		Movies:      truncate(merged, topN),
	}}

	if content, ok := succeeded[SourceContent]; ok && len(content) > 0 {
		sections = append(sections, Section{
			Title:       "Similar to Your Favorites",
			Description: "Based on content similarity",
			SourceTag:   SourceContent.String(),
			Movies:      truncate(FromSource(content), topN),
		})
	}
	if stats, ok := succeeded[SourceStatistical]; ok && len(stats) > 0 {
		sections = append(sections, Section{
			Title:       "Trending Now",
			Description: "Popular movies with excellent ratings",
			SourceTag:   SourceStatistical.String(),
			Movies:      truncate(FromSource(stats), topN),
		})
	}

	var hero *Hero
	if collab, ok := succeeded[SourceCollaborative]; ok && len(collab) > 0 {
		hero = SelectHero(collab)
	} else if len(merged) > 0 {
		top := merged[0]
		confidence := top.Score
		if confidence > 1.0 {
			confidence = 1.0
		}
		hero = &Hero{CombinedCandidate: top, Confidence: confidence}
	}

	return sections, hero
}

// truncate caps a candidate list at n entries.
func truncate(items []CombinedCandidate, n int) []CombinedCandidate {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
