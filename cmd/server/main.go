// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

// Package main is the entry point for the Flixflow recommendation server.
//
// Flixflow serves hybrid movie recommendations over a REST API, blending
// three candidate sources:
//
//   - collaborative: an external matrix-factorization model service
//   - content: an external vector-similarity model service
//   - statistical: Bayesian weighted ratings over the local DuckDB catalog
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered defaults, YAML file, environment
//  2. Logging: zerolog, configured from the loaded settings
//  3. Store: DuckDB catalog (movies, users, ratings)
//  4. Sources: statistical ranking plus the two model service clients
//  5. Engine: strategy routing, fan-out, merge, rerank, assembly
//  6. HTTP server under a Suture supervision tree
//
// The model services are optional: with no URLs configured the engine
// degrades to statistical-only results and the API keeps serving.
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: stop accepting connections,
// drain in-flight requests, close the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/flixflow/internal/api"
	"github.com/tomtom215/flixflow/internal/config"
	"github.com/tomtom215/flixflow/internal/logging"
	"github.com/tomtom215/flixflow/internal/recommend"
	"github.com/tomtom215/flixflow/internal/sources"
	"github.com/tomtom215/flixflow/internal/store"
	"github.com/tomtom215/flixflow/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("database", cfg.Database.Path).
		Msg("starting flixflow")

	db, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("closing store failed")
		}
	}()

	meanCache := sources.NewMeanCache(db)
	statistical := sources.NewStatistical(db, meanCache, cfg.Recommend.MinVotes, logger)
	collaborative := sources.NewCollaborative(cfg.Sources.Collaborative, logger)
	content := sources.NewContent(cfg.Sources.Content, db, logger)

	engineCfg := &recommend.Config{
		Weights: recommend.RankingWeights{
			Collaborative: cfg.Recommend.WeightCollaborative,
			Content:       cfg.Recommend.WeightContent,
			Statistical:   cfg.Recommend.WeightStatistical,
		},
		ColdStartThreshold: cfg.Recommend.ColdStartThreshold,
		MinVotes:           cfg.Recommend.MinVotes,
		DiversityFactor:    cfg.Recommend.DiversityFactor,
		DefaultTopN:        cfg.Recommend.DefaultTopN,
		MaxTopN:            cfg.Recommend.MaxTopN,
		SourceTimeout:      cfg.Recommend.SourceTimeout,
	}

	engine, err := recommend.NewEngine(engineCfg, logger, db, collaborative, content, statistical)
	if err != nil {
		return fmt.Errorf("build recommendation engine: %w", err)
	}

	handler := api.NewHandler(engine, db, content, statistical, meanCache,
		cfg.API.DefaultPageSize, cfg.API.MaxPageSize)
	router := api.NewRouter(&cfg.API, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logger, supervisor.DefaultTreeConfig())
	tree.AddAPIService(supervisor.NewHTTPServerService(server, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		logger.Warn().Int("count", len(unstopped)).Msg("services did not stop within the shutdown timeout")
	}

	logger.Info().Msg("flixflow stopped")
	return nil
}
