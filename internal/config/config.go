// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

// Package config defines the application configuration and loads it from
// layered sources (built-in defaults, optional YAML file, environment
// variables) using Koanf v2.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Sources   SourcesConfig   `koanf:"sources"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production"; it gates console
	// logging defaults and stricter validation.
	Environment string `koanf:"environment"`
}

// DatabaseConfig configures the embedded DuckDB catalog store.
type DatabaseConfig struct {
	// Path is the DuckDB file path; ":memory:" runs fully in memory.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB's memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads limits DuckDB worker threads; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedMockData loads a small demo catalog at startup.
	SeedMockData bool `koanf:"seed_mock_data"`
}

// RecommendConfig tunes the ranking engine. Mirrors recommend.Config; kept
// separate so the engine package does not depend on the config loader.
type RecommendConfig struct {
	WeightCollaborative float64       `koanf:"weight_collaborative"`
	WeightContent       float64       `koanf:"weight_content"`
	WeightStatistical   float64       `koanf:"weight_statistical"`
	ColdStartThreshold  int           `koanf:"cold_start_threshold"`
	MinVotes            int           `koanf:"min_votes"`
	DiversityFactor     float64       `koanf:"diversity_factor"`
	DefaultTopN         int           `koanf:"default_top_n"`
	MaxTopN             int           `koanf:"max_top_n"`
	SourceTimeout       time.Duration `koanf:"source_timeout"`
}

// SourcesConfig configures the external model services behind the
// collaborative and content candidate sources.
type SourcesConfig struct {
	Collaborative ModelServiceConfig `koanf:"collaborative"`
	Content       ModelServiceConfig `koanf:"content"`
}

// ModelServiceConfig is one upstream model service endpoint with its client
// protections.
type ModelServiceConfig struct {
	// URL is the service base URL. Empty disables the remote client; the
	// source then reports failures and the engine degrades gracefully.
	URL string `koanf:"url"`

	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond and Burst bound the outbound request rate.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// BreakerFailureThreshold consecutive failures trip the circuit
	// breaker; BreakerOpenTimeout is how long it stays open.
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerOpenTimeout      time.Duration `koanf:"breaker_open_timeout"`
}

// APIConfig configures API behavior and protections.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with production defaults. Defaults are
// applied first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:         "/data/flixflow.duckdb",
			MaxMemory:    "2GB",
			Threads:      0,
			SeedMockData: false,
		},
		Recommend: RecommendConfig{
			WeightCollaborative: 0.5,
			WeightContent:       0.3,
			WeightStatistical:   0.2,
			ColdStartThreshold:  5,
			MinVotes:            50,
			DiversityFactor:     0.3,
			DefaultTopN:         20,
			MaxTopN:             50,
			SourceTimeout:       3 * time.Second,
		},
		Sources: SourcesConfig{
			Collaborative: ModelServiceConfig{
				URL:                     "",
				Timeout:                 2 * time.Second,
				RequestsPerSecond:       50,
				Burst:                   100,
				BreakerFailureThreshold: 5,
				BreakerOpenTimeout:      30 * time.Second,
			},
			Content: ModelServiceConfig{
				URL:                     "",
				Timeout:                 2 * time.Second,
				RequestsPerSecond:       50,
				Burst:                   100,
				BreakerFailureThreshold: 5,
				BreakerOpenTimeout:      30 * time.Second,
			},
		},
		API: APIConfig{
			DefaultPageSize:   20,
			MaxPageSize:       100,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for errors. Called once at load so a bad
// deployment fails at startup, not on the first request.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("environment must be development or production, got %q", c.Server.Environment)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("invalid page sizes: default=%d max=%d", c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("rate limit requests must be positive, got %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("rate limit window must be positive, got %v", c.API.RateLimitWindow)
		}
	}
	// The engine revalidates its own parameters; weight-sum errors are
	// caught here first for a clearer startup message.
	sum := c.Recommend.WeightCollaborative + c.Recommend.WeightContent + c.Recommend.WeightStatistical
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("recommendation weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}
