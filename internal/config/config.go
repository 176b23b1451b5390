// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

// Package config loads UpNext configuration from built-in defaults, an
// optional YAML file, and environment variables, in that order of priority.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//
// Config is immutable after Load and safe for concurrent reads.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Metadata MetadataConfig `koanf:"metadata"`
	Scoring  ScoringConfig  `koanf:"scoring"`
	Feed     FeedConfig     `koanf:"feed"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings for the watch ledger and override store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use NumCPU
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig holds pagination, CORS and inbound rate limiting settings.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// MetadataConfig holds settings for the TV metadata provider.
//
// An empty BaseURL disables remote lookups; every show is then computed
// without season/episode counts and flagged metadata_incomplete.
type MetadataConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	BadgerPath        string        `koanf:"badger_path"` // empty = no persistent cache
	BadgerTTL         time.Duration `koanf:"badger_ttl"`
}

// ScoringConfig holds the priority score parameters.
type ScoringConfig struct {
	BingeWeight     float64 `koanf:"binge_weight"`
	RegularWeight   float64 `koanf:"regular_weight"`
	CasualWeight    float64 `koanf:"casual_weight"`
	InactiveWeight  float64 `koanf:"inactive_weight"`
	DecayPerDay     float64 `koanf:"decay_per_day"`
	OverrideScale   float64 `koanf:"override_scale"`
	HighThreshold   float64 `koanf:"high_threshold"`
	MediumThreshold float64 `koanf:"medium_threshold"`
}

// FeedConfig holds feed assembly and session detection settings.
type FeedConfig struct {
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	MaxConcurrency  int           `koanf:"max_concurrency"`
	SessionGap      time.Duration `koanf:"session_gap"`
	SessionLookback time.Duration `koanf:"session_lookback"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
