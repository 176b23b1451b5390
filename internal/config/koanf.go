// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/upnext/config.yaml",
	"/etc/upnext/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/upnext.duckdb",
			MaxMemory: "512MB",
			Threads:   0,
		},
		Server: ServerConfig{
			Port:            3858,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Metadata: MetadataConfig{
			BaseURL:           "",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 4,
			Burst:             8,
			MaxRetries:        3,
			CacheTTL:          6 * time.Hour,
			BadgerPath:        "",
			BadgerTTL:         72 * time.Hour,
		},
		Scoring: ScoringConfig{
			BingeWeight:     40,
			RegularWeight:   25,
			CasualWeight:    10,
			InactiveWeight:  0,
			DecayPerDay:     1,
			OverrideScale:   4,
			HighThreshold:   30,
			MediumThreshold: 15,
		},
		Feed: FeedConfig{
			CacheTTL:        2 * time.Minute,
			MaxConcurrency:  8,
			SessionGap:      24 * time.Hour,
			SessionLookback: 7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults from defaultConfig
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"rate_limit_reqs":       "api.rate_limit_reqs",
	"rate_limit_window":     "api.rate_limit_window",
	"disable_rate_limit":    "api.rate_limit_disabled",
	"cors_origins":          "api.cors_origins",

	"metadata_base_url":            "metadata.base_url",
	"metadata_api_key":             "metadata.api_key",
	"metadata_timeout":             "metadata.timeout",
	"metadata_requests_per_second": "metadata.requests_per_second",
	"metadata_burst":               "metadata.burst",
	"metadata_max_retries":         "metadata.max_retries",
	"metadata_cache_ttl":           "metadata.cache_ttl",
	"metadata_badger_path":         "metadata.badger_path",
	"metadata_badger_ttl":          "metadata.badger_ttl",

	"scoring_binge_weight":     "scoring.binge_weight",
	"scoring_regular_weight":   "scoring.regular_weight",
	"scoring_casual_weight":    "scoring.casual_weight",
	"scoring_inactive_weight":  "scoring.inactive_weight",
	"scoring_decay_per_day":    "scoring.decay_per_day",
	"scoring_override_scale":   "scoring.override_scale",
	"scoring_high_threshold":   "scoring.high_threshold",
	"scoring_medium_threshold": "scoring.medium_threshold",

	"feed_cache_ttl":        "feed.cache_ttl",
	"feed_max_concurrency":  "feed.max_concurrency",
	"feed_session_gap":      "feed.session_gap",
	"feed_session_lookback": "feed.session_lookback",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
//
//   - DUCKDB_PATH -> database.path
//   - METADATA_BASE_URL -> metadata.base_url
//   - FEED_CACHE_TTL -> feed.cache_ttl
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
