// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Database.Path != "/data/upnext.duckdb" {
		t.Errorf("Database.Path = %q, want /data/upnext.duckdb", cfg.Database.Path)
	}
	if cfg.Server.Port != 3858 {
		t.Errorf("Server.Port = %d, want 3858", cfg.Server.Port)
	}
	if cfg.Scoring.BingeWeight != 40 || cfg.Scoring.RegularWeight != 25 || cfg.Scoring.CasualWeight != 10 {
		t.Errorf("unexpected pattern weights: %+v", cfg.Scoring)
	}
	if cfg.Scoring.OverrideScale != 4 {
		t.Errorf("Scoring.OverrideScale = %v, want 4", cfg.Scoring.OverrideScale)
	}
	if cfg.Feed.SessionGap != 24*time.Hour {
		t.Errorf("Feed.SessionGap = %v, want 24h", cfg.Feed.SessionGap)
	}
	if cfg.Feed.SessionLookback != 7*24*time.Hour {
		t.Errorf("Feed.SessionLookback = %v, want 168h", cfg.Feed.SessionLookback)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"DUCKDB_PATH", "database.path"},
		{"HTTP_PORT", "server.port"},
		{"METADATA_BASE_URL", "metadata.base_url"},
		{"SCORING_OVERRIDE_SCALE", "scoring.override_scale"},
		{"FEED_CACHE_TTL", "feed.cache_ttl"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte(`
server:
  port: 9000
scoring:
  binge_weight: 50
feed:
  max_concurrency: 2
`)
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("FEED_CACHE_TTL", "45s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100 (env beats file)", cfg.Server.Port)
	}
	if cfg.Scoring.BingeWeight != 50 {
		t.Errorf("Scoring.BingeWeight = %v, want 50 from file", cfg.Scoring.BingeWeight)
	}
	if cfg.Feed.MaxConcurrency != 2 {
		t.Errorf("Feed.MaxConcurrency = %d, want 2 from file", cfg.Feed.MaxConcurrency)
	}
	if cfg.Feed.CacheTTL != 45*time.Second {
		t.Errorf("Feed.CacheTTL = %v, want 45s", cfg.Feed.CacheTTL)
	}
	if cfg.Scoring.RegularWeight != 25 {
		t.Errorf("Scoring.RegularWeight = %v, want default 25", cfg.Scoring.RegularWeight)
	}
	if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[1] != "https://b.example" {
		t.Errorf("API.CORSOrigins = %v", cfg.API.CORSOrigins)
	}
}

func TestLoadWithKoanf_InvalidEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("METADATA_BASE_URL", "ftp://metadata.example")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for non-http metadata URL")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"page size inverted", func(c *Config) { c.API.MaxPageSize = 5; c.API.DefaultPageSize = 10 }, true},
		{"negative weight", func(c *Config) { c.Scoring.CasualWeight = -1 }, true},
		{"thresholds inverted", func(c *Config) { c.Scoring.MediumThreshold = 40 }, true},
		{"zero concurrency", func(c *Config) { c.Feed.MaxConcurrency = 0 }, true},
		{"rate limit disabled ignores zero reqs", func(c *Config) {
			c.API.RateLimitDisabled = true
			c.API.RateLimitReqs = 0
		}, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"https metadata", func(c *Config) { c.Metadata.BaseURL = "https://api.themoviedb.org/3" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
