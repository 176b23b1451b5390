// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if !c.API.RateLimitDisabled && (c.API.RateLimitReqs < 1 || c.API.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQS and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateMetadata() error {
	m := c.Metadata
	if m.BaseURL != "" {
		u, err := url.Parse(m.BaseURL)
		if err != nil {
			return fmt.Errorf("METADATA_BASE_URL is invalid: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("METADATA_BASE_URL must use http or https, got %q", u.Scheme)
		}
	}
	if m.RequestsPerSecond <= 0 {
		return fmt.Errorf("METADATA_REQUESTS_PER_SECOND must be positive, got %v", m.RequestsPerSecond)
	}
	if m.Burst < 1 {
		return fmt.Errorf("METADATA_BURST must be at least 1, got %d", m.Burst)
	}
	if m.MaxRetries < 0 {
		return fmt.Errorf("METADATA_MAX_RETRIES must be >= 0, got %d", m.MaxRetries)
	}
	if m.CacheTTL <= 0 {
		return fmt.Errorf("METADATA_CACHE_TTL must be positive, got %v", m.CacheTTL)
	}
	return nil
}

func (c *Config) validateScoring() error {
	s := c.Scoring
	for name, w := range map[string]float64{
		"binge_weight":    s.BingeWeight,
		"regular_weight":  s.RegularWeight,
		"casual_weight":   s.CasualWeight,
		"inactive_weight": s.InactiveWeight,
		"decay_per_day":   s.DecayPerDay,
		"override_scale":  s.OverrideScale,
	} {
		if w < 0 {
			return fmt.Errorf("scoring.%s must be >= 0, got %v", name, w)
		}
	}
	if s.MediumThreshold > s.HighThreshold {
		return fmt.Errorf("scoring.medium_threshold (%v) must not exceed scoring.high_threshold (%v)",
			s.MediumThreshold, s.HighThreshold)
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.MaxConcurrency < 1 {
		return fmt.Errorf("FEED_MAX_CONCURRENCY must be at least 1, got %d", c.Feed.MaxConcurrency)
	}
	if c.Feed.CacheTTL < 0 {
		return fmt.Errorf("FEED_CACHE_TTL must be >= 0, got %v", c.Feed.CacheTTL)
	}
	if c.Feed.SessionGap <= 0 || c.Feed.SessionLookback <= 0 {
		return fmt.Errorf("FEED_SESSION_GAP and FEED_SESSION_LOOKBACK must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
