// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/upnext/internal/api"
	"github.com/tomtom215/upnext/internal/config"
	"github.com/tomtom215/upnext/internal/logging"
	"github.com/tomtom215/upnext/internal/metadata"
	"github.com/tomtom215/upnext/internal/models"
	"github.com/tomtom215/upnext/internal/progress"
	"github.com/tomtom215/upnext/internal/supervisor/services"
	"github.com/tomtom215/upnext/internal/watching"
)

// scoringParams maps the scoring and feed sections onto progress.Params.
// Zero session durations keep the built-in defaults.
func scoringParams(cfg *config.Config) progress.Params {
	p := progress.DefaultParams()
	p.PatternWeights = map[models.WatchingPattern]float64{
		models.PatternBinge:    cfg.Scoring.BingeWeight,
		models.PatternRegular:  cfg.Scoring.RegularWeight,
		models.PatternCasual:   cfg.Scoring.CasualWeight,
		models.PatternInactive: cfg.Scoring.InactiveWeight,
	}
	p.DecayPerDay = cfg.Scoring.DecayPerDay
	p.OverrideScale = cfg.Scoring.OverrideScale
	p.HighThreshold = cfg.Scoring.HighThreshold
	p.MediumThreshold = cfg.Scoring.MediumThreshold

	if cfg.Feed.SessionGap > 0 {
		p.SessionGap = cfg.Feed.SessionGap
	}
	if cfg.Feed.SessionLookback > 0 {
		p.SessionLookback = cfg.Feed.SessionLookback
	}
	return p
}

// chiMiddlewareConfig builds the router middleware settings from the api section.
func chiMiddlewareConfig(cfg *config.APIConfig) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.CORSOrigins
	mw.RateLimitRequests = cfg.RateLimitReqs
	mw.RateLimitWindow = cfg.RateLimitWindow
	mw.RateLimitDisabled = cfg.RateLimitDisabled
	return mw
}

// metadataComponents owns the layered metadata provider and its optional
// badger store.
type metadataComponents struct {
	provider *metadata.CachedProvider
	store    *metadata.BadgerStore
}

// initMetadata layers memory cache → badger → circuit breaker → HTTP client.
// Without a base URL every lookup answers ErrNotFound and items are marked
// metadata_incomplete.
func initMetadata(cfg *config.MetadataConfig) (*metadataComponents, error) {
	var upstream metadata.Provider
	if cfg.BaseURL == "" {
		logging.Warn().Msg("Metadata provider not configured (METADATA_BASE_URL empty); season and episode counts unavailable")
		upstream = metadata.ProviderFunc(func(context.Context, string) (*models.ShowMetadata, error) {
			return nil, metadata.ErrNotFound
		})
	} else {
		upstream = metadata.NewBreakerProvider(metadata.NewClient(cfg), metadata.DefaultBreakerSettings())
		logging.Info().
			Str("base_url", cfg.BaseURL).
			Float64("requests_per_second", cfg.RequestsPerSecond).
			Msg("Metadata provider configured")
	}

	c := &metadataComponents{}

	// A nil *BadgerStore must not reach the provider as a non-nil interface.
	var store metadata.Store
	if cfg.BadgerPath != "" {
		s, err := metadata.OpenBadgerStore(cfg.BadgerPath, cfg.BadgerTTL)
		if err != nil {
			return nil, fmt.Errorf("open metadata store: %w", err)
		}
		c.store = s
		store = s
		logging.Info().Str("path", cfg.BadgerPath).Dur("ttl", cfg.BadgerTTL).Msg("Persistent metadata cache enabled")
	}

	c.provider = metadata.NewCachedProvider(upstream, store, cfg.CacheTTL)
	return c, nil
}

// Close closes the badger store if one was opened.
func (c *metadataComponents) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// maintenanceTasks returns the periodic housekeeping jobs.
func maintenanceTasks(engine *watching.Engine, meta *metadataComponents) []services.MaintenanceTask {
	tasks := []services.MaintenanceTask{
		{
			Name: "feed-cache-cleanup",
			Run: func(context.Context) error {
				if n := engine.CleanupCache(); n > 0 {
					logging.Debug().Int("removed", n).Msg("Expired feed cache entries removed")
				}
				return nil
			},
		},
		{
			Name: "metadata-cache-cleanup",
			Run: func(context.Context) error {
				if n := meta.provider.Cleanup(); n > 0 {
					logging.Debug().Int("removed", n).Msg("Expired metadata cache entries removed")
				}
				return nil
			},
		},
	}
	if meta.store != nil {
		tasks = append(tasks, services.MaintenanceTask{
			Name: "metadata-store-gc",
			Run:  func(context.Context) error { return meta.store.RunGC() },
		})
	}
	return tasks
}
