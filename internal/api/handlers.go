// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package api

import (
	"context"
	"time"

	"github.com/tomtom215/upnext/internal/config"
	"github.com/tomtom215/upnext/internal/middleware"
	"github.com/tomtom215/upnext/internal/models"
	"github.com/tomtom215/upnext/internal/progress"
)

// Service is the continue-watching engine as seen by the handlers.
// *watching.Engine implements it.
type Service interface {
	Feed(ctx context.Context, userID string, opts progress.FeedOptions) (*models.ContinueWatchingFeed, bool, error)
	Progress(ctx context.Context, userID, showID string) (*models.ContinueWatchingItem, error)
	Sessions(ctx context.Context, userID, showID string, lookback time.Duration) ([]models.BingeSession, error)
	UserSessions(ctx context.Context, userID string, lookback time.Duration) (*models.SessionSummary, error)
	MarkWatched(ctx context.Context, userID, showID string, req models.WatchRequest) (*models.WatchEvent, bool, error)
	UnmarkWatched(ctx context.Context, userID, showID string, req models.WatchRequest) (*models.WatchEvent, error)
	GetOverride(ctx context.Context, userID, showID string) (*models.ShowOverride, error)
	UpdateOverride(ctx context.Context, userID, showID string, patch models.OverridePatch) (*models.ShowOverride, error)
	ListOverrides(ctx context.Context, userID string) ([]models.ShowOverride, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response, error and parameter helpers
//   - handlers_watching.go: continue-watching, session, watch and override endpoints
//   - handlers_health.go: health and probe endpoints
type Handler struct {
	service   Service
	db        Pinger
	config    config.APIConfig
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
}

// NewHandler creates a handler. db may be nil, in which case readiness only
// reflects that the process is up.
func NewHandler(service Service, db Pinger, cfg config.APIConfig) *Handler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}

	return &Handler{
		service:   service,
		db:        db,
		config:    cfg,
		perfMon:   middleware.NewPerformanceMonitor(1000),
		startTime: time.Now(),
	}
}

// GetPerformanceStats returns per-route latency statistics.
func (h *Handler) GetPerformanceStats() []middleware.EndpointStats {
	return h.perfMon.GetStats()
}
