// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

// Package watching orchestrates the continue-watching core. It reads the
// ledger, overrides and show metadata through interfaces, runs the pure
// progress pipeline per show, and owns the per-user feed cache.
package watching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/upnext/internal/cache"
	"github.com/tomtom215/upnext/internal/events"
	"github.com/tomtom215/upnext/internal/models"
	"github.com/tomtom215/upnext/internal/progress"
)

var (
	// ErrUnavailable marks a retryable failure of the store or another
	// collaborator. The engine does not retry.
	ErrUnavailable = errors.New("collaborator unavailable")

	// ErrNotFound is returned when a show has no watch history or a watch
	// event to remove does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed IDs or timestamps.
	ErrInvalidInput = errors.New("invalid input")
)

// Ledger is the watch event store.
type Ledger interface {
	AddWatchEvent(ctx context.Context, ev models.WatchEvent) (bool, error)
	RemoveWatchEvent(ctx context.Context, ev models.WatchEvent) error
	RemoveLatestEpisodeWatch(ctx context.Context, userID, showID string, season, episode int) (*models.WatchEvent, error)
	ListShowEvents(ctx context.Context, userID, showID string) ([]models.WatchEvent, error)
	ListUserEvents(ctx context.Context, userID string) ([]models.WatchEvent, error)
	ListUserEventsSince(ctx context.Context, userID string, since time.Time) ([]models.WatchEvent, error)
}

// OverrideStore holds per-show user preferences.
type OverrideStore interface {
	GetOverride(ctx context.Context, userID, showID string) (*models.ShowOverride, error)
	UpsertOverride(ctx context.Context, userID, showID string, patch models.OverridePatch) (*models.ShowOverride, error)
	ListOverrides(ctx context.Context, userID string) ([]models.ShowOverride, error)
}

// MetadataProvider returns show structure. metadata.ErrNotFound and any
// other error both degrade the item instead of failing it.
type MetadataProvider interface {
	ShowMetadata(ctx context.Context, showID string) (*models.ShowMetadata, error)
}

// Publisher announces ledger and override changes.
type Publisher interface {
	Publish(ctx context.Context, ev *events.ChangeEvent) error
}

// Config configures an Engine.
type Config struct {
	Params         progress.Params
	CacheTTL       time.Duration
	MaxConcurrency int

	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

// Engine computes continue-watching data for users.
type Engine struct {
	ledger    Ledger
	overrides OverrideStore
	meta      MetadataProvider
	publisher Publisher

	params         progress.Params
	maxConcurrency int
	now            func() time.Time

	// feedCache holds each user's unfiltered item set. Options are applied
	// on read, so one entry serves every feed query for the user.
	feedCache *cache.Cache[[]models.ContinueWatchingItem]
}

// NewEngine creates an engine. publisher may be nil.
func NewEngine(ledger Ledger, overrides OverrideStore, meta MetadataProvider, publisher Publisher, cfg Config) (*Engine, error) {
	if ledger == nil || overrides == nil || meta == nil {
		return nil, errors.New("ledger, override store and metadata provider are required")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring parameters: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Engine{
		ledger:         ledger,
		overrides:      overrides,
		meta:           meta,
		publisher:      publisher,
		params:         cfg.Params,
		maxConcurrency: concurrency,
		now:            now,
		feedCache:      cache.NewWithClock[[]models.ContinueWatchingItem](cfg.CacheTTL, cache.Clock(now)),
	}, nil
}

// InvalidateUser drops the cached feed for a user.
func (e *Engine) InvalidateUser(userID string) {
	e.feedCache.Delete(userID)
}

// CacheStats returns feed cache statistics.
func (e *Engine) CacheStats() cache.Stats {
	return e.feedCache.GetStats()
}

// CleanupCache drops expired feed cache entries.
func (e *Engine) CleanupCache() int {
	return e.feedCache.Cleanup()
}

// Params returns the scoring parameters in use.
func (e *Engine) Params() progress.Params {
	return e.params
}

const maxIDLength = 255

func validateIDs(ids ...string) error {
	for _, id := range ids {
		if id == "" || len(id) > maxIDLength {
			return fmt.Errorf("%w: id must be 1-%d characters", ErrInvalidInput, maxIDLength)
		}
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
