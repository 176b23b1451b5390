// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package watching

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/tomtom215/upnext/internal/logging"
	"github.com/tomtom215/upnext/internal/metadata"
	"github.com/tomtom215/upnext/internal/metrics"
	"github.com/tomtom215/upnext/internal/models"
	"github.com/tomtom215/upnext/internal/progress"
)

// Feed returns the user's continue-watching feed. The second return value
// reports whether the item set came from the feed cache.
func (e *Engine) Feed(ctx context.Context, userID string, opts progress.FeedOptions) (*models.ContinueWatchingFeed, bool, error) {
	if err := validateIDs(userID); err != nil {
		return nil, false, err
	}

	items, cached := e.feedCache.Get(userID)
	metrics.RecordFeedCache(cached)

	if !cached {
		// Read before the build so a write that lands mid-build keeps its
		// invalidation.
		version := e.feedCache.Version(userID)
		start := time.Now()
		built, degraded, err := e.userItems(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		metrics.RecordFeedBuild(time.Since(start))
		recordCategories(built)

		// A degraded set is served once and rebuilt on the next read.
		if !degraded && !e.feedCache.SetIfVersion(userID, built, version) {
			logging.Ctx(ctx).Debug().Str("user_id", userID).Msg("Feed invalidated during build, not cached")
		}
		items = built
	}

	feed := progress.Assemble(items, opts)
	return &feed, cached, nil
}

// Progress returns the continue-watching item for one show, whether or not
// it would pass the default feed filters.
func (e *Engine) Progress(ctx context.Context, userID, showID string) (*models.ContinueWatchingItem, error) {
	if err := validateIDs(userID, showID); err != nil {
		return nil, err
	}

	evs, err := e.ledger.ListShowEvents(ctx, userID, showID)
	if err != nil {
		return nil, unavailable("list show events", err)
	}
	if len(evs) == 0 {
		return nil, ErrNotFound
	}

	override, err := e.overrides.GetOverride(ctx, userID, showID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("user_id", userID).
			Str("show_id", showID).
			Msg("Override lookup failed, scoring without it")
		override = nil
	}

	meta, _ := e.lookupMetadata(ctx, showID)

	item := progress.Evaluate(evs, meta, override, e.now(), e.params)
	item.Category = progress.Categorize(item)
	return item, nil
}

// userItems computes one item per show with watch history. Only a ledger
// failure is an error. A failed override or metadata lookup degrades the
// affected items and sets the degraded flag.
func (e *Engine) userItems(ctx context.Context, userID string) ([]models.ContinueWatchingItem, bool, error) {
	evs, err := e.ledger.ListUserEvents(ctx, userID)
	if err != nil {
		return nil, false, unavailable("list user events", err)
	}
	shows := groupByShow(evs)
	if len(shows) == 0 {
		return []models.ContinueWatchingItem{}, false, nil
	}

	var degraded atomic.Bool

	overrides := make(map[string]*models.ShowOverride)
	stored, err := e.overrides.ListOverrides(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Override list failed, building feed without overrides")
		degraded.Store(true)
	}
	for i := range stored {
		overrides[stored[i].ShowID] = &stored[i]
	}

	now := e.now()
	results := make([]*models.ContinueWatchingItem, len(shows))

	p := pool.New().WithMaxGoroutines(e.maxConcurrency)
	for i := range shows {
		show := shows[i]
		p.Go(func() {
			meta, ok := e.lookupMetadata(ctx, show.showID)
			if !ok {
				degraded.Store(true)
			}
			results[i] = progress.Evaluate(show.events, meta, overrides[show.showID], now, e.params)
		})
	}
	p.Wait()

	items := make([]models.ContinueWatchingItem, 0, len(results))
	for _, item := range results {
		if item != nil {
			items = append(items, *item)
		}
	}

	if degraded.Load() {
		metrics.FeedItemErrors.Inc()
	}
	return items, degraded.Load(), nil
}

// lookupMetadata returns the show's metadata or nil. The bool is false when
// the lookup failed for a reason other than the show being unknown.
func (e *Engine) lookupMetadata(ctx context.Context, showID string) (*models.ShowMetadata, bool) {
	meta, err := e.meta.ShowMetadata(ctx, showID)
	switch {
	case err == nil:
		return meta, true
	case errors.Is(err, metadata.ErrNotFound):
		return nil, true
	default:
		logging.Ctx(ctx).Warn().Err(err).Str("show_id", showID).Msg("Metadata unavailable, computing item without it")
		return nil, false
	}
}

type showEvents struct {
	showID string
	events []models.WatchEvent
}

// groupByShow splits events into per-show runs, keeping first-seen show
// order and the event order within each show.
func groupByShow(evs []models.WatchEvent) []showEvents {
	index := make(map[string]int)
	var shows []showEvents
	for i := range evs {
		idx, ok := index[evs[i].ShowID]
		if !ok {
			idx = len(shows)
			index[evs[i].ShowID] = idx
			shows = append(shows, showEvents{showID: evs[i].ShowID})
		}
		shows[idx].events = append(shows[idx].events, evs[i])
	}
	return shows
}

func recordCategories(items []models.ContinueWatchingItem) {
	counts := make(map[string]int)
	for i := range items {
		counts[string(progress.Categorize(&items[i]))]++
	}
	metrics.RecordFeedItems(counts)
}
