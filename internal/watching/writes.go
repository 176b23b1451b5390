// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package watching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/upnext/internal/database"
	"github.com/tomtom215/upnext/internal/events"
	"github.com/tomtom215/upnext/internal/logging"
	"github.com/tomtom215/upnext/internal/models"
	"github.com/tomtom215/upnext/internal/validation"
)

// maxClockSkew is how far in the future a client-supplied watched_at may be.
const maxClockSkew = 5 * time.Minute

// MarkWatched records a watch event. A nil WatchedAt means now. The bool
// result is false when the identical event was already recorded.
func (e *Engine) MarkWatched(ctx context.Context, userID, showID string, req models.WatchRequest) (*models.WatchEvent, bool, error) {
	if err := validateIDs(userID, showID); err != nil {
		return nil, false, err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, false, verr
	}

	now := e.now()
	watchedAt := now
	if req.WatchedAt != nil {
		watchedAt = req.WatchedAt.UTC()
		if watchedAt.After(now.Add(maxClockSkew)) {
			return nil, false, fmt.Errorf("%w: watched_at is in the future", ErrInvalidInput)
		}
	}

	ev := models.WatchEvent{
		UserID:        userID,
		ShowID:        showID,
		SeasonNumber:  req.Season,
		EpisodeNumber: req.Episode,
		WatchedAt:     watchedAt,
	}

	created, err := e.ledger.AddWatchEvent(ctx, ev)
	if err != nil {
		return nil, false, unavailable("add watch event", err)
	}
	if created {
		e.afterWrite(ctx, events.NewChangeEvent(events.KindWatched, userID, showID, now).WithEpisode(req.Season, req.Episode))
	}
	return &ev, created, nil
}

// UnmarkWatched removes a watch event. With a nil WatchedAt the most recent
// watch of the episode is removed.
func (e *Engine) UnmarkWatched(ctx context.Context, userID, showID string, req models.WatchRequest) (*models.WatchEvent, error) {
	if err := validateIDs(userID, showID); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}

	var (
		removed *models.WatchEvent
		err     error
	)
	if req.WatchedAt == nil {
		removed, err = e.ledger.RemoveLatestEpisodeWatch(ctx, userID, showID, req.Season, req.Episode)
	} else {
		ev := models.WatchEvent{
			UserID:        userID,
			ShowID:        showID,
			SeasonNumber:  req.Season,
			EpisodeNumber: req.Episode,
			WatchedAt:     req.WatchedAt.UTC(),
		}
		err = e.ledger.RemoveWatchEvent(ctx, ev)
		removed = &ev
	}
	switch {
	case errors.Is(err, database.ErrEventNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, unavailable("remove watch event", err)
	}

	e.afterWrite(ctx, events.NewChangeEvent(events.KindUnwatched, userID, showID, e.now()).WithEpisode(req.Season, req.Episode))
	return removed, nil
}

// GetOverride returns the stored override or the default for the show.
func (e *Engine) GetOverride(ctx context.Context, userID, showID string) (*models.ShowOverride, error) {
	if err := validateIDs(userID, showID); err != nil {
		return nil, err
	}
	o, err := e.overrides.GetOverride(ctx, userID, showID)
	if err != nil {
		return nil, unavailable("get override", err)
	}
	return o, nil
}

// ListOverrides returns every stored override for the user, including
// shows that no longer have watch history.
func (e *Engine) ListOverrides(ctx context.Context, userID string) ([]models.ShowOverride, error) {
	if err := validateIDs(userID); err != nil {
		return nil, err
	}
	list, err := e.overrides.ListOverrides(ctx, userID)
	if err != nil {
		return nil, unavailable("list overrides", err)
	}
	if list == nil {
		list = []models.ShowOverride{}
	}
	return list, nil
}

// UpdateOverride validates and applies a partial override update.
func (e *Engine) UpdateOverride(ctx context.Context, userID, showID string, patch models.OverridePatch) (*models.ShowOverride, error) {
	if err := validateIDs(userID, showID); err != nil {
		return nil, err
	}
	if verr := validation.ValidateOverridePatch(&patch); verr != nil {
		return nil, verr
	}

	o, err := e.overrides.UpsertOverride(ctx, userID, showID, patch)
	if err != nil {
		return nil, unavailable("upsert override", err)
	}

	e.afterWrite(ctx, events.NewChangeEvent(events.KindOverrideUpdated, userID, showID, e.now()))
	return o, nil
}

// afterWrite drops the user's cached feed and announces the change. The
// write has already succeeded, so a publish failure is only logged.
func (e *Engine) afterWrite(ctx context.Context, ev *events.ChangeEvent) {
	e.InvalidateUser(ev.UserID)

	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("kind", string(ev.Kind)).
			Str("user_id", ev.UserID).
			Str("show_id", ev.ShowID).
			Msg("Failed to publish change event")
	}
}
