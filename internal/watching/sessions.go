// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package watching

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/upnext/internal/models"
	"github.com/tomtom215/upnext/internal/progress"
)

// DefaultSessionLookback bounds the history scanned for binge sessions when
// the caller does not choose a window.
const DefaultSessionLookback = 30 * 24 * time.Hour

// MaxSessionLookback caps caller-supplied windows.
const MaxSessionLookback = 365 * 24 * time.Hour

func (e *Engine) sessionWindow(lookback time.Duration) (time.Time, error) {
	switch {
	case lookback == 0:
		lookback = DefaultSessionLookback
	case lookback < 0 || lookback > MaxSessionLookback:
		return time.Time{}, fmt.Errorf("%w: lookback must be between 1 and %d days", ErrInvalidInput, int(MaxSessionLookback.Hours()/24))
	}
	return e.now().Add(-lookback), nil
}

// Sessions returns the binge sessions of one show that started within
// lookback. A zero lookback uses DefaultSessionLookback.
func (e *Engine) Sessions(ctx context.Context, userID, showID string, lookback time.Duration) ([]models.BingeSession, error) {
	if err := validateIDs(userID, showID); err != nil {
		return nil, err
	}
	since, err := e.sessionWindow(lookback)
	if err != nil {
		return nil, err
	}

	evs, err := e.ledger.ListShowEvents(ctx, userID, showID)
	if err != nil {
		return nil, unavailable("list show events", err)
	}

	recent := evs[:0:0]
	for i := range evs {
		if !evs[i].WatchedAt.Before(since) {
			recent = append(recent, evs[i])
		}
	}

	sessions := progress.DetectSessions(recent, e.now(), e.params.SessionGap, e.params.SessionLookback)
	if sessions == nil {
		sessions = []models.BingeSession{}
	}
	return sessions, nil
}

// UserSessions returns binge sessions across all of a user's shows within
// lookback, with summary statistics.
func (e *Engine) UserSessions(ctx context.Context, userID string, lookback time.Duration) (*models.SessionSummary, error) {
	if err := validateIDs(userID); err != nil {
		return nil, err
	}
	since, err := e.sessionWindow(lookback)
	if err != nil {
		return nil, err
	}

	evs, err := e.ledger.ListUserEventsSince(ctx, userID, since)
	if err != nil {
		return nil, unavailable("list user events", err)
	}

	now := e.now()
	var all []models.BingeSession
	for _, show := range groupByShow(evs) {
		all = append(all, progress.DetectSessions(show.events, now, e.params.SessionGap, e.params.SessionLookback)...)
	}

	summary := progress.Summarize(all)
	if summary.Sessions == nil {
		summary.Sessions = []models.BingeSession{}
	}
	return &summary, nil
}
