// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

// storageTime normalizes a timestamp to the precision and zone of a DuckDB
// TIMESTAMP column so natural-key lookups round-trip exactly.
func storageTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// AddWatchEvent appends an event to the ledger. Recording an event whose
// natural key already exists is a no-op. The returned bool reports whether
// a row was inserted.
func (db *DB) AddWatchEvent(ctx context.Context, ev models.WatchEvent) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var inserted bool
	err := withRetry(ctx, func(ctx context.Context) error {
		result, err := db.conn.ExecContext(ctx, `
			INSERT INTO watch_events (user_id, show_id, season_number, episode_number, watched_at, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			ev.UserID, ev.ShowID, ev.SeasonNumber, ev.EpisodeNumber, storageTime(ev.WatchedAt), db.now())
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		inserted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to insert watch event: %w", err)
	}
	return inserted, nil
}

// RemoveWatchEvent deletes the event identified by its natural key.
func (db *DB) RemoveWatchEvent(ctx context.Context, ev models.WatchEvent) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var removed int64
	err := withRetry(ctx, func(ctx context.Context) error {
		result, err := db.conn.ExecContext(ctx, `
			DELETE FROM watch_events
			WHERE user_id = ? AND show_id = ? AND season_number = ? AND episode_number = ? AND watched_at = ?`,
			ev.UserID, ev.ShowID, ev.SeasonNumber, ev.EpisodeNumber, storageTime(ev.WatchedAt))
		if err != nil {
			return err
		}
		removed, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete watch event: %w", err)
	}
	if removed == 0 {
		return ErrEventNotFound
	}
	return nil
}

// RemoveLatestEpisodeWatch removes the most recent watch of one episode and
// returns the removed event.
func (db *DB) RemoveLatestEpisodeWatch(ctx context.Context, userID, showID string, season, episode int) (*models.WatchEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var removed *models.WatchEvent
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var latest time.Time
		err = tx.QueryRowContext(ctx, `
			SELECT watched_at FROM watch_events
			WHERE user_id = ? AND show_id = ? AND season_number = ? AND episode_number = ?
			ORDER BY watched_at DESC
			LIMIT 1`,
			userID, showID, season, episode).Scan(&latest)
		if errors.Is(err, sql.ErrNoRows) {
			removed = nil
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM watch_events
			WHERE user_id = ? AND show_id = ? AND season_number = ? AND episode_number = ? AND watched_at = ?`,
			userID, showID, season, episode, latest)
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}

		removed = &models.WatchEvent{
			UserID:        userID,
			ShowID:        showID,
			SeasonNumber:  season,
			EpisodeNumber: episode,
			WatchedAt:     latest.UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove latest watch: %w", err)
	}
	if removed == nil {
		return nil, ErrEventNotFound
	}
	return removed, nil
}

// ListShowEvents returns a user's events for one show ordered by watched_at.
func (db *DB) ListShowEvents(ctx context.Context, userID, showID string) ([]models.WatchEvent, error) {
	return db.queryEvents(ctx, `
		SELECT user_id, show_id, season_number, episode_number, watched_at
		FROM watch_events
		WHERE user_id = ? AND show_id = ?
		ORDER BY watched_at, season_number, episode_number`,
		userID, showID)
}

// ListUserEvents returns all of a user's events ordered by show_id then
// watched_at.
func (db *DB) ListUserEvents(ctx context.Context, userID string) ([]models.WatchEvent, error) {
	return db.queryEvents(ctx, `
		SELECT user_id, show_id, season_number, episode_number, watched_at
		FROM watch_events
		WHERE user_id = ?
		ORDER BY show_id, watched_at, season_number, episode_number`,
		userID)
}

// ListUserEventsSince returns a user's events watched at or after since,
// ordered by show_id then watched_at.
func (db *DB) ListUserEventsSince(ctx context.Context, userID string, since time.Time) ([]models.WatchEvent, error) {
	return db.queryEvents(ctx, `
		SELECT user_id, show_id, season_number, episode_number, watched_at
		FROM watch_events
		WHERE user_id = ? AND watched_at >= ?
		ORDER BY show_id, watched_at, season_number, episode_number`,
		userID, storageTime(since))
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]models.WatchEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch events: %w", err)
	}
	defer closeWithLog(rows, "watch event rows")

	var events []models.WatchEvent
	for rows.Next() {
		var ev models.WatchEvent
		if err := rows.Scan(&ev.UserID, &ev.ShowID, &ev.SeasonNumber, &ev.EpisodeNumber, &ev.WatchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watch event: %w", err)
		}
		ev.WatchedAt = ev.WatchedAt.UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}
