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

	"github.com/tomtom215/upnext/internal/models"
)

const overrideColumns = `user_id, show_id, next_season_override, next_episode_override,
	is_hidden, is_completed, priority_override, notes, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOverride(row rowScanner) (*models.ShowOverride, error) {
	var (
		o                  models.ShowOverride
		nextSeason, nextEp sql.NullInt64
		priority           sql.NullInt64
		notes              sql.NullString
	)
	if err := row.Scan(&o.UserID, &o.ShowID, &nextSeason, &nextEp,
		&o.IsHidden, &o.IsCompleted, &priority, &notes, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.NextSeasonOverride = nullIntPtr(nextSeason)
	o.NextEpisodeOverride = nullIntPtr(nextEp)
	o.PriorityOverride = nullIntPtr(priority)
	if notes.Valid {
		n := notes.String
		o.Notes = &n
	}
	o.UpdatedAt = o.UpdatedAt.UTC()
	return &o, nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func intArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringArg(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// GetOverride returns the stored override for a user and show, or a default
// value (zero UpdatedAt, all flags false) when none exists. It never writes.
func (db *DB) GetOverride(ctx context.Context, userID, showID string) (*models.ShowOverride, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return getOverride(ctx, db.conn, userID, showID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getOverride(ctx context.Context, q queryRower, userID, showID string) (*models.ShowOverride, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+overrideColumns+` FROM show_overrides WHERE user_id = ? AND show_id = ?`,
		userID, showID)
	o, err := scanOverride(row)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.ShowOverride{UserID: userID, ShowID: showID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query override: %w", err)
	}
	return o, nil
}

// UpsertOverride applies a partial update to the override for a user and
// show, creating the record if it does not exist, and returns the stored
// value. The patch must already be validated.
func (db *DB) UpsertOverride(ctx context.Context, userID, showID string, patch models.OverridePatch) (*models.ShowOverride, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var stored *models.ShowOverride
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		current, err := getOverride(ctx, tx, userID, showID)
		if err != nil {
			return err
		}

		next := patch.Apply(*current)
		next.UserID, next.ShowID = userID, showID
		next.UpdatedAt = db.now()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO show_overrides (`+overrideColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, show_id) DO UPDATE SET
				next_season_override = EXCLUDED.next_season_override,
				next_episode_override = EXCLUDED.next_episode_override,
				is_hidden = EXCLUDED.is_hidden,
				is_completed = EXCLUDED.is_completed,
				priority_override = EXCLUDED.priority_override,
				notes = EXCLUDED.notes,
				updated_at = EXCLUDED.updated_at`,
			next.UserID, next.ShowID,
			intArg(next.NextSeasonOverride), intArg(next.NextEpisodeOverride),
			next.IsHidden, next.IsCompleted,
			intArg(next.PriorityOverride), stringArg(next.Notes),
			storageTime(next.UpdatedAt))
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}

		next.UpdatedAt = storageTime(next.UpdatedAt)
		stored = &next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert override: %w", err)
	}
	return stored, nil
}

// ListOverrides returns every stored override for a user, including those
// for shows with no remaining watch events.
func (db *DB) ListOverrides(ctx context.Context, userID string) ([]models.ShowOverride, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+overrideColumns+` FROM show_overrides WHERE user_id = ? ORDER BY show_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer closeWithLog(rows, "override rows")

	var overrides []models.ShowOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides = append(overrides, *o)
	}
	return overrides, rows.Err()
}
