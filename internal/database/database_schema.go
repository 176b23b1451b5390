// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// Timestamps are stored as UTC TIMESTAMP (microsecond precision). TIMESTAMPTZ
// would pull in the ICU extension, which is deliberately not loaded.
var tableQueries = []string{
	`CREATE TABLE IF NOT EXISTS watch_events (
		user_id TEXT NOT NULL,
		show_id TEXT NOT NULL,
		season_number INTEGER NOT NULL CHECK (season_number >= 1),
		episode_number INTEGER NOT NULL CHECK (episode_number >= 1),
		watched_at TIMESTAMP NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, show_id, season_number, episode_number, watched_at)
	);`,

	`CREATE TABLE IF NOT EXISTS show_overrides (
		user_id TEXT NOT NULL,
		show_id TEXT NOT NULL,
		next_season_override INTEGER CHECK (next_season_override IS NULL OR next_season_override >= 1),
		next_episode_override INTEGER CHECK (next_episode_override IS NULL OR next_episode_override >= 1),
		is_hidden BOOLEAN NOT NULL DEFAULT false,
		is_completed BOOLEAN NOT NULL DEFAULT false,
		priority_override INTEGER CHECK (priority_override IS NULL OR (priority_override >= 1 AND priority_override <= 10)),
		notes TEXT,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, show_id)
	);`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_watch_events_user_time ON watch_events(user_id, watched_at);`,
	`CREATE INDEX IF NOT EXISTS idx_watch_events_user_show ON watch_events(user_id, show_id);`,
}

// createTables creates the ledger and override tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
