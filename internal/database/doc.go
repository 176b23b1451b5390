// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

/*
Package database stores the watch ledger and per-show overrides in DuckDB.

Two tables are owned here:

  - watch_events: the append-only ledger of episode watches. The primary key
    is the natural key (user_id, show_id, season_number, episode_number,
    watched_at), so recording the same watch twice is a no-op and rewatches on
    other dates are separate rows.
  - show_overrides: one row per (user_id, show_id) holding hide/complete
    flags, a manual next-episode pointer, a priority override (1-10) and
    notes. Rows are created by the first explicit write and never deleted.

Reads of overrides are get-or-default: GetOverride returns a zero-valued
record for a show that was never written and does not create one.

All timestamps are stored as UTC TIMESTAMP with microsecond precision.
Writes retry DuckDB transaction conflicts with a short exponential backoff.

Schema changes after the initial tables go through the versioned migrations
in migrations.go, tracked in schema_migrations.
*/
package database
