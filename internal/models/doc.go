// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

/*
Package models defines the data structures shared across UpNext.

Model Categories:

1. Persisted records (owned by the database package):
  - WatchEvent: one "user watched SxEy of show T at time D" ledger entry
  - ShowOverride: per user+show manual preferences (hide, complete, next
    episode pointer, priority, notes)

2. External records (read-only, fetched from the metadata provider):
  - ShowMetadata: season count and per-season episode counts

3. Derived records (recomputed on every read, never persisted):
  - ShowProgress: ledger-derived progress for one show
  - ContinueWatchingItem: progress + override + classification + score
  - BingeSession: a run of closely spaced watch events
  - ContinueWatchingFeed: the filtered, sorted and grouped feed

4. API envelopes:
  - APIResponse, Metadata, APIError
*/
package models
