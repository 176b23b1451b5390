// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

// Package main is the entry point for the UpNext server.
//
// UpNext keeps a per-user ledger of watched TV episodes and serves a
// prioritized continue-watching feed computed from it: progress per show,
// viewing pattern, urgency, recommendation strength and binge sessions.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: struct defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Database: DuckDB watch ledger and override store, migrations applied
//  4. Metadata: memory cache, optional badger store, circuit breaker, HTTP client
//  5. Event bus: in-process Watermill gochannel for change events
//  6. Engine: feed computation with a per-user TTL cache
//  7. HTTP API: chi router under /api/v1 plus /metrics
//  8. Supervisor tree: maintenance, event router and HTTP server services
//
// # Configuration
//
// Common environment variables:
//
//	DUCKDB_PATH=/data/upnext.duckdb
//	METADATA_BASE_URL=https://api.themoviedb.org/3
//	METADATA_API_KEY=...
//	METADATA_BADGER_PATH=/data/metadata
//	LOG_LEVEL=info
//	LOG_FORMAT=json
//
// Without METADATA_BASE_URL the service still runs; feed items are flagged
// metadata_incomplete and next episodes are guessed by incrementing.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops every
// service, the HTTP server drains in-flight requests within
// server.shutdown_timeout, and the badger store and database are closed.
package main
