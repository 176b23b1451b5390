// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

// Package cache provides an in-memory TTL cache owned by the component that
// creates it.
//
// There is no package-level state and no background goroutine: expired
// entries are dropped lazily on Get and in bulk by Cleanup, which the owner
// calls when it sees fit. Invalidation is explicit through Delete.
package cache

import "time"

// Clock returns the current time. Tests inject a fake clock.
type Clock func() time.Time
