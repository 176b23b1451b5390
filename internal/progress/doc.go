// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

/*
Package progress turns a user's watch history into continue-watching state.

Every function in this package is a pure transformation over data that has
already been fetched: there is no I/O, no shared state and no clock access.
Callers pass the current time explicitly, which keeps results deterministic
and lets many shows be evaluated in parallel.

Pipeline for one show:

	events + metadata ──► Aggregate ──► ShowProgress
	event timestamps  ──► Classify  ──► WatchingPattern
	progress + pattern + override ──► ScoreShow ──► urgency, strength, score
	all of the above  ──► Evaluate  ──► ContinueWatchingItem

Across shows, Assemble filters, sorts, categorizes and paginates the items.
DetectSessions runs independently over the ledger to find binge sessions.

# Watching Patterns

Classify evaluates the rules top to bottom and returns the first match:

  - inactive: no events in the last 90 days
  - binge_watching: at least 3 events inside some 24 hour window, with such
    a window ending in the last 14 days
  - regular_watching: events in at least 3 of the last 4 calendar weeks
  - casual_watching: anything else

# Priority Score

The score starts at the pattern weight and loses DecayPerDay points per day
since the last episode, never going below zero. A manual priority override
(1-10) replaces the computed score with override*OverrideScale and forces a
high recommendation strength.
*/
package progress
