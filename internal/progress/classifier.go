// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package progress

import (
	"sort"
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

const day = 24 * time.Hour

// Classify returns the watching pattern for a show's event timestamps.
// Timestamps may be in any order.
func Classify(timestamps []time.Time, now time.Time) models.WatchingPattern {
	sorted := sortedTimes(timestamps)

	if !anyAfter(sorted, now.Add(-InactiveAfter)) {
		return models.PatternInactive
	}
	if hasRecentBinge(sorted, now) {
		return models.PatternBinge
	}
	if activeWeeks(sorted, now) >= RegularMinWeeks {
		return models.PatternRegular
	}
	return models.PatternCasual
}

// hasRecentBinge reports whether BingeMinEvents events fall inside a
// BingeWindow that ends within BingeRecency of now.
func hasRecentBinge(sorted []time.Time, now time.Time) bool {
	cutoff := now.Add(-BingeRecency)
	left := 0
	for right := range sorted {
		for sorted[right].Sub(sorted[left]) > BingeWindow {
			left++
		}
		if right-left+1 >= BingeMinEvents && sorted[right].After(cutoff) {
			return true
		}
	}
	return false
}

// activeWeeks counts how many of the last RegularWeeks calendar weeks
// (Monday-based, UTC, including the current one) contain an event.
func activeWeeks(sorted []time.Time, now time.Time) int {
	current := weekStart(now)
	seen := make(map[int]struct{}, RegularWeeks)
	for _, t := range sorted {
		diff := current.Sub(weekStart(t))
		if diff < 0 {
			continue
		}
		weeksAgo := int(diff / (7 * day))
		if weeksAgo < RegularWeeks {
			seen[weeksAgo] = struct{}{}
		}
	}
	return len(seen)
}

// WatchingStreak counts consecutive UTC calendar days, ending on the day of
// the most recent event, that each contain at least one event.
func WatchingStreak(timestamps []time.Time) int {
	if len(timestamps) == 0 {
		return 0
	}

	days := make(map[time.Time]struct{}, len(timestamps))
	var latest time.Time
	for _, t := range timestamps {
		d := dayStart(t)
		days[d] = struct{}{}
		if d.After(latest) {
			latest = d
		}
	}

	streak := 0
	for d := latest; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[d]; !ok {
			return streak
		}
		streak++
	}
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

func sortedTimes(timestamps []time.Time) []time.Time {
	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	return sorted
}

func anyAfter(sorted []time.Time, cutoff time.Time) bool {
	return len(sorted) > 0 && sorted[len(sorted)-1].After(cutoff)
}
