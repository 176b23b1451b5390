// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package progress

import (
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

// testNow is a Wednesday, so week boundaries in classifier tests are easy to reason about.
var testNow = time.Date(2026, 3, 18, 20, 0, 0, 0, time.UTC)

func ev(season, episode int, at time.Time) models.WatchEvent {
	return models.WatchEvent{
		UserID:        "u1",
		ShowID:        "show-1",
		SeasonNumber:  season,
		EpisodeNumber: episode,
		WatchedAt:     at,
	}
}

func daysAgo(d float64) time.Time {
	return testNow.Add(-time.Duration(d * float64(24*time.Hour)))
}

func tenPerSeason(seasons int) *models.ShowMetadata {
	m := &models.ShowMetadata{
		ShowID:            "show-1",
		Name:              "Test Show",
		TotalSeasons:      seasons,
		EpisodesPerSeason: make(map[int]int, seasons),
	}
	for s := 1; s <= seasons; s++ {
		m.EpisodesPerSeason[s] = 10
	}
	return m
}

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }
