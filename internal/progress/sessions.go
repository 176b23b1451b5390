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

// DetectSessions groups one show's events into binge sessions.
//
// Events are scanned in time order. A session keeps growing while each event
// is within gap of the previous one, so a session is a chain of closely
// spaced events rather than a fixed window. Only chains of at least
// SessionMinEvents events are returned. A session is active when its last
// event is within lookback of now.
func DetectSessions(events []models.WatchEvent, now time.Time, gap, lookback time.Duration) []models.BingeSession {
	if len(events) < SessionMinEvents {
		return nil
	}

	sorted := make([]models.WatchEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].WatchedAt.Before(sorted[j].WatchedAt) })

	var sessions []models.BingeSession
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sorted[i].WatchedAt.Sub(sorted[i-1].WatchedAt) <= gap {
			continue
		}
		if i-start >= SessionMinEvents {
			sessions = append(sessions, buildSession(sorted[start:i], now, lookback))
		}
		start = i
	}
	return sessions
}

func buildSession(run []models.WatchEvent, now time.Time, lookback time.Duration) models.BingeSession {
	first, last := run[0], run[len(run)-1]

	seen := make(map[int]struct{})
	seasons := make([]int, 0, 2)
	for _, ev := range run {
		if _, ok := seen[ev.SeasonNumber]; ok {
			continue
		}
		seen[ev.SeasonNumber] = struct{}{}
		seasons = append(seasons, ev.SeasonNumber)
	}
	sort.Ints(seasons)

	return models.BingeSession{
		ShowID:               first.ShowID,
		SessionStart:         first.WatchedAt,
		SessionEnd:           last.WatchedAt,
		EpisodesInSession:    len(run),
		SeasonNumbersTouched: seasons,
		IsActive:             now.Sub(last.WatchedAt) <= lookback,
	}
}

// Summarize aggregates sessions from any number of shows. Sessions are
// returned most recent first.
func Summarize(sessions []models.BingeSession) models.SessionSummary {
	sorted := make([]models.BingeSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SessionEnd.After(sorted[j].SessionEnd) })

	summary := models.SessionSummary{
		TotalSessions: len(sorted),
		Sessions:      sorted,
	}
	for i := range sorted {
		s := &sorted[i]
		summary.TotalEpisodes += s.EpisodesInSession
		if s.IsActive {
			summary.ActiveSessions++
		}
		if s.EpisodesInSession > summary.LongestSession {
			summary.LongestSession = s.EpisodesInSession
		}
	}
	if summary.TotalSessions > 0 {
		summary.AvgEpisodes = float64(summary.TotalEpisodes) / float64(summary.TotalSessions)
	}
	return summary
}
