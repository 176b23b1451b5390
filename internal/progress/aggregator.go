// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package progress

import (
	"github.com/tomtom215/upnext/internal/models"
)

// Aggregate reduces one show's watch events to a ShowProgress.
//
// The latest episode is the lexicographic maximum of (season, episode), so
// events recorded out of order never move the pointer backwards. Every event
// counts toward TotalEpisodesWatched, including rewatches.
//
// Returns nil when events is empty.
func Aggregate(events []models.WatchEvent, meta *models.ShowMetadata) *models.ShowProgress {
	if len(events) == 0 {
		return nil
	}

	p := &models.ShowProgress{
		ShowID:                events[0].ShowID,
		TotalEpisodesWatched:  len(events),
		LastWatchedAt:         events[0].WatchedAt,
		LatestSeasonWatched:   events[0].SeasonNumber,
		LatestEpisodeInSeason: events[0].EpisodeNumber,
	}

	for _, ev := range events[1:] {
		if ev.WatchedAt.After(p.LastWatchedAt) {
			p.LastWatchedAt = ev.WatchedAt
		}
		if episodeAfter(ev.SeasonNumber, ev.EpisodeNumber, p.LatestSeasonWatched, p.LatestEpisodeInSeason) {
			p.LatestSeasonWatched = ev.SeasonNumber
			p.LatestEpisodeInSeason = ev.EpisodeNumber
		}
	}

	season, episode, ok, incomplete := NextEpisode(p.LatestSeasonWatched, p.LatestEpisodeInSeason, meta)
	if ok {
		p.NaiveNextSeason = &season
		p.NaiveNextEpisode = &episode
	}
	p.MetadataIncomplete = incomplete

	return p
}

// NextEpisode computes the episode following (season, episode).
//
// With a known episode count for the season, the pointer moves to the next
// episode or rolls to (season+1, 1); rolling past the known season count
// means the show is fully watched and ok is false. Without a known count the
// episode number is incremented within the same season and incomplete is set.
func NextEpisode(season, episode int, meta *models.ShowMetadata) (nextSeason, nextEpisode int, ok, incomplete bool) {
	count, known := meta.EpisodeCount(season)
	if !known {
		return season, episode + 1, true, true
	}

	if episode < count {
		return season, episode + 1, true, false
	}

	if meta.TotalSeasons <= 0 {
		// Rolling is safe, but whether another season exists is unknown.
		return season + 1, 1, true, true
	}
	if season+1 > meta.TotalSeasons {
		return 0, 0, false, false
	}
	return season + 1, 1, true, false
}

// episodeAfter reports whether (s1, e1) comes after (s2, e2).
func episodeAfter(s1, e1, s2, e2 int) bool {
	if s1 != s2 {
		return s1 > s2
	}
	return e1 > e2
}
