// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package progress

import (
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

// Evaluate runs the full per-show pipeline and returns the show's
// continue-watching item, or nil when the show has no watch events.
//
// meta and override may be nil. Missing metadata degrades the next-episode
// pointer and sets MetadataIncomplete instead of failing.
//
//nolint:gocritic // Params is read-only and passed by value for clarity
func Evaluate(events []models.WatchEvent, meta *models.ShowMetadata, override *models.ShowOverride, now time.Time, params Params) *models.ContinueWatchingItem {
	p := Aggregate(events, meta)
	if p == nil {
		return nil
	}

	timestamps := make([]time.Time, len(events))
	for i, ev := range events {
		timestamps[i] = ev.WatchedAt
	}

	pattern := Classify(timestamps, now)
	score := ScoreShow(p, pattern, override, now, params)

	item := &models.ContinueWatchingItem{
		ShowID:                 p.ShowID,
		TotalEpisodesWatched:   p.TotalEpisodesWatched,
		LatestSeasonWatched:    p.LatestSeasonWatched,
		LatestEpisodeInSeason:  p.LatestEpisodeInSeason,
		LastWatchedAt:          p.LastWatchedAt,
		FinalNextSeason:        p.NaiveNextSeason,
		FinalNextEpisode:       p.NaiveNextEpisode,
		WatchingPattern:        pattern,
		DaysSinceLastEpisode:   score.DaysSinceLastEpisode,
		WatchingStreak:         WatchingStreak(timestamps),
		FinalPriorityScore:     score.Priority,
		PriorityOverridden:     score.Overridden,
		UrgencyLevel:           score.Urgency,
		RecommendationStrength: score.Strength,
		MetadataIncomplete:     p.MetadataIncomplete || meta == nil,
	}

	if meta != nil {
		item.ShowName = meta.Name
		item.PosterPath = meta.PosterPath
	}

	if override != nil {
		item.IsHidden = override.IsHidden
		item.IsCompleted = override.IsCompleted
		item.Notes = override.Notes
		if override.HasNextOverride() {
			season, episode := *override.NextSeasonOverride, *override.NextEpisodeOverride
			item.FinalNextSeason = &season
			item.FinalNextEpisode = &episode
			item.NextFromOverride = true
		}
	}

	item.SeriesFinished = item.FinalNextSeason == nil && !item.IsCompleted

	return item
}
