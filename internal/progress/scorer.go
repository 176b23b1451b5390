// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package progress

import (
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

// Score is the scorer output for one show.
type Score struct {
	DaysSinceLastEpisode float64
	Urgency              models.UrgencyLevel
	Strength             models.RecommendationStrength
	Priority             float64
	Overridden           bool
}

// ScoreShow computes urgency, recommendation strength and priority for a
// show. A nil override is treated as "no override".
//
//nolint:gocritic // Params is read-only and passed by value for clarity
func ScoreShow(p *models.ShowProgress, pattern models.WatchingPattern, o *models.ShowOverride, now time.Time, params Params) Score {
	days := now.Sub(p.LastWatchedAt).Hours() / 24
	if days < 0 {
		days = 0
	}

	s := Score{
		DaysSinceLastEpisode: days,
		Urgency:              UrgencyFor(days),
	}

	if o != nil && o.PriorityOverride != nil {
		s.Priority = float64(*o.PriorityOverride) * params.OverrideScale
		s.Strength = models.StrengthHigh
		s.Overridden = true
		return s
	}

	s.Priority = params.PatternWeights[pattern] - params.DecayPerDay*days
	if s.Priority < 0 {
		s.Priority = 0
	}
	s.Strength = StrengthFor(s.Priority, params)
	return s
}

// UrgencyFor buckets days since the last episode.
func UrgencyFor(days float64) models.UrgencyLevel {
	switch {
	case days < FreshBeforeDays:
		return models.UrgencyFresh
	case days < RecentBeforeDays:
		return models.UrgencyRecent
	case days < OldBeforeDays:
		return models.UrgencyOld
	default:
		return models.UrgencyStale
	}
}

// StrengthFor buckets a non-overridden priority score.
//
//nolint:gocritic // Params is read-only and passed by value for clarity
func StrengthFor(score float64, params Params) models.RecommendationStrength {
	switch {
	case score >= params.HighThreshold:
		return models.StrengthHigh
	case score >= params.MediumThreshold:
		return models.StrengthMedium
	default:
		return models.StrengthLow
	}
}
