// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package progress

import (
	"fmt"
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

// Classification thresholds. These are fixed properties of the pattern
// definitions, not tuning knobs.
const (
	InactiveAfter    = 90 * 24 * time.Hour
	BingeWindow      = 24 * time.Hour
	BingeMinEvents   = 3
	BingeRecency     = 14 * 24 * time.Hour
	RegularWeeks     = 4
	RegularMinWeeks  = 3
	SessionMinEvents = 3

	// RecentlyStartedMaxEpisodes and RecentlyStartedMaxDays bound the
	// recently_started feed category.
	RecentlyStartedMaxEpisodes = 5
	RecentlyStartedMaxDays     = 7.0
)

// Urgency bucket upper bounds, in days since the last episode.
const (
	FreshBeforeDays  = 2.0
	RecentBeforeDays = 7.0
	OldBeforeDays    = 30.0
)

// Params holds the tunable scoring and session parameters.
type Params struct {
	// PatternWeights is the starting score for each watching pattern.
	PatternWeights map[models.WatchingPattern]float64

	// DecayPerDay is subtracted from the score for each day since the
	// last watched episode.
	DecayPerDay float64

	// OverrideScale maps a 1-10 priority override onto the score range.
	OverrideScale float64

	// HighThreshold and MediumThreshold bucket non-overridden scores.
	HighThreshold   float64
	MediumThreshold float64

	// SessionGap is the maximum gap between consecutive events of a session.
	SessionGap time.Duration

	// SessionLookback decides whether a session is still active.
	SessionLookback time.Duration
}

// DefaultParams returns the standard scoring parameters.
func DefaultParams() Params {
	return Params{
		PatternWeights: map[models.WatchingPattern]float64{
			models.PatternBinge:    40,
			models.PatternRegular:  25,
			models.PatternCasual:   10,
			models.PatternInactive: 0,
		},
		DecayPerDay:     1,
		OverrideScale:   4,
		HighThreshold:   30,
		MediumThreshold: 15,
		SessionGap:      24 * time.Hour,
		SessionLookback: 7 * 24 * time.Hour,
	}
}

// Validate checks that the parameters are usable.
func (p *Params) Validate() error {
	for _, pattern := range []models.WatchingPattern{
		models.PatternBinge, models.PatternRegular, models.PatternCasual, models.PatternInactive,
	} {
		w, ok := p.PatternWeights[pattern]
		if !ok {
			return fmt.Errorf("missing weight for pattern %s", pattern)
		}
		if w < 0 {
			return fmt.Errorf("weight for pattern %s must be >= 0, got %v", pattern, w)
		}
	}
	if p.DecayPerDay < 0 {
		return fmt.Errorf("decay per day must be >= 0, got %v", p.DecayPerDay)
	}
	if p.OverrideScale <= 0 {
		return fmt.Errorf("override scale must be positive, got %v", p.OverrideScale)
	}
	if p.MediumThreshold > p.HighThreshold {
		return fmt.Errorf("medium threshold %v exceeds high threshold %v", p.MediumThreshold, p.HighThreshold)
	}
	if p.SessionGap <= 0 || p.SessionLookback <= 0 {
		return fmt.Errorf("session gap and lookback must be positive")
	}
	return nil
}
