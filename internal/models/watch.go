// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package models

import (
	"time"
)

// WatchEvent is a single ledger entry. It is immutable once recorded;
// corrections are a delete followed by a new insert.
//
// The natural key is (UserID, ShowID, SeasonNumber, EpisodeNumber, WatchedAt),
// so rewatches of the same episode on different dates are distinct events.
type WatchEvent struct {
	UserID        string    `json:"user_id"`
	ShowID        string    `json:"show_id"`
	SeasonNumber  int       `json:"season_number"`
	EpisodeNumber int       `json:"episode_number"`
	WatchedAt     time.Time `json:"watched_at"`
}

// ShowOverride holds the manual preferences for one user and show.
//
// A zero UpdatedAt means no record has been stored yet and the value is the
// default returned by a get-or-default read.
type ShowOverride struct {
	UserID              string    `json:"user_id"`
	ShowID              string    `json:"show_id"`
	NextSeasonOverride  *int      `json:"next_season_override,omitempty"`
	NextEpisodeOverride *int      `json:"next_episode_override,omitempty"`
	IsHidden            bool      `json:"is_hidden"`
	IsCompleted         bool      `json:"is_completed"`
	PriorityOverride    *int      `json:"priority_override,omitempty"`
	Notes               *string   `json:"notes,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// HasNextOverride reports whether a manual next-episode pointer is set.
func (o *ShowOverride) HasNextOverride() bool {
	return o != nil && o.NextSeasonOverride != nil && o.NextEpisodeOverride != nil
}

// Exists reports whether the override has ever been written.
func (o *ShowOverride) Exists() bool {
	return o != nil && !o.UpdatedAt.IsZero()
}

// OverridePatch is a partial update of a ShowOverride. Nil fields are left
// unchanged; the Clear* flags reset an optional field to unset.
type OverridePatch struct {
	IsHidden      *bool   `json:"is_hidden,omitempty"`
	IsCompleted   *bool   `json:"is_completed,omitempty"`
	NextSeason    *int    `json:"next_season,omitempty" validate:"omitempty,min=1,max=1000"`
	NextEpisode   *int    `json:"next_episode,omitempty" validate:"omitempty,min=1,max=10000"`
	ClearNext     bool    `json:"clear_next,omitempty"`
	Priority      *int    `json:"priority_override,omitempty" validate:"omitempty,min=1,max=10"`
	ClearPriority bool    `json:"clear_priority,omitempty"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	ClearNotes    bool    `json:"clear_notes,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p *OverridePatch) IsEmpty() bool {
	return p.IsHidden == nil && p.IsCompleted == nil &&
		p.NextSeason == nil && p.NextEpisode == nil && !p.ClearNext &&
		p.Priority == nil && !p.ClearPriority &&
		p.Notes == nil && !p.ClearNotes
}

// Apply returns a copy of o with the patch applied. UpdatedAt is not touched.
func (p *OverridePatch) Apply(o ShowOverride) ShowOverride {
	if p.IsHidden != nil {
		o.IsHidden = *p.IsHidden
	}
	if p.IsCompleted != nil {
		o.IsCompleted = *p.IsCompleted
	}
	if p.ClearNext {
		o.NextSeasonOverride, o.NextEpisodeOverride = nil, nil
	}
	if p.NextSeason != nil && p.NextEpisode != nil {
		season, episode := *p.NextSeason, *p.NextEpisode
		o.NextSeasonOverride, o.NextEpisodeOverride = &season, &episode
	}
	if p.ClearPriority {
		o.PriorityOverride = nil
	}
	if p.Priority != nil {
		priority := *p.Priority
		o.PriorityOverride = &priority
	}
	if p.ClearNotes {
		o.Notes = nil
	}
	if p.Notes != nil {
		notes := *p.Notes
		o.Notes = &notes
	}
	return o
}

// WatchRequest is the body of mark-watched and unmark-watched calls.
// A nil WatchedAt means "now" when marking and "most recent" when unmarking.
type WatchRequest struct {
	Season    int        `json:"season" validate:"required,min=1,max=1000"`
	Episode   int        `json:"episode" validate:"required,min=1,max=10000"`
	WatchedAt *time.Time `json:"watched_at,omitempty"`
}

// ShowMetadata is the provider's view of a show's structure. Episode counts
// may be missing for individual seasons; TotalSeasons is 0 when unknown.
type ShowMetadata struct {
	ShowID            string      `json:"show_id"`
	Name              string      `json:"name,omitempty"`
	PosterPath        string      `json:"poster_path,omitempty"`
	TotalSeasons      int         `json:"total_seasons"`
	EpisodesPerSeason map[int]int `json:"episodes_per_season"`
	FetchedAt         time.Time   `json:"fetched_at"`
}

// EpisodeCount returns the known episode count for season.
func (m *ShowMetadata) EpisodeCount(season int) (int, bool) {
	if m == nil {
		return 0, false
	}
	n, ok := m.EpisodesPerSeason[season]
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}
