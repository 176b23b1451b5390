// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package models

import (
	"time"
)

// WatchingPattern classifies a user's cadence for one show.
type WatchingPattern string

const (
	PatternBinge    WatchingPattern = "binge_watching"
	PatternRegular  WatchingPattern = "regular_watching"
	PatternCasual   WatchingPattern = "casual_watching"
	PatternInactive WatchingPattern = "inactive"
)

// Valid reports whether p is a known pattern.
func (p WatchingPattern) Valid() bool {
	switch p {
	case PatternBinge, PatternRegular, PatternCasual, PatternInactive:
		return true
	}
	return false
}

// UrgencyLevel buckets days since the last watched episode.
type UrgencyLevel string

const (
	UrgencyFresh  UrgencyLevel = "fresh"
	UrgencyRecent UrgencyLevel = "recent"
	UrgencyOld    UrgencyLevel = "old"
	UrgencyStale  UrgencyLevel = "stale"
)

// RecommendationStrength buckets the priority score.
type RecommendationStrength string

const (
	StrengthHigh   RecommendationStrength = "high"
	StrengthMedium RecommendationStrength = "medium"
	StrengthLow    RecommendationStrength = "low"
)

// FeedCategory is the group a feed item is shown under.
type FeedCategory string

const (
	CategoryUpNext          FeedCategory = "up_next"
	CategoryBingeWorthy     FeedCategory = "binge_worthy"
	CategoryRecentlyStarted FeedCategory = "recently_started"
	CategoryTakingBreak     FeedCategory = "taking_break"
	CategorySeasonalReturns FeedCategory = "seasonal_returns"
	CategoryFinishSeries    FeedCategory = "finish_the_series"
)

// FeedCategoryOrder is the display order of grouped feeds.
var FeedCategoryOrder = []FeedCategory{
	CategoryUpNext,
	CategoryBingeWorthy,
	CategoryRecentlyStarted,
	CategoryTakingBreak,
	CategorySeasonalReturns,
	CategoryFinishSeries,
}

// ShowProgress is the ledger-derived progress for one user and show.
// NaiveNextSeason and NaiveNextEpisode are both nil when metadata says the
// show has been fully watched.
type ShowProgress struct {
	ShowID                string    `json:"show_id"`
	TotalEpisodesWatched  int       `json:"total_episodes_watched"`
	LastWatchedAt         time.Time `json:"last_watched_at"`
	LatestSeasonWatched   int       `json:"latest_season_watched"`
	LatestEpisodeInSeason int       `json:"latest_episode_in_season"`
	NaiveNextSeason       *int      `json:"naive_next_season,omitempty"`
	NaiveNextEpisode      *int      `json:"naive_next_episode,omitempty"`
	MetadataIncomplete    bool      `json:"metadata_incomplete"`
}

// HasNext reports whether a naive next-episode pointer exists.
func (p *ShowProgress) HasNext() bool {
	return p.NaiveNextSeason != nil && p.NaiveNextEpisode != nil
}

// ContinueWatchingItem is one entry of the continue-watching feed.
type ContinueWatchingItem struct {
	ShowID     string `json:"show_id"`
	ShowName   string `json:"show_name,omitempty"`
	PosterPath string `json:"poster_path,omitempty"`

	FinalNextSeason  *int `json:"final_next_season,omitempty"`
	FinalNextEpisode *int `json:"final_next_episode,omitempty"`
	NextFromOverride bool `json:"next_from_override"`

	IsHidden    bool    `json:"is_hidden"`
	IsCompleted bool    `json:"is_completed"`
	Notes       *string `json:"notes,omitempty"`

	TotalEpisodesWatched  int       `json:"total_episodes_watched"`
	LatestSeasonWatched   int       `json:"latest_season_watched"`
	LatestEpisodeInSeason int       `json:"latest_episode_in_season"`
	LastWatchedAt         time.Time `json:"last_watched_at"`

	WatchingPattern        WatchingPattern        `json:"watching_pattern"`
	DaysSinceLastEpisode   float64                `json:"days_since_last_episode"`
	WatchingStreak         int                    `json:"watching_streak"`
	FinalPriorityScore     float64                `json:"final_priority_score"`
	PriorityOverridden     bool                   `json:"priority_overridden"`
	UrgencyLevel           UrgencyLevel           `json:"urgency_level"`
	RecommendationStrength RecommendationStrength `json:"recommendation_strength"`

	// SeriesFinished is set when no next episode can be resolved and the
	// user has not marked the show completed.
	SeriesFinished     bool         `json:"series_finished"`
	MetadataIncomplete bool         `json:"metadata_incomplete"`
	Category           FeedCategory `json:"category,omitempty"`
}

// BingeSession is a maximal run of watch events for one show where each
// event is within the gap threshold of the one before it.
type BingeSession struct {
	ShowID               string    `json:"show_id"`
	SessionStart         time.Time `json:"session_start"`
	SessionEnd           time.Time `json:"session_end"`
	EpisodesInSession    int       `json:"episodes_in_session"`
	SeasonNumbersTouched []int     `json:"season_numbers_touched"`
	IsActive             bool      `json:"is_active"`
}

// SessionSummary aggregates binge sessions across a user's shows.
type SessionSummary struct {
	TotalSessions  int            `json:"total_sessions"`
	ActiveSessions int            `json:"active_sessions"`
	TotalEpisodes  int            `json:"total_episodes_binged"`
	LongestSession int            `json:"longest_session_episodes"`
	AvgEpisodes    float64        `json:"avg_episodes_per_session"`
	Sessions       []BingeSession `json:"sessions"`
}

// FeedGroup is one category of a grouped feed.
type FeedGroup struct {
	Category FeedCategory           `json:"category"`
	Items    []ContinueWatchingItem `json:"items"`
}

// ContinueWatchingFeed is the assembled feed. Items is the paginated flat
// list; Groups is populated instead when a grouped view is requested.
type ContinueWatchingFeed struct {
	Items  []ContinueWatchingItem `json:"items,omitempty"`
	Groups []FeedGroup            `json:"groups,omitempty"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit,omitempty"`
	Offset int                    `json:"offset,omitempty"`
}
