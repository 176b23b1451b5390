// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

// Package events carries ledger and override change notifications over an
// in-process Watermill gochannel. The only consumer today is the feed cache
// invalidator.
package events

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Topics
const (
	TopicWatch    = "upnext.watch"
	TopicOverride = "upnext.override"
)

// Kind identifies what changed.
type Kind string

// Change kinds
const (
	KindWatched         Kind = "watched"
	KindUnwatched       Kind = "unwatched"
	KindOverrideUpdated Kind = "override_updated"
)

// Topic returns the topic a change of this kind is published on.
func (k Kind) Topic() string {
	if k == KindOverrideUpdated {
		return TopicOverride
	}
	return TopicWatch
}

// ChangeEvent describes one write to the ledger or override store.
type ChangeEvent struct {
	EventID       string    `json:"event_id"`
	Kind          Kind      `json:"kind"`
	UserID        string    `json:"user_id"`
	ShowID        string    `json:"show_id"`
	SeasonNumber  int       `json:"season_number,omitempty"`
	EpisodeNumber int       `json:"episode_number,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// NewChangeEvent creates an event with a fresh ID.
func NewChangeEvent(kind Kind, userID, showID string, at time.Time) *ChangeEvent {
	return &ChangeEvent{
		EventID:    uuid.New().String(),
		Kind:       kind,
		UserID:     userID,
		ShowID:     showID,
		OccurredAt: at.UTC(),
	}
}

// WithEpisode sets the episode an event refers to.
func (e *ChangeEvent) WithEpisode(season, episode int) *ChangeEvent {
	e.SeasonNumber = season
	e.EpisodeNumber = episode
	return e
}

// Validate checks required fields.
func (e *ChangeEvent) Validate() error {
	switch {
	case e.EventID == "":
		return errors.New("event_id is required")
	case e.UserID == "":
		return errors.New("user_id is required")
	case e.ShowID == "":
		return errors.New("show_id is required")
	}
	switch e.Kind {
	case KindWatched, KindUnwatched, KindOverrideUpdated:
		return nil
	default:
		return errors.New("unknown event kind: " + string(e.Kind))
	}
}
