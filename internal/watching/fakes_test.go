// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package watching

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/upnext/internal/database"
	"github.com/tomtom215/upnext/internal/events"
	"github.com/tomtom215/upnext/internal/metadata"
	"github.com/tomtom215/upnext/internal/models"
)

var errStoreDown = errors.New("store down")

// memLedger is an in-memory Ledger.
type memLedger struct {
	mu     sync.Mutex
	events []models.WatchEvent
	err    error
	reads  int
}

func (l *memLedger) AddWatchEvent(_ context.Context, ev models.WatchEvent) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	for _, existing := range l.events {
		if sameEvent(existing, ev) {
			return false, nil
		}
	}
	l.events = append(l.events, ev)
	return true, nil
}

func (l *memLedger) RemoveWatchEvent(_ context.Context, ev models.WatchEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	for i, existing := range l.events {
		if sameEvent(existing, ev) {
			l.events = append(l.events[:i], l.events[i+1:]...)
			return nil
		}
	}
	return database.ErrEventNotFound
}

func (l *memLedger) RemoveLatestEpisodeWatch(_ context.Context, userID, showID string, season, episode int) (*models.WatchEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	latest := -1
	for i, ev := range l.events {
		if ev.UserID == userID && ev.ShowID == showID && ev.SeasonNumber == season && ev.EpisodeNumber == episode {
			if latest < 0 || ev.WatchedAt.After(l.events[latest].WatchedAt) {
				latest = i
			}
		}
	}
	if latest < 0 {
		return nil, database.ErrEventNotFound
	}
	removed := l.events[latest]
	l.events = append(l.events[:latest], l.events[latest+1:]...)
	return &removed, nil
}

func (l *memLedger) list(keep func(models.WatchEvent) bool) ([]models.WatchEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	if l.err != nil {
		return nil, l.err
	}
	var out []models.WatchEvent
	for _, ev := range l.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ShowID != out[j].ShowID {
			return out[i].ShowID < out[j].ShowID
		}
		return out[i].WatchedAt.Before(out[j].WatchedAt)
	})
	return out, nil
}

func (l *memLedger) ListShowEvents(_ context.Context, userID, showID string) ([]models.WatchEvent, error) {
	return l.list(func(ev models.WatchEvent) bool { return ev.UserID == userID && ev.ShowID == showID })
}

func (l *memLedger) ListUserEvents(_ context.Context, userID string) ([]models.WatchEvent, error) {
	return l.list(func(ev models.WatchEvent) bool { return ev.UserID == userID })
}

func (l *memLedger) ListUserEventsSince(_ context.Context, userID string, since time.Time) ([]models.WatchEvent, error) {
	return l.list(func(ev models.WatchEvent) bool { return ev.UserID == userID && !ev.WatchedAt.Before(since) })
}

func (l *memLedger) readCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

func sameEvent(a, b models.WatchEvent) bool {
	return a.UserID == b.UserID && a.ShowID == b.ShowID &&
		a.SeasonNumber == b.SeasonNumber && a.EpisodeNumber == b.EpisodeNumber &&
		a.WatchedAt.Equal(b.WatchedAt)
}

// memOverrides is an in-memory OverrideStore.
type memOverrides struct {
	mu      sync.Mutex
	records map[string]models.ShowOverride
	err     error
	now     func() time.Time
}

func newMemOverrides(now func() time.Time) *memOverrides {
	return &memOverrides{records: make(map[string]models.ShowOverride), now: now}
}

func (s *memOverrides) GetOverride(_ context.Context, userID, showID string) (*models.ShowOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	o, ok := s.records[userID+"/"+showID]
	if !ok {
		o = models.ShowOverride{UserID: userID, ShowID: showID}
	}
	return &o, nil
}

func (s *memOverrides) UpsertOverride(_ context.Context, userID, showID string, patch models.OverridePatch) (*models.ShowOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	key := userID + "/" + showID
	o, ok := s.records[key]
	if !ok {
		o = models.ShowOverride{UserID: userID, ShowID: showID}
	}
	o = patch.Apply(o)
	o.UpdatedAt = s.now()
	s.records[key] = o
	return &o, nil
}

func (s *memOverrides) ListOverrides(_ context.Context, userID string) ([]models.ShowOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ShowOverride
	for _, o := range s.records {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShowID < out[j].ShowID })
	return out, nil
}

// fakeMetadata serves fixed metadata and fails for shows listed in failing.
// A non-nil hold runs before every lookup.
type fakeMetadata struct {
	shows   map[string]*models.ShowMetadata
	failing map[string]bool
	hold    func()
}

func (m *fakeMetadata) ShowMetadata(_ context.Context, showID string) (*models.ShowMetadata, error) {
	if m.hold != nil {
		m.hold()
	}
	if m.failing[showID] {
		return nil, metadata.ErrCircuitOpen
	}
	meta, ok := m.shows[showID]
	if !ok {
		return nil, metadata.ErrNotFound
	}
	return meta, nil
}

// recordingPublisher keeps published events.
type recordingPublisher struct {
	mu        sync.Mutex
	published []*events.ChangeEvent
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, ev *events.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, ev)
	return p.err
}

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]events.Kind, len(p.published))
	for i, ev := range p.published {
		kinds[i] = ev.Kind
	}
	return kinds
}
