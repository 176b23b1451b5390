// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package metadata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingProvider struct {
	mu    sync.Mutex
	calls map[string]int
	fn    func(showID string) (*models.ShowMetadata, error)
}

func (p *countingProvider) ShowMetadata(_ context.Context, showID string) (*models.ShowMetadata, error) {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[showID]++
	p.mu.Unlock()
	return p.fn(showID)
}

func (p *countingProvider) count(showID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[showID]
}

func newTestBadger(t *testing.T, ttl time.Duration) *BadgerStore {
	t.Helper()
	s, err := OpenBadgerStore("", ttl)
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCachedProvider_MemoryLayer(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	upstream := &countingProvider{fn: func(id string) (*models.ShowMetadata, error) {
		return &models.ShowMetadata{ShowID: id, TotalSeasons: 3}, nil
	}}
	p := NewCachedProviderWithClock(upstream, nil, time.Hour, clock.Now)

	for i := 0; i < 3; i++ {
		meta, err := p.ShowMetadata(context.Background(), "a")
		if err != nil {
			t.Fatalf("ShowMetadata() error = %v", err)
		}
		if meta.TotalSeasons != 3 {
			t.Errorf("TotalSeasons = %d", meta.TotalSeasons)
		}
	}
	if got := upstream.count("a"); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}

	clock.Advance(2 * time.Hour)
	if _, err := p.ShowMetadata(context.Background(), "a"); err != nil {
		t.Fatalf("ShowMetadata() error = %v", err)
	}
	if got := upstream.count("a"); got != 2 {
		t.Errorf("upstream calls after expiry = %d, want 2", got)
	}
}

func TestCachedProvider_NotFoundCachedBriefly(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	upstream := &countingProvider{fn: func(string) (*models.ShowMetadata, error) {
		return nil, ErrNotFound
	}}
	p := NewCachedProviderWithClock(upstream, nil, time.Hour, clock.Now)

	for i := 0; i < 2; i++ {
		if _, err := p.ShowMetadata(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}
	if got := upstream.count("ghost"); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}

	clock.Advance(7 * time.Minute)
	_, _ = p.ShowMetadata(context.Background(), "ghost")
	if got := upstream.count("ghost"); got != 2 {
		t.Errorf("upstream calls after negative TTL = %d, want 2", got)
	}
}

func TestCachedProvider_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	fail := true
	upstream := &countingProvider{fn: func(id string) (*models.ShowMetadata, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return &models.ShowMetadata{ShowID: id}, nil
	}}
	p := NewCachedProvider(upstream, nil, time.Hour)

	if _, err := p.ShowMetadata(context.Background(), "a"); err == nil {
		t.Fatal("expected error")
	}
	fail = false
	if _, err := p.ShowMetadata(context.Background(), "a"); err != nil {
		t.Fatalf("ShowMetadata() error = %v", err)
	}
	if got := upstream.count("a"); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestCachedProvider_BadgerLayerAndInvalidate(t *testing.T) {
	t.Parallel()

	store := newTestBadger(t, time.Hour)
	upstream := &countingProvider{fn: func(id string) (*models.ShowMetadata, error) {
		return &models.ShowMetadata{ShowID: id, TotalSeasons: 4, EpisodesPerSeason: map[int]int{1: 10}}, nil
	}}

	first := NewCachedProvider(upstream, store, time.Hour)
	if _, err := first.ShowMetadata(context.Background(), "b"); err != nil {
		t.Fatalf("ShowMetadata() error = %v", err)
	}

	// A fresh provider with an empty memory layer is served from badger.
	second := NewCachedProvider(upstream, store, time.Hour)
	meta, err := second.ShowMetadata(context.Background(), "b")
	if err != nil {
		t.Fatalf("ShowMetadata() error = %v", err)
	}
	if n, ok := meta.EpisodeCount(1); !ok || n != 10 {
		t.Errorf("EpisodeCount(1) = %d, %v after badger round trip", n, ok)
	}
	if got := upstream.count("b"); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}

	if err := second.Invalidate("b"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, err := second.ShowMetadata(context.Background(), "b"); err != nil {
		t.Fatalf("ShowMetadata() error = %v", err)
	}
	if got := upstream.count("b"); got != 2 {
		t.Errorf("upstream calls after invalidate = %d, want 2", got)
	}
	if second.Stats().Hits != 0 {
		t.Errorf("memory hits = %d, want 0", second.Stats().Hits)
	}
}

func TestBadgerStore(t *testing.T) {
	t.Parallel()

	s := newTestBadger(t, time.Hour)

	if _, ok, err := s.Get("none"); err != nil || ok {
		t.Errorf("Get(none) = %v, %v, want miss", ok, err)
	}
	if err := s.Put(&models.ShowMetadata{}); err == nil {
		t.Error("Put() without show id should fail")
	}

	want := &models.ShowMetadata{ShowID: "s1", Name: "Show", TotalSeasons: 2, EpisodesPerSeason: map[int]int{1: 8, 2: 10}}
	if err := s.Put(want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok, err := s.Get("s1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if got.Name != "Show" || got.EpisodesPerSeason[2] != 10 {
		t.Errorf("Get() = %+v", got)
	}

	if err := s.Delete("s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get("s1"); ok {
		t.Error("Get() after Delete should miss")
	}
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() on in-memory store error = %v", err)
	}
}
