// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewWithClock[string](ttl, clock.Now), clock
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(time.Minute)
	c.Set("key1", "value1")

	clock.Advance(59 * time.Second)
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist before TTL")
	}

	clock.Advance(2 * time.Second)
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on Get, Len = %d", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(time.Hour)
	c.SetWithTTL("short", "v", time.Second)
	c.Set("long", "v")

	clock.Advance(2 * time.Second)

	if _, ok := c.Get("short"); ok {
		t.Error("short entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long entry should still be cached")
	}
}

func TestCacheZeroTTLDisablesCaching(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(0)
	c.Set("key", "value")

	if _, ok := c.Get("key"); ok {
		t.Error("zero TTL cache should not store entries")
	}
}

func TestCacheDelete(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Minute)
	c.Set("u1", "a")
	c.Set("u2", "b")

	c.Delete("u2")
	c.Delete("never-set")
	if _, ok := c.Get("u2"); ok {
		t.Error("u2 should be deleted")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheSetIfVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prepare    func(c *Cache[string])
		deleteMid  bool
		wantStored bool
	}{
		{name: "no invalidation", wantStored: true},
		{name: "deleted while computing", deleteMid: true},
		{
			name:      "deleted while computing without prior entry",
			prepare:   func(c *Cache[string]) { c.Delete("u1") },
			deleteMid: true,
		},
		{
			name:       "deleted before version read",
			prepare:    func(c *Cache[string]) { c.Set("u1", "old"); c.Delete("u1") },
			wantStored: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestCache(time.Minute)
			if tt.prepare != nil {
				tt.prepare(c)
			}

			version := c.Version("u1")
			if tt.deleteMid {
				c.Delete("u1")
			}

			if stored := c.SetIfVersion("u1", "fresh", version); stored != tt.wantStored {
				t.Fatalf("SetIfVersion = %v, want %v", stored, tt.wantStored)
			}
			value, ok := c.Get("u1")
			if ok != tt.wantStored {
				t.Fatalf("Get ok = %v, want %v", ok, tt.wantStored)
			}
			if ok && value != "fresh" {
				t.Errorf("value = %q, want fresh", value)
			}
		})
	}
}

func TestCacheSetIfVersionZeroTTL(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(0)
	if c.SetIfVersion("key", "value", c.Version("key")) {
		t.Error("zero TTL cache should refuse SetIfVersion")
	}
}

func TestCacheCleanup(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(time.Minute)
	c.Set("a", "1")
	c.SetWithTTL("b", "2", time.Hour)

	clock.Advance(2 * time.Minute)
	if removed := c.Cleanup(); removed != 1 {
		t.Errorf("Cleanup removed %d, want 1", removed)
	}
	if c.GetStats().LastCleanup.IsZero() {
		t.Error("LastCleanup should be set")
	}
	if c.Len() != 1 || c.GetStats().TotalKeys != 1 {
		t.Error("Cleanup should keep unexpired entries")
	}
}

func TestCacheStats(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Minute)
	c.Set("key1", "value1")

	c.Get("key1")
	c.Get("key1")
	c.Get("missing")

	stats := c.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("hits=%d misses=%d, want 2/1", stats.Hits, stats.Misses)
	}
	if rate := stats.HitRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("HitRate = %v, want ~66.67", rate)
	}
	if (Stats{}).HitRate() != 0 {
		t.Error("empty stats should report 0 hit rate")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New[int](time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%10)
			c.Set(key, n)
			c.Get(key)
			if n%7 == 0 {
				c.Delete("key-1")
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("Len = %d, want at most 10", c.Len())
	}
}
