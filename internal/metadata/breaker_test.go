// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

func testBreakerSettings(name string) BreakerSettings {
	return BreakerSettings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Hour,
		MinRequests: 3,
		FailureRate: 0.6,
	}
}

func TestBreakerProvider_OpensOnFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	upstream := ProviderFunc(func(ctx context.Context, showID string) (*models.ShowMetadata, error) {
		calls++
		return nil, errors.New("connection refused")
	})
	b := NewBreakerProvider(upstream, testBreakerSettings("test-opens"))

	for i := 0; i < 3; i++ {
		if _, err := b.ShowMetadata(context.Background(), "1"); err == nil {
			t.Fatal("expected upstream failure")
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	_, err := b.ShowMetadata(context.Background(), "1")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("error = %v, want ErrCircuitOpen", err)
	}
	if calls != 3 {
		t.Errorf("upstream calls = %d, want 3", calls)
	}
}

func TestBreakerProvider_NotFoundIsNotAFailure(t *testing.T) {
	t.Parallel()

	upstream := ProviderFunc(func(ctx context.Context, showID string) (*models.ShowMetadata, error) {
		return nil, ErrNotFound
	})
	b := NewBreakerProvider(upstream, testBreakerSettings("test-notfound"))

	for i := 0; i < 5; i++ {
		if _, err := b.ShowMetadata(context.Background(), "1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerProvider_PassesThrough(t *testing.T) {
	t.Parallel()

	want := &models.ShowMetadata{ShowID: "1", TotalSeasons: 2}
	b := NewBreakerProvider(ProviderFunc(func(ctx context.Context, showID string) (*models.ShowMetadata, error) {
		return want, nil
	}), testBreakerSettings("test-pass"))

	got, err := b.ShowMetadata(context.Background(), "1")
	if err != nil {
		t.Fatalf("ShowMetadata() error = %v", err)
	}
	if got != want {
		t.Errorf("ShowMetadata() = %+v, want %+v", got, want)
	}
}

func TestStateHelpers(t *testing.T) {
	t.Parallel()

	if got := stateToString(99); got != "unknown" {
		t.Errorf("stateToString(99) = %q", got)
	}
	if got := stateToFloat(99); got != -1 {
		t.Errorf("stateToFloat(99) = %v", got)
	}
}
