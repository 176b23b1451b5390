// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

// Package metadata looks up show structure (seasons and per-season episode
// counts) from an external TMDB-style provider.
//
// The stack is layered: CachedProvider (in-memory TTL, then an optional
// badger store) in front of BreakerProvider (sony/gobreaker) in front of
// Client (rate-limited HTTP with 429 backoff). Callers depend only on the
// Provider interface.
package metadata

import (
	"context"
	"errors"

	"github.com/tomtom215/upnext/internal/models"
)

var (
	// ErrNotFound is returned when the provider has no record of a show.
	ErrNotFound = errors.New("show metadata not found")

	// ErrCircuitOpen is returned when the provider circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("metadata provider circuit open")
)

// Provider returns structural metadata for a show.
type Provider interface {
	ShowMetadata(ctx context.Context, showID string) (*models.ShowMetadata, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, showID string) (*models.ShowMetadata, error)

// ShowMetadata calls f.
func (f ProviderFunc) ShowMetadata(ctx context.Context, showID string) (*models.ShowMetadata, error) {
	return f(ctx, showID)
}
