// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/upnext/internal/cache"
	"github.com/tomtom215/upnext/internal/logging"
	"github.com/tomtom215/upnext/internal/metrics"
	"github.com/tomtom215/upnext/internal/models"
)

// Store is a persistent second-level cache.
type Store interface {
	Get(showID string) (*models.ShowMetadata, bool, error)
	Put(meta *models.ShowMetadata) error
	Delete(showID string) error
}

// memEntry caches either metadata or a not-found answer.
type memEntry struct {
	meta     *models.ShowMetadata
	notFound bool
}

// CachedProvider serves metadata from memory, then the persistent store, then
// the upstream provider. Not-found answers are cached in memory only, for a
// tenth of the TTL.
type CachedProvider struct {
	mem      *cache.Cache[memEntry]
	store    Store
	upstream Provider
}

// NewCachedProvider builds the layered provider. store may be nil.
func NewCachedProvider(upstream Provider, store Store, ttl time.Duration) *CachedProvider {
	return NewCachedProviderWithClock(upstream, store, ttl, nil)
}

// NewCachedProviderWithClock is NewCachedProvider with an injected clock for
// the in-memory layer.
func NewCachedProviderWithClock(upstream Provider, store Store, ttl time.Duration, now cache.Clock) *CachedProvider {
	var mem *cache.Cache[memEntry]
	if now != nil {
		mem = cache.NewWithClock[memEntry](ttl, now)
	} else {
		mem = cache.New[memEntry](ttl)
	}
	return &CachedProvider{mem: mem, store: store, upstream: upstream}
}

// ShowMetadata implements Provider.
func (p *CachedProvider) ShowMetadata(ctx context.Context, showID string) (*models.ShowMetadata, error) {
	if entry, ok := p.mem.Get(showID); ok {
		metrics.RecordMetadataCache("memory", true)
		if entry.notFound {
			return nil, ErrNotFound
		}
		return entry.meta, nil
	}
	metrics.RecordMetadataCache("memory", false)

	if p.store != nil {
		meta, ok, err := p.store.Get(showID)
		switch {
		case err != nil:
			logging.Warn().Err(err).Str("show_id", showID).Msg("Metadata store read failed")
		case ok:
			metrics.RecordMetadataCache("badger", true)
			p.mem.Set(showID, memEntry{meta: meta})
			return meta, nil
		default:
			metrics.RecordMetadataCache("badger", false)
		}
	}

	meta, err := p.upstream.ShowMetadata(ctx, showID)
	if errors.Is(err, ErrNotFound) {
		p.mem.SetWithTTL(showID, memEntry{notFound: true}, p.mem.TTL()/10)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	p.mem.Set(showID, memEntry{meta: meta})
	if p.store != nil {
		if err := p.store.Put(meta); err != nil {
			logging.Warn().Err(err).Str("show_id", showID).Msg("Metadata store write failed")
		}
	}
	return meta, nil
}

// Invalidate drops a show from both cache layers.
func (p *CachedProvider) Invalidate(showID string) error {
	p.mem.Delete(showID)
	if p.store != nil {
		return p.store.Delete(showID)
	}
	return nil
}

// Cleanup drops expired in-memory entries and returns how many were removed.
func (p *CachedProvider) Cleanup() int {
	return p.mem.Cleanup()
}

// Stats returns in-memory cache statistics.
func (p *CachedProvider) Stats() cache.Stats {
	return p.mem.GetStats()
}
