// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package metadata

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/upnext/internal/models"
)

// Key prefix for namespacing in BadgerDB.
const badgerShowKeyPrefix = "show_meta:"

// BadgerStore persists fetched show metadata across restarts. Entries expire
// through badger's per-entry TTL.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerStore opens (or creates) a store at path. An empty path opens an
// in-memory store, which tests use.
func OpenBadgerStore(path string, ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB internal logs
	if !opts.InMemory {
		opts.ValueLogFileSize = 16 << 20 // 16MB, entries are small
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for metadata: %w", err)
	}
	return &BadgerStore{db: db, ttl: ttl}, nil
}

func badgerKey(showID string) []byte {
	return []byte(badgerShowKeyPrefix + showID)
}

// Get returns the stored metadata and true, or false if absent or expired.
func (s *BadgerStore) Get(showID string) (*models.ShowMetadata, bool, error) {
	var meta models.ShowMetadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(showID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get show metadata: %w", err)
	}
	return &meta, true, nil
}

// Put stores metadata with the store TTL.
func (s *BadgerStore) Put(meta *models.ShowMetadata) error {
	if meta == nil || meta.ShowID == "" {
		return errors.New("metadata must have a show id")
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal show metadata: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(badgerKey(meta.ShowID), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes a show's entry. Deleting a missing key is not an error.
func (s *BadgerStore) Delete(showID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(showID))
	})
}

// RunGC reclaims value log space. badger.ErrNoRewrite means there was nothing
// to collect and is not reported.
func (s *BadgerStore) RunGC() error {
	if s.db.Opts().InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
