// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotStored is returned by Storage.Get for a missing key.
var ErrNotStored = errors.New("key not stored")

// Storage is the persistent key/value area of a browser context. Each
// namespace (browser context ID) has its own keys.
type Storage interface {
	Get(ctx context.Context, ns, key string) ([]byte, error)
	Set(ctx context.Context, ns, key string, value []byte) error
	Delete(ctx context.Context, ns, key string) error
	Close() error
}

// StorageType selects a Storage implementation.
type StorageType string

const (
	// StorageMemory keeps slots in process memory (lost on restart).
	StorageMemory StorageType = "memory"

	// StorageBadger persists slots in BadgerDB.
	StorageBadger StorageType = "badger"

	// StorageNone disables persistence entirely.
	StorageNone StorageType = "none"
)

// OpenStorage opens the storage selected by storeType. StorageNone returns
// a nil Storage, which Store treats as "no persistent storage available".
func OpenStorage(storeType StorageType, path string) (Storage, error) {
	switch storeType {
	case StorageMemory, "":
		return NewMemoryStorage(), nil
	case StorageNone:
		return nil, nil
	case StorageBadger:
		opts := badger.DefaultOptions(path)
		opts.Logger = nil // Suppress BadgerDB logs

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for sessions: %w", err)
		}
		return NewBadgerStorage(db), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", storeType)
	}
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string]map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string]map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryStorage) Get(_ context.Context, ns, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[ns][key]
	if !ok {
		return nil, ErrNotStored
	}
	return append([]byte(nil), v...), nil
}

// Set overwrites the value.
func (m *MemoryStorage) Set(_ context.Context, ns, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys, ok := m.slots[ns]
	if !ok {
		keys = make(map[string][]byte)
		m.slots[ns] = keys
	}
	keys[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes the value. Deleting a missing key is not an error.
func (m *MemoryStorage) Delete(_ context.Context, ns, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if keys, ok := m.slots[ns]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(m.slots, ns)
		}
	}
	return nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error { return nil }

// Key prefix for BadgerDB storage
const slotKeyPrefix = "slot:"

// BadgerStorage persists slots in BadgerDB under "slot:{ns}:{key}".
type BadgerStorage struct {
	db *badger.DB
}

// NewBadgerStorage wraps an open BadgerDB. Close closes db.
func NewBadgerStorage(db *badger.DB) *BadgerStorage {
	return &BadgerStorage{db: db}
}

func slotKey(ns, key string) []byte {
	return []byte(slotKeyPrefix + ns + ":" + key)
}

// Get reads a value.
func (b *BadgerStorage) Get(_ context.Context, ns, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slotKey(ns, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotStored
		}
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set overwrites a value.
func (b *BadgerStorage) Set(_ context.Context, ns, key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(slotKey(ns, key), value); err != nil {
			return fmt.Errorf("set slot: %w", err)
		}
		return nil
	})
}

// Delete removes a value.
func (b *BadgerStorage) Delete(_ context.Context, ns, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(slotKey(ns, key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete slot: %w", err)
		}
		return nil
	})
}

// gcDiscardRatio is the value log rewrite threshold for RunGC.
const gcDiscardRatio = 0.5

// RunGC reclaims value log space left by overwritten and deleted slots.
func (b *BadgerStorage) RunGC() error {
	for {
		err := b.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the database.
func (b *BadgerStorage) Close() error {
	return b.db.Close()
}
