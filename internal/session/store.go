// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

// Package session holds the single signed-in identity of each browser
// context and notifies the context's tabs when it changes.
//
// Store.Set and Store.Clear persist first, then hand one Event to the
// Emitter. The SameTab transport calls observers of the originating tab
// synchronously with EventChanged; the CrossTab transport publishes to
// Topic, from which a Forwarder delivers EventStorage to every other tab.
// Observers receiving EventStorage re-read the slot with Store.Get.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/models"
)

// ErrNoStorage is returned by Set and Clear when no persistent storage is
// available. Get simply reports no session in that case.
var ErrNoStorage = errors.New("no persistent session storage available")

// ErrNoNamespace is returned by Set and Clear for an empty browser-context
// namespace. Get reports no session for it.
var ErrNoNamespace = errors.New("session namespace is empty")

// Store is the single session slot of each browser context.
type Store struct {
	storage Storage
	emitter *Emitter
}

// NewStore creates a store. storage may be nil (no persistence); emitter
// may be nil (no notifications).
func NewStore(storage Storage, emitter *Emitter) *Store {
	return &Store{storage: storage, emitter: emitter}
}

// Available reports whether sessions can be persisted.
func (s *Store) Available() bool {
	return s.storage != nil
}

// Get returns the session of namespace ns. It never fails: a missing slot,
// missing storage or an unreadable value all read as no session.
func (s *Store) Get(ctx context.Context, ns string) (*models.Session, bool) {
	if s.storage == nil || ns == "" {
		return nil, false
	}

	data, err := s.storage.Get(ctx, ns, StorageKey)
	if err != nil {
		if !errors.Is(err, ErrNotStored) {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to read session slot")
		}
		return nil, false
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Discarding unreadable session slot")
		return nil, false
	}
	return &sess, true
}

// Set overwrites the session of ns and notifies observers. origin is the
// tab that made the change.
func (s *Store) Set(ctx context.Context, ns, origin string, sess models.Session) error {
	if s.storage == nil {
		return ErrNoStorage
	}
	if ns == "" {
		return ErrNoNamespace
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.storage.Set(ctx, ns, StorageKey, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.notify(ctx, ns, origin, &sess)
	return nil
}

// Clear removes the session of ns and notifies observers with no session.
func (s *Store) Clear(ctx context.Context, ns, origin string) error {
	if s.storage == nil {
		return ErrNoStorage
	}
	if ns == "" {
		return ErrNoNamespace
	}

	if err := s.storage.Delete(ctx, ns, StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.notify(ctx, ns, origin, nil)
	return nil
}

// notify emits the change. Delivery failures are logged by the emitter and
// do not undo the write.
func (s *Store) notify(ctx context.Context, ns, origin string, sess *models.Session) {
	if s.emitter == nil {
		return
	}
	_ = s.emitter.Emit(ctx, Event{
		Namespace: ns,
		Origin:    origin,
		Key:       StorageKey,
		Session:   sess,
	})
}
