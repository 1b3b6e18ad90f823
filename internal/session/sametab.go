// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package session

import (
	"context"
	"sync"
)

// SameTab delivers EventChanged synchronously to observers of the tab that
// made the change.
type SameTab struct {
	mu        sync.RWMutex
	nextID    uint64
	observers map[uint64]subscription
}

type subscription struct {
	ns       string
	tab      string
	observer Observer
}

// NewSameTab creates an empty same-tab transport.
func NewSameTab() *SameTab {
	return &SameTab{observers: make(map[uint64]subscription)}
}

// Name implements Transport.
func (s *SameTab) Name() string { return "same_tab" }

// Kind is the event kind this transport delivers.
func (s *SameTab) Kind() string { return EventChanged }

// Subscribe registers obs for changes made by tab in namespace ns. An
// empty ns or tab matches any. The returned func unsubscribes.
func (s *SameTab) Subscribe(ns, tab string, obs Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = subscription{ns: ns, tab: tab, observer: obs}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Deliver invokes matching observers before returning.
func (s *SameTab) Deliver(ctx context.Context, ev Event) error {
	ev.Kind = EventChanged

	s.mu.RLock()
	matched := make([]Observer, 0, len(s.observers))
	for _, sub := range s.observers {
		if (sub.ns == "" || sub.ns == ev.Namespace) && (sub.tab == "" || sub.tab == ev.Origin) {
			matched = append(matched, sub.observer)
		}
	}
	s.mu.RUnlock()

	for _, obs := range matched {
		obs.OnSessionEvent(ctx, ev)
	}
	return nil
}
