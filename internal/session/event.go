// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package session

import (
	"context"

	"github.com/tomtom215/guidewiki/internal/models"
)

const (
	// StorageKey is the slot key holding the serialized session.
	StorageKey = "app_session_v1"

	// EventChanged is delivered to the tab that changed the session,
	// carrying the new session (or none) as payload.
	EventChanged = "app_session_changed"

	// EventStorage is delivered to the other tabs of the browser context,
	// carrying only the changed key.
	EventStorage = "storage"

	// Topic is the pub/sub topic carrying cross-tab storage events.
	Topic = "session.storage"
)

// Event is one session change notification.
type Event struct {
	// Kind is EventChanged or EventStorage.
	Kind string

	// Namespace is the browser context whose slot changed.
	Namespace string

	// Origin is the tab that made the change.
	Origin string

	// Key is the storage key that changed.
	Key string

	// Session is the new value, nil after a clear.
	Session *models.Session
}

// Observer receives session events.
type Observer interface {
	OnSessionEvent(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// OnSessionEvent calls f.
func (f ObserverFunc) OnSessionEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}
