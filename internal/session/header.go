// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package session

import (
	"context"
	"sync"

	"github.com/tomtom215/guidewiki/internal/models"
)

// Header texts. The login link is shown when signed out; SignedInText
// precedes the username and LogoutText labels the sign-out action.
const (
	LoginText    = "Logg inn"
	LoginHref    = "/login"
	SignedInText = "Logget inn som"
	LogoutText   = "Logg ut"
)

// HeaderState is what the page header shows for a session.
type HeaderState struct {
	SignedIn     bool   `json:"signed_in"`
	Username     string `json:"username,omitempty"`
	SignedInText string `json:"signed_in_text,omitempty"`
	LogoutText   string `json:"logout_text,omitempty"`
	LoginText    string `json:"login_text,omitempty"`
	LoginHref    string `json:"login_href,omitempty"`
}

// HeaderFor returns the header for sess, which may be nil.
func HeaderFor(sess *models.Session) HeaderState {
	if sess == nil {
		return HeaderState{LoginText: LoginText, LoginHref: LoginHref}
	}
	return HeaderState{
		SignedIn:     true,
		Username:     sess.Username,
		SignedInText: SignedInText,
		LogoutText:   LogoutText,
	}
}

// Header is the header of one tab. It observes session events for its
// browser context: EventChanged carries the new value, EventStorage for
// StorageKey makes it re-read the store.
type Header struct {
	store *Store
	ns    string

	mu    sync.RWMutex
	state HeaderState
}

// NewHeader creates a header for namespace ns from the current slot.
func NewHeader(ctx context.Context, store *Store, ns string) *Header {
	sess, _ := store.Get(ctx, ns)
	return &Header{store: store, ns: ns, state: HeaderFor(sess)}
}

// OnSessionEvent implements Observer.
func (h *Header) OnSessionEvent(ctx context.Context, ev Event) {
	h.Apply(ctx, ev)
}

// Apply updates the header from ev and reports whether ev concerned it.
func (h *Header) Apply(ctx context.Context, ev Event) bool {
	if ev.Namespace != h.ns {
		return false
	}

	var next HeaderState
	switch ev.Kind {
	case EventChanged:
		next = HeaderFor(ev.Session)
	case EventStorage:
		if ev.Key != StorageKey {
			return false
		}
		sess, _ := h.store.Get(ctx, h.ns)
		next = HeaderFor(sess)
	default:
		return false
	}

	h.mu.Lock()
	h.state = next
	h.mu.Unlock()
	return true
}

// State returns the current header.
func (h *Header) State() HeaderState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}
