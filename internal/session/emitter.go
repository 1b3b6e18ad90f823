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

	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/metrics"
)

// Transport delivers session events one way: to the originating tab or to
// the other tabs.
type Transport interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

// Emitter hands every event to each registered transport, in registration
// order. A failing transport does not stop the others.
type Emitter struct {
	mu         sync.RWMutex
	transports []Transport
}

// NewEmitter creates an emitter with the given transports.
func NewEmitter(transports ...Transport) *Emitter {
	return &Emitter{transports: transports}
}

// Register appends a transport.
func (e *Emitter) Register(t Transport) {
	e.mu.Lock()
	e.transports = append(e.transports, t)
	e.mu.Unlock()
}

// Emit delivers ev through every transport and joins their errors.
func (e *Emitter) Emit(ctx context.Context, ev Event) error {
	e.mu.RLock()
	transports := append([]Transport(nil), e.transports...)
	e.mu.RUnlock()

	var errs []error
	for _, t := range transports {
		err := t.Deliver(ctx, ev)
		metrics.RecordSessionEvent(kindFor(ev, t), t.Name(), err)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("transport", t.Name()).Msg("Session event delivery failed")
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func kindFor(ev Event, t Transport) string {
	if k, ok := t.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return ev.Kind
}
