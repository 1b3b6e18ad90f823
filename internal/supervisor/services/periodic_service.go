// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package services

import (
	"context"
	"time"

	"github.com/tomtom215/guidewiki/internal/logging"
)

// PeriodicService runs a maintenance task on a fixed interval.
//
// A failed run is logged and retried on the next tick; it does not stop
// the service, since the next run usually succeeds and a restart would
// only reset the ticker.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewPeriodicService creates a periodic service. A non-positive interval
// means one minute.
func NewPeriodicService(name string, interval time.Duration, task func(ctx context.Context) error) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.task(ctx); err != nil {
				logging.Warn().Err(err).Str("service", p.name).Msg("Periodic task failed")
			}
		}
	}
}

// String implements fmt.Stringer for logging.
func (p *PeriodicService) String() string {
	return p.name
}

// ViewerPruner is satisfied by *mapview.Registry.
type ViewerPruner interface {
	Prune(idle time.Duration) int
}

// NewViewerPrunerService drops map viewers unused for idle, checking every
// interval. Browser contexts have no end signal, so idleness is the only
// way their viewers are released.
func NewViewerPrunerService(pruner ViewerPruner, idle, interval time.Duration) *PeriodicService {
	return NewPeriodicService("viewer-pruner", interval, func(ctx context.Context) error {
		if n := pruner.Prune(idle); n > 0 {
			logging.Debug().Int("pruned", n).Dur("idle", idle).Msg("Pruned idle map viewers")
		}
		return nil
	})
}

// GarbageCollector is satisfied by *session.BadgerStorage.
type GarbageCollector interface {
	RunGC() error
}

// NewStorageGCService runs value log GC on the session store every interval.
func NewStorageGCService(gc GarbageCollector, interval time.Duration) *PeriodicService {
	return NewPeriodicService("session-storage-gc", interval, func(ctx context.Context) error {
		return gc.RunGC()
	})
}
