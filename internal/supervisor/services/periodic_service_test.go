// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPeriodicServiceRunsUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("test", 5*time.Millisecond, func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			return errors.New("first run fails")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
	if runs.Load() < 3 {
		t.Errorf("runs = %d, want the task to keep running after a failure", runs.Load())
	}
}

func TestPeriodicServiceDefaultInterval(t *testing.T) {
	svc := NewPeriodicService("test", 0, func(context.Context) error { return nil })
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", svc.interval)
	}
	if svc.String() != "test" {
		t.Errorf("String = %q", svc.String())
	}
}

type fakePruner struct {
	mu    sync.Mutex
	idles []time.Duration
}

func (p *fakePruner) Prune(idle time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idles = append(p.idles, idle)
	return 1
}

func TestViewerPrunerService(t *testing.T) {
	pruner := &fakePruner{}
	svc := NewViewerPrunerService(pruner, 30*time.Minute, 5*time.Millisecond)
	if svc.String() != "viewer-pruner" {
		t.Errorf("String = %q", svc.String())
	}

	if err := svc.task(context.Background()); err != nil {
		t.Fatalf("task: %v", err)
	}
	pruner.mu.Lock()
	defer pruner.mu.Unlock()
	if len(pruner.idles) != 1 || pruner.idles[0] != 30*time.Minute {
		t.Errorf("Prune calls = %v, want [30m]", pruner.idles)
	}
}

type fakeGC struct{ err error }

func (g fakeGC) RunGC() error { return g.err }

func TestStorageGCServicePropagatesTaskError(t *testing.T) {
	boom := errors.New("value log busy")
	svc := NewStorageGCService(fakeGC{err: boom}, time.Hour)
	if err := svc.task(context.Background()); !errors.Is(err, boom) {
		t.Errorf("task = %v, want %v", err, boom)
	}
}
