// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package mapview

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/guidewiki/internal/metrics"
	"github.com/tomtom215/guidewiki/internal/models"
)

func TestRegistrySwitchingGameResetsViewport(t *testing.T) {
	r := NewRegistry(DefaultZoomLimits)
	size := Size{400, 400}

	_, reset := r.Mount("ctx-a", testGame("1", "hades", true), nil, size)
	if reset {
		t.Error("first mount should not report a reset")
	}
	if _, err := r.Apply("ctx-a", Action{Kind: ActionZoom, Zoom: 4}); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	if _, err := r.Apply("ctx-a", Action{Kind: ActionPan, DX: 300, DY: -300}); err != nil {
		t.Fatalf("pan: %v", err)
	}

	before := testutil.ToFloat64(metrics.MapViewersMounted.WithLabelValues("true"))
	state, reset := r.Mount("ctx-a", testGame("2", "celeste", true), nil, size)
	if !reset {
		t.Error("switching games should report a reset")
	}
	if got := testutil.ToFloat64(metrics.MapViewersMounted.WithLabelValues("true")); got != before+1 {
		t.Errorf("reset mounts = %v, want %v", got, before+1)
	}
	if state.Key != "2" {
		t.Errorf("key = %q, want 2", state.Key)
	}
	if state.Viewport.Zoom != 2 || state.Viewport.Center != ImageBounds.Center() {
		t.Errorf("viewport after switch = %+v, want fit state", state.Viewport)
	}
}

func TestRegistrySameGameKeepsViewport(t *testing.T) {
	r := NewRegistry(DefaultZoomLimits)
	game := testGame("1", "hades", true)
	r.Mount("ctx-a", game, nil, Size{400, 400})
	if _, err := r.Apply("ctx-a", Action{Kind: ActionZoom, Zoom: 3.5}); err != nil {
		t.Fatalf("zoom: %v", err)
	}

	state, reset := r.Mount("ctx-a", game, nil, Size{400, 400})
	if reset {
		t.Error("remounting the same game should not reset")
	}
	if state.Viewport.Zoom != 3.5 {
		t.Errorf("zoom = %v, want 3.5", state.Viewport.Zoom)
	}
}

func TestRegistrySameGameReloadsRows(t *testing.T) {
	r := NewRegistry(DefaultZoomLimits)
	game := testGame("1", "hades", true)
	old := []models.MapMarker{{ID: "m1", Label: "Old", XPercent: 10, YPercent: 10}}
	r.Mount("ctx-a", game, old, Size{400, 400})
	if _, err := r.Apply("ctx-a", Action{Kind: ActionZoom, Zoom: 3}); err != nil {
		t.Fatalf("zoom: %v", err)
	}

	updated := *game
	updated.MapImageURL = "https://img.example/hades-v2.png"
	fresh := []models.MapMarker{
		{ID: "m1", Label: "New", XPercent: 10, YPercent: 10},
		{ID: "m2", Label: "Added", XPercent: 50, YPercent: 60},
	}
	state, reset := r.Mount("ctx-a", &updated, fresh, Size{400, 400})
	if reset {
		t.Error("remounting the same game should not reset")
	}
	if state.ImageURL != updated.MapImageURL {
		t.Errorf("image = %q, want %q", state.ImageURL, updated.MapImageURL)
	}
	if len(state.Pins) != 2 || state.Pins[0].Popup.Label != "New" || state.Pins[1].ID != "m2" {
		t.Errorf("pins = %+v, want the reloaded markers", state.Pins)
	}
	if state.Viewport == nil || state.Viewport.Zoom != 3 {
		t.Errorf("viewport = %+v, want zoom 3 kept", state.Viewport)
	}
}

func TestRegistrySameGameLosingImageBecomesPlaceholder(t *testing.T) {
	r := NewRegistry(DefaultZoomLimits)
	r.Mount("ctx-a", testGame("1", "hades", true), testMarkers(), Size{400, 400})

	state, _ := r.Mount("ctx-a", testGame("1", "hades", false), testMarkers(), Size{400, 400})
	if state.Placeholder != PlaceholderText || len(state.Pins) != 0 || state.Viewport != nil {
		t.Errorf("state = %+v, want placeholder without pins or viewport", state)
	}
	if _, err := r.Apply("ctx-a", Action{Kind: ActionZoom, Zoom: 1}); !errors.Is(err, ErrPlaceholder) {
		t.Errorf("Apply err = %v, want ErrPlaceholder", err)
	}
}

func TestRegistryContextsAreIndependent(t *testing.T) {
	r := NewRegistry(DefaultZoomLimits)
	r.Mount("ctx-a", testGame("1", "hades", true), nil, Size{400, 400})
	r.Mount("ctx-b", testGame("2", "celeste", true), nil, Size{400, 400})

	a, _ := r.Get("ctx-a")
	b, _ := r.Get("ctx-b")
	if a.Key != "1" || b.Key != "2" {
		t.Errorf("keys = %q, %q", a.Key, b.Key)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRegistryApplyErrors(t *testing.T) {
	r := NewRegistry(DefaultZoomLimits)
	if _, err := r.Apply("nobody", Action{Kind: ActionPan}); !errors.Is(err, ErrNoViewer) {
		t.Errorf("err = %v, want ErrNoViewer", err)
	}

	r.Mount("ctx-a", testGame("1", "hades", false), nil, Size{400, 400})
	if _, err := r.Apply("ctx-a", Action{Kind: ActionPan}); !errors.Is(err, ErrPlaceholder) {
		t.Errorf("err = %v, want ErrPlaceholder", err)
	}

	r.Mount("ctx-b", testGame("2", "celeste", true), nil, Size{})
	if _, err := r.Apply("ctx-b", Action{Kind: ActionZoom, Zoom: 2}); !errors.Is(err, ErrZeroSize) {
		t.Errorf("err = %v, want ErrZeroSize", err)
	}
	if _, err := r.Apply("ctx-b", Action{Kind: ActionResize, Size: Size{400, 400}}); err != nil {
		t.Errorf("resize: %v", err)
	}
	if _, err := r.Apply("ctx-b", Action{Kind: "spin"}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("err = %v, want ErrUnknownAction", err)
	}
}

func TestRegistryPrune(t *testing.T) {
	r := NewRegistry(DefaultZoomLimits)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Mount("old", testGame("1", "hades", true), nil, Size{400, 400})
	now = now.Add(2 * time.Hour)
	r.Mount("fresh", testGame("2", "celeste", true), nil, Size{400, 400})

	if removed := r.Prune(time.Hour); removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
	if _, ok := r.Get("old"); ok {
		t.Error("old viewer should be pruned")
	}
	if _, ok := r.Get("fresh"); !ok {
		t.Error("fresh viewer should remain")
	}

	r.Forget("fresh")
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}
