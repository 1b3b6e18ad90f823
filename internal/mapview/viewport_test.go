// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package mapview

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func TestFitZoom(t *testing.T) {
	tests := []struct {
		name string
		size Size
		want float64
		ok   bool
	}{
		{"square 100", Size{100, 100}, 0, true},
		{"square 400", Size{400, 400}, 2, true},
		{"landscape uses height", Size{800, 200}, 1, true},
		{"portrait uses width", Size{50, 900}, -1, true},
		{"zero width", Size{0, 600}, 0, false},
		{"zero height", Size{800, 0}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FitZoom(ImageBounds, tt.size)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > eps {
				t.Errorf("FitZoom = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewViewportZeroSize(t *testing.T) {
	if _, err := NewViewport(ImageBounds, Size{}, DefaultZoomLimits); !errors.Is(err, ErrZeroSize) {
		t.Fatalf("err = %v, want ErrZeroSize", err)
	}
}

func TestNewViewportFitsImage(t *testing.T) {
	vp, err := NewViewport(ImageBounds, Size{400, 400}, DefaultZoomLimits)
	if err != nil {
		t.Fatalf("NewViewport: %v", err)
	}
	if vp.Zoom() != 2 || vp.MinZoom() != 2 {
		t.Errorf("zoom = %v min = %v, want 2", vp.Zoom(), vp.MinZoom())
	}
	if vp.Center() != ImageBounds.Center() {
		t.Errorf("center = %+v", vp.Center())
	}
	if r := vp.Rect(); r != ImageBounds {
		t.Errorf("rect = %+v, want image bounds", r)
	}
}

func TestMinZoomClampedToLimits(t *testing.T) {
	// A 6400px square fits at zoom 6, above the configured max of 4.
	vp, err := NewViewport(ImageBounds, Size{6400, 6400}, DefaultZoomLimits)
	if err != nil {
		t.Fatalf("NewViewport: %v", err)
	}
	if vp.MinZoom() != 4 {
		t.Errorf("MinZoom = %v, want 4", vp.MinZoom())
	}

	// A 20px square fits at about -2.3, below the configured min of -1.
	vp, err = NewViewport(ImageBounds, Size{20, 20}, DefaultZoomLimits)
	if err != nil {
		t.Fatalf("NewViewport: %v", err)
	}
	if vp.MinZoom() != -1 {
		t.Errorf("MinZoom = %v, want -1", vp.MinZoom())
	}
}

func TestZoomCannotGoBelowFit(t *testing.T) {
	vp, _ := NewViewport(ImageBounds, Size{400, 400}, DefaultZoomLimits)
	vp.ZoomTo(-1)
	if vp.Zoom() != 2 {
		t.Errorf("zoom = %v, want 2", vp.Zoom())
	}
	vp.ZoomTo(10)
	if vp.Zoom() != 4 {
		t.Errorf("zoom = %v, want 4", vp.Zoom())
	}
}

func TestPanHardStop(t *testing.T) {
	vp, _ := NewViewport(ImageBounds, Size{400, 400}, DefaultZoomLimits)
	vp.ZoomTo(3) // 8 px per unit, visible extent 50x50

	vp.Pan(-10000, 0)
	if r := vp.Rect(); math.Abs(r.Min.Lng) > eps {
		t.Errorf("after pan left, rect = %+v, want min lng 0", r)
	}
	vp.Pan(10000, 10000)
	r := vp.Rect()
	if math.Abs(r.Max.Lng-100) > eps || math.Abs(r.Min.Lat) > eps {
		t.Errorf("after pan right/down, rect = %+v", r)
	}
}

func TestPanDirection(t *testing.T) {
	vp, _ := NewViewport(ImageBounds, Size{400, 400}, DefaultZoomLimits)
	vp.ZoomTo(3)
	start := vp.Center()
	vp.Pan(16, 16) // 2 units each way at 8 px per unit
	got := vp.Center()
	if math.Abs(got.Lng-(start.Lng+2)) > eps || math.Abs(got.Lat-(start.Lat-2)) > eps {
		t.Errorf("center = %+v, want lng+2 lat-2 from %+v", got, start)
	}
}

func TestResizeRaisesMinZoom(t *testing.T) {
	vp, _ := NewViewport(ImageBounds, Size{200, 200}, DefaultZoomLimits)
	if vp.Zoom() != 1 {
		t.Fatalf("zoom = %v, want 1", vp.Zoom())
	}
	if err := vp.Resize(Size{800, 800}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if vp.MinZoom() != 3 || vp.Zoom() != 3 {
		t.Errorf("min = %v zoom = %v, want 3", vp.MinZoom(), vp.Zoom())
	}
	if !ImageBounds.ContainsBounds(vp.Rect()) {
		t.Errorf("rect %+v escaped bounds", vp.Rect())
	}
	if err := vp.Resize(Size{0, 10}); !errors.Is(err, ErrZeroSize) {
		t.Errorf("Resize(zero) err = %v", err)
	}
}

func TestWideViewportCentersOnOversizedAxis(t *testing.T) {
	vp, _ := NewViewport(ImageBounds, Size{800, 200}, DefaultZoomLimits)
	// Fit zoom 1 from the height; width shows 400 units.
	vp.Pan(5000, 0)
	r := vp.Rect()
	if math.Abs(vp.Center().Lng-50) > eps {
		t.Errorf("center lng = %v, want 50", vp.Center().Lng)
	}
	if r.Min.Lat < -eps || r.Max.Lat > 100+eps {
		t.Errorf("lat extent escaped bounds: %+v", r)
	}
}

// TestViewportStaysInBounds drives random pan, zoom and resize sequences
// and checks the visible rectangle after every step.
func TestViewportStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sizes := []Size{{800, 600}, {1280, 720}, {375, 667}, {400, 400}, {1920, 1080}}

	for _, size := range sizes {
		vp, err := NewViewport(ImageBounds, size, DefaultZoomLimits)
		if err != nil {
			t.Fatalf("NewViewport(%+v): %v", size, err)
		}
		for step := 0; step < 500; step++ {
			switch rng.Intn(3) {
			case 0:
				vp.Pan(rng.Float64()*4000-2000, rng.Float64()*4000-2000)
			case 1:
				vp.ZoomTo(rng.Float64()*8 - 3)
			case 2:
				_ = vp.Resize(sizes[rng.Intn(len(sizes))])
			}
			checkInBounds(t, vp)
		}
	}
}

func checkInBounds(t *testing.T, vp *Viewport) {
	t.Helper()
	r := vp.Rect()
	if r.Width() <= ImageBounds.Width()+eps {
		if r.Min.Lng < -eps || r.Max.Lng > 100+eps {
			t.Fatalf("lng escaped bounds: rect %+v zoom %v size %+v", r, vp.Zoom(), vp.Size())
		}
	} else if math.Abs(vp.Center().Lng-50) > eps {
		t.Fatalf("oversized lng axis not centered: %+v", vp.Center())
	}
	if r.Height() <= ImageBounds.Height()+eps {
		if r.Min.Lat < -eps || r.Max.Lat > 100+eps {
			t.Fatalf("lat escaped bounds: rect %+v zoom %v size %+v", r, vp.Zoom(), vp.Size())
		}
	} else if math.Abs(vp.Center().Lat-50) > eps {
		t.Fatalf("oversized lat axis not centered: %+v", vp.Center())
	}
	if vp.Zoom() < vp.MinZoom()-eps || vp.Zoom() > vp.MaxZoom()+eps {
		t.Fatalf("zoom %v outside [%v, %v]", vp.Zoom(), vp.MinZoom(), vp.MaxZoom())
	}
}
