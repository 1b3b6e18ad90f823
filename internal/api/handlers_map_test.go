// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/guidewiki/internal/mapview"
	"github.com/tomtom215/guidewiki/internal/session"
)

type testMapResponse struct {
	Viewer testViewer `json:"viewer"`
	Reset  bool       `json:"reset"`
}

func TestGetMapWithoutViewer(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	client := env.browser(t)

	status, resp := env.do(t, client, http.MethodGet, "/api/v1/map", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestMountMapSwitchesGames(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	client := env.browser(t)

	status, resp := env.do(t, client, http.MethodGet, "/api/v1/games/hades/map?width=400&height=400", nil)
	if status != http.StatusOK {
		t.Fatalf("mount status = %d", status)
	}
	var first testMapResponse
	dataAs(t, resp, &first)
	if first.Reset {
		t.Error("first mount should not reset")
	}

	// Same game again keeps the viewer.
	_, resp = env.do(t, client, http.MethodGet, "/api/v1/games/hades/map?width=400&height=400", nil)
	var again testMapResponse
	dataAs(t, resp, &again)
	if again.Reset {
		t.Error("remounting the same game should not reset")
	}

	// Another game replaces it.
	_, resp = env.do(t, client, http.MethodGet, "/api/v1/games/celeste/map", nil)
	var other testMapResponse
	dataAs(t, resp, &other)
	if !other.Reset {
		t.Error("mounting another game should reset")
	}
	if other.Viewer.Key != "8" {
		t.Errorf("key = %q, want 8", other.Viewer.Key)
	}
	if env.viewers.Len() != 1 {
		t.Errorf("viewers = %d, want 1 per browser context", env.viewers.Len())
	}
}

func TestMountMapErrors(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	client := env.browser(t)

	status, resp := env.do(t, client, http.MethodGet, "/api/v1/games/nonexistent-slug/map", nil)
	if status != http.StatusNotFound || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("missing game: status = %d, error = %+v", status, resp.Error)
	}

	env.backend.mu.Lock()
	env.backend.configured = false
	env.backend.mu.Unlock()

	status, resp = env.do(t, client, http.MethodGet, "/api/v1/games/hades/map", nil)
	if status != http.StatusServiceUnavailable || resp.Error.Code != ErrCodeNotConfigured {
		t.Errorf("not configured: status = %d, error = %+v", status, resp.Error)
	}
}

func TestUpdateViewport(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	client := env.browser(t)

	if status, _ := env.do(t, client, http.MethodGet, "/api/v1/games/hades/map?width=400&height=400", nil); status != http.StatusOK {
		t.Fatalf("mount status = %d", status)
	}

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantZoom   float64
		wantCenter [2]float64
	}{
		{
			name:       "zoom past max is clamped",
			body:       map[string]interface{}{"action": "zoom", "zoom": 10},
			wantStatus: http.StatusOK,
			wantZoom:   mapview.DefaultZoomLimits.Max,
			wantCenter: [2]float64{50, 50},
		},
		{
			name:       "pan stops at the image edge",
			body:       map[string]interface{}{"action": "pan", "dx": 100000, "dy": -100000},
			wantStatus: http.StatusOK,
			wantZoom:   mapview.DefaultZoomLimits.Max,
			// At zoom 4 a 400px surface shows 25 units, so the center
			// stops 12.5 units from the top-right corner.
			wantCenter: [2]float64{87.5, 87.5},
		},
		{
			name:       "zoom below fit is clamped",
			body:       map[string]interface{}{"action": "zoom", "zoom": -5},
			wantStatus: http.StatusOK,
			wantZoom:   2,
			wantCenter: [2]float64{50, 50},
		},
		{
			name:       "unknown action",
			body:       map[string]interface{}{"action": "spin"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "resize to zero",
			body:       map[string]interface{}{"action": "resize", "width": 0, "height": 0},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := env.do(t, client, http.MethodPost, "/api/v1/map/viewport", tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%+v)", status, tt.wantStatus, resp.Error)
			}
			if status != http.StatusOK {
				return
			}
			var got testMapResponse
			dataAs(t, resp, &got)
			vp := got.Viewer.Viewport
			if vp == nil {
				t.Fatal("no viewport")
			}
			if vp.Zoom != tt.wantZoom {
				t.Errorf("zoom = %v, want %v", vp.Zoom, tt.wantZoom)
			}
			if vp.Center != tt.wantCenter {
				t.Errorf("center = %v, want %v", vp.Center, tt.wantCenter)
			}
		})
	}
}

func TestUpdateViewportPlaceholder(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	client := env.browser(t)

	env.do(t, client, http.MethodGet, "/api/v1/games/celeste/map", nil)

	status, resp := env.do(t, client, http.MethodPost, "/api/v1/map/viewport", map[string]interface{}{"action": "zoom", "zoom": 1})
	if status != http.StatusConflict {
		t.Fatalf("status = %d, want 409", status)
	}
	if resp.Error.Message != mapview.PlaceholderText {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestViewersAreScopedToBrowserContext(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	alice, bob := env.browser(t), env.browser(t)

	env.do(t, alice, http.MethodGet, "/api/v1/games/hades/map?width=400&height=400", nil)

	if status, _ := env.do(t, bob, http.MethodGet, "/api/v1/map", nil); status != http.StatusNotFound {
		t.Errorf("other browser sees status %d, want 404", status)
	}
	if status, _ := env.do(t, alice, http.MethodGet, "/api/v1/map", nil); status != http.StatusOK {
		t.Errorf("owning browser sees status %d, want 200", status)
	}
}
