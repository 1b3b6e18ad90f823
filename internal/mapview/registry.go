// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package mapview

import (
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/guidewiki/internal/metrics"
	"github.com/tomtom215/guidewiki/internal/models"
)

// ErrNoViewer is returned for viewport actions when nothing is mounted.
var ErrNoViewer = errors.New("no map viewer mounted")

// ErrPlaceholder is returned for viewport actions on a placeholder viewer.
var ErrPlaceholder = errors.New("map viewer has no image")

type entry struct {
	viewer   *Viewer
	lastUsed time.Time
}

// Registry holds the mounted viewer of each browser context. Mounting a
// viewer for a different game replaces the previous one wholesale, so no
// zoom or pan state carries over between games.
type Registry struct {
	mu      sync.Mutex
	limits  ZoomLimits
	viewers map[string]*entry
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(limits ZoomLimits) *Registry {
	return &Registry{
		limits:  limits,
		viewers: make(map[string]*entry),
		now:     time.Now,
	}
}

// Mount shows game's map in the browser context ns. It returns the viewer
// state and whether a viewer for another game was destroyed.
//
// Mounting the same game again keeps its viewport, applies size and
// replaces the image and pins with the freshly loaded rows.
func (r *Registry) Mount(ns string, game *models.Game, markers []models.MapMarker, size Size) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := game.ViewerKey()
	e, ok := r.viewers[ns]
	reset := ok && e.viewer.Key() != key

	if !ok || reset {
		v := NewViewer(game, markers, r.limits)
		v.Mount(size)
		e = &entry{viewer: v}
		r.viewers[ns] = e
		metrics.RecordMapViewerMount(reset)
	} else {
		e.viewer.Refresh(game, markers)
		if !size.IsZero() {
			_ = e.viewer.Resize(size)
		}
	}
	e.lastUsed = r.now()
	return e.viewer.State(), reset
}

// Action is a viewport operation on the mounted viewer.
type Action struct {
	Kind   string
	DX, DY float64
	Zoom   float64
	Size   Size
}

// Action kinds.
const (
	ActionPan    = "pan"
	ActionZoom   = "zoom"
	ActionResize = "resize"
)

// ErrUnknownAction is returned for an unrecognized Action.Kind.
var ErrUnknownAction = errors.New("unknown viewport action")

// Apply runs a viewport action on the viewer mounted in ns.
func (r *Registry) Apply(ns string, a Action) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.viewers[ns]
	if !ok {
		return State{}, ErrNoViewer
	}
	v := e.viewer
	if !v.HasImage() {
		return v.State(), ErrPlaceholder
	}
	e.lastUsed = r.now()

	if a.Kind == ActionResize {
		err := v.Resize(a.Size)
		return v.State(), err
	}

	vp := v.Viewport()
	if vp == nil {
		return v.State(), ErrZeroSize
	}
	switch a.Kind {
	case ActionPan:
		vp.Pan(a.DX, a.DY)
	case ActionZoom:
		vp.ZoomTo(a.Zoom)
	default:
		return v.State(), ErrUnknownAction
	}
	return v.State(), nil
}

// Get returns the state of the viewer mounted in ns.
func (r *Registry) Get(ns string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.viewers[ns]
	if !ok {
		return State{}, false
	}
	return e.viewer.State(), true
}

// Forget drops the viewer of ns.
func (r *Registry) Forget(ns string) {
	r.mu.Lock()
	delete(r.viewers, ns)
	r.mu.Unlock()
}

// Prune drops viewers unused for longer than idle and returns how many
// were removed.
func (r *Registry) Prune(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	removed := 0
	for ns, e := range r.viewers {
		if e.lastUsed.Before(cutoff) {
			delete(r.viewers, ns)
			removed++
		}
	}
	return removed
}

// Len returns the number of mounted viewers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}
