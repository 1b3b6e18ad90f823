// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package mapview

import (
	"github.com/tomtom215/guidewiki/internal/models"
)

// PlaceholderText is shown instead of a map when the game has no image.
const PlaceholderText = "Add a map_image_url to the game in Supabase"

// Popup is the content revealed by clicking a pin.
type Popup struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Pin is one interactive marker on the viewer plane.
type Pin struct {
	ID       models.ID `json:"id"`
	Position LatLng    `json:"position"`
	Popup    Popup     `json:"popup"`
}

// Viewer is the map of one game: an image overlay on ImageBounds, a
// bounded viewport and one pin per marker. A viewer belongs to exactly one
// game; switching games means building a new Viewer.
//
// Bounds setup is deferred until Mount reports a non-zero surface size.
// Viewer is not safe for concurrent use; Registry serializes access.
type Viewer struct {
	key      string
	imageURL string
	pins     []Pin
	limits   ZoomLimits
	mounted  bool
	viewport *Viewport
}

// NewViewer builds the viewer for game. A game without a map image yields
// a placeholder viewer that never initializes bounds or pins.
func NewViewer(game *models.Game, markers []models.MapMarker, limits ZoomLimits) *Viewer {
	v := &Viewer{
		key:    game.ViewerKey(),
		limits: limits,
	}
	v.load(game, markers)
	return v
}

// Refresh replaces the image and pins with freshly loaded rows of the same
// game. The viewport is kept unless the game lost its image.
func (v *Viewer) Refresh(game *models.Game, markers []models.MapMarker) {
	v.load(game, markers)
	if !v.HasImage() {
		v.viewport = nil
	}
}

func (v *Viewer) load(game *models.Game, markers []models.MapMarker) {
	v.imageURL = ""
	v.pins = nil
	if !game.HasMap() {
		return
	}

	v.imageURL = game.MapImageURL
	v.pins = make([]Pin, 0, len(markers))
	for i := range markers {
		m := &markers[i]
		v.pins = append(v.pins, Pin{
			ID:       m.ID,
			Position: ToViewer(m.XPercent, m.YPercent),
			Popup: Popup{
				Label:       m.Label,
				Description: m.Description,
				Category:    m.Category,
			},
		})
	}
}

// Key identifies the game this viewer belongs to.
func (v *Viewer) Key() string { return v.key }

// HasImage reports whether the viewer shows a map rather than a placeholder.
func (v *Viewer) HasImage() bool { return v.imageURL != "" }

// Pins returns the viewer's pins in marker order.
func (v *Viewer) Pins() []Pin { return v.pins }

// Viewport returns the bounded viewport, or nil before a sized mount.
func (v *Viewer) Viewport() *Viewport { return v.viewport }

// Mount records that the viewer's surface exists with size. For an image
// viewer with a non-zero size this fits the image and locks the bounds.
// A zero size or a placeholder viewer skips bounds setup without error.
func (v *Viewer) Mount(size Size) {
	v.mounted = true
	if !v.HasImage() || v.viewport != nil {
		return
	}
	vp, err := NewViewport(ImageBounds, size, v.limits)
	if err != nil {
		return
	}
	v.viewport = vp
}

// Resize applies a new surface size. An image viewer mounted at zero size
// is initialized by its first non-zero resize.
func (v *Viewer) Resize(size Size) error {
	if !v.HasImage() {
		return nil
	}
	if v.viewport == nil {
		v.Mount(size)
		if v.viewport == nil {
			return ErrZeroSize
		}
		return nil
	}
	return v.viewport.Resize(size)
}

// ViewportState is the JSON form of a viewport.
type ViewportState struct {
	Center  LatLng  `json:"center"`
	Zoom    float64 `json:"zoom"`
	MinZoom float64 `json:"min_zoom"`
	MaxZoom float64 `json:"max_zoom"`
	Size    Size    `json:"size"`
	Visible Bounds  `json:"visible"`
}

// State is a snapshot of a viewer, safe to hand to other goroutines.
type State struct {
	Key         string         `json:"key"`
	Placeholder string         `json:"placeholder,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Bounds      *Bounds        `json:"bounds,omitempty"`
	MinZoom     float64        `json:"min_zoom"`
	MaxZoom     float64        `json:"max_zoom"`
	Pins        []Pin          `json:"pins"`
	Mounted     bool           `json:"mounted"`
	Viewport    *ViewportState `json:"viewport,omitempty"`
}

// State returns a snapshot of the viewer.
func (v *Viewer) State() State {
	s := State{
		Key:     v.key,
		MinZoom: v.limits.Min,
		MaxZoom: v.limits.Max,
		Pins:    append([]Pin{}, v.pins...),
		Mounted: v.mounted,
	}
	if !v.HasImage() {
		s.Placeholder = PlaceholderText
		return s
	}
	s.ImageURL = v.imageURL
	b := ImageBounds
	s.Bounds = &b
	if vp := v.viewport; vp != nil {
		s.MinZoom = vp.MinZoom()
		s.Viewport = &ViewportState{
			Center:  vp.Center(),
			Zoom:    vp.Zoom(),
			MinZoom: vp.MinZoom(),
			MaxZoom: vp.MaxZoom(),
			Size:    vp.Size(),
			Visible: vp.Rect(),
		}
	}
	return s
}
