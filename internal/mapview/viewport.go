// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package mapview

import "errors"

// ErrZeroSize is returned when a viewport operation needs a sized surface.
var ErrZeroSize = errors.New("viewport has zero size")

// ZoomLimits are the configured zoom bounds of every viewer.
type ZoomLimits struct {
	Min float64
	Max float64
}

// DefaultZoomLimits matches the front-end map defaults.
var DefaultZoomLimits = ZoomLimits{Min: -1, Max: 4}

// Viewport is the visible window onto the plane: a center, a zoom and a
// pixel size. Pan and zoom are hard-stopped at maxBounds.
//
// Once bounded, on each axis where the viewport is no larger than
// maxBounds the visible rectangle stays inside maxBounds. On an axis where
// the viewport is larger (possible at the fit zoom, whose ratio is set by
// the other axis) the view is centered on maxBounds instead.
type Viewport struct {
	size      Size
	center    LatLng
	zoom      float64
	limits    ZoomLimits
	minZoom   float64
	maxBounds Bounds
}

// NewViewport returns a viewport fitted to maxBounds for size.
func NewViewport(maxBounds Bounds, size Size, limits ZoomLimits) (*Viewport, error) {
	v := &Viewport{limits: limits, maxBounds: maxBounds, minZoom: limits.Min}
	if err := v.fit(size); err != nil {
		return nil, err
	}
	return v, nil
}

// fit applies the three-step bounds setup: lock panning to maxBounds, raise
// the minimum zoom to the fit zoom, then re-apply the pan lock.
func (v *Viewport) fit(size Size) error {
	fitZoom, ok := FitZoom(v.maxBounds, size)
	if !ok {
		return ErrZeroSize
	}
	v.size = size
	v.center = v.maxBounds.Center()
	v.limitCenter()

	v.minZoom = clamp(fitZoom, v.limits.Min, v.limits.Max)
	v.zoom = v.minZoom

	v.limitCenter()
	return nil
}

// Center returns the current view center.
func (v *Viewport) Center() LatLng { return v.center }

// Zoom returns the current zoom.
func (v *Viewport) Zoom() float64 { return v.zoom }

// MinZoom returns the effective minimum zoom: the fit zoom, clamped to the
// configured limits.
func (v *Viewport) MinZoom() float64 { return v.minZoom }

// MaxZoom returns the configured maximum zoom.
func (v *Viewport) MaxZoom() float64 { return v.limits.Max }

// Size returns the viewport pixel size.
func (v *Viewport) Size() Size { return v.size }

// Rect returns the visible rectangle on the plane.
func (v *Viewport) Rect() Bounds {
	halfW, halfH := v.halfExtent()
	return Bounds{
		Min: LatLng{Lat: v.center.Lat - halfH, Lng: v.center.Lng - halfW},
		Max: LatLng{Lat: v.center.Lat + halfH, Lng: v.center.Lng + halfW},
	}
}

func (v *Viewport) halfExtent() (halfW, halfH float64) {
	s := scale(v.zoom)
	return float64(v.size.Width) / 2 / s, float64(v.size.Height) / 2 / s
}

// Pan moves the view by a screen-pixel offset. Positive dx moves right
// (increasing lng), positive dy moves down (decreasing lat). The result is
// hard-stopped at the bounds.
func (v *Viewport) Pan(dx, dy float64) {
	s := scale(v.zoom)
	v.center.Lng += dx / s
	v.center.Lat -= dy / s
	v.limitCenter()
}

// ZoomTo sets the zoom, clamped to [MinZoom, MaxZoom], keeping the center.
func (v *Viewport) ZoomTo(zoom float64) {
	v.zoom = clamp(zoom, v.minZoom, v.limits.Max)
	v.limitCenter()
}

// Resize recomputes the minimum zoom for a new size. The current zoom is
// kept when still allowed.
func (v *Viewport) Resize(size Size) error {
	fitZoom, ok := FitZoom(v.maxBounds, size)
	if !ok {
		return ErrZeroSize
	}
	v.size = size
	v.limitCenter()

	v.minZoom = clamp(fitZoom, v.limits.Min, v.limits.Max)
	if v.zoom < v.minZoom {
		v.zoom = v.minZoom
	}

	v.limitCenter()
	return nil
}

// limitCenter moves the center so the visible rectangle does not cross
// maxBounds on any axis where it fits.
func (v *Viewport) limitCenter() {
	halfW, halfH := v.halfExtent()
	v.center.Lng = limitAxis(v.center.Lng, halfW, v.maxBounds.Min.Lng, v.maxBounds.Max.Lng)
	v.center.Lat = limitAxis(v.center.Lat, halfH, v.maxBounds.Min.Lat, v.maxBounds.Max.Lat)
}

func limitAxis(c, half, lo, hi float64) float64 {
	if 2*half >= hi-lo {
		return (lo + hi) / 2
	}
	return clamp(c, lo+half, hi-half)
}
