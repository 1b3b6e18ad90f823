// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package mapview

import (
	"math"

	"github.com/goccy/go-json"
)

// Bounds is an axis-aligned rectangle on the viewer plane.
type Bounds struct {
	Min LatLng
	Max LatLng
}

// ImageBounds is the fixed extent of every map image: [[0,0],[100,100]].
var ImageBounds = Bounds{
	Min: LatLng{Lat: 0, Lng: 0},
	Max: LatLng{Lat: 100, Lng: 100},
}

// MarshalJSON encodes the bounds as [[minLat, minLng], [maxLat, maxLng]].
func (b Bounds) MarshalJSON() ([]byte, error) {
	return json.Marshal([2][2]float64{
		{b.Min.Lat, b.Min.Lng},
		{b.Max.Lat, b.Max.Lng},
	})
}

// Width is the extent along lng.
func (b Bounds) Width() float64 { return b.Max.Lng - b.Min.Lng }

// Height is the extent along lat.
func (b Bounds) Height() float64 { return b.Max.Lat - b.Min.Lat }

// Center returns the midpoint.
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.Min.Lat + b.Max.Lat) / 2,
		Lng: (b.Min.Lng + b.Max.Lng) / 2,
	}
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat >= b.Min.Lat && p.Lat <= b.Max.Lat &&
		p.Lng >= b.Min.Lng && p.Lng <= b.Max.Lng
}

// ContainsBounds reports whether o lies entirely inside b.
func (b Bounds) ContainsBounds(o Bounds) bool {
	return b.Contains(o.Min) && b.Contains(o.Max)
}

// Size is a viewport size in screen pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether either dimension is empty.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// scale is the number of pixels per plane unit at zoom.
func scale(zoom float64) float64 {
	return math.Exp2(zoom)
}

// FitZoom returns the zoom at which b fits entirely inside a viewport of
// size: the larger axis ratio decides. It returns false for a zero size.
func FitZoom(b Bounds, size Size) (float64, bool) {
	if size.IsZero() || b.Width() <= 0 || b.Height() <= 0 {
		return 0, false
	}
	s := math.Min(float64(size.Width)/b.Width(), float64(size.Height)/b.Height())
	return math.Log2(s), true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
