// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package mapview

import "github.com/goccy/go-json"

// LatLng is a point in the viewer's planar coordinate space. The names
// follow the map library the front end uses; there is no projection.
type LatLng struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the point as [lat, lng].
func (p LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lng})
}

// ToViewer maps a marker's stored percentage position onto the viewer
// plane: y_percent becomes lat and x_percent becomes lng, unscaled.
//
// Domain and range are both [0,100] per axis. Values outside that range
// are not rejected; they map to points outside ImageBounds.
func ToViewer(xPercent, yPercent float64) LatLng {
	return LatLng{Lat: yPercent, Lng: xPercent}
}

// FromViewer is the inverse of ToViewer.
func FromViewer(p LatLng) (xPercent, yPercent float64) {
	return p.Lng, p.Lat
}
