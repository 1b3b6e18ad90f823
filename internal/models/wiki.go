// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// ID is a backend row identifier. Tables may use integer or UUID keys, so
// both JSON numbers and JSON strings decode into the same string form.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*id = ID(n.String())
		return nil
	}
}

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// Game is a wiki entry for one game. Games are owned by the backend and
// read-only here.
type Game struct {
	ID               ID     `json:"id"`
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	Description      string `json:"description,omitempty"`
	CoverImageURL    string `json:"cover_image_url,omitempty"`
	MapImageURL      string `json:"map_image_url,omitempty"`
	ReleaseYear      *int   `json:"release_year,omitempty"`
}

// HasMap reports whether the game has a map image to place markers on.
func (g *Game) HasMap() bool {
	return g != nil && g.MapImageURL != ""
}

// ViewerKey identifies the map viewer instance for this game: the id, else
// the slug, else a fixed fallback key.
func (g *Game) ViewerKey() string {
	switch {
	case g == nil:
		return DefaultViewerKey
	case !g.ID.IsZero():
		return g.ID.String()
	case g.Slug != "":
		return g.Slug
	default:
		return DefaultViewerKey
	}
}

// DefaultViewerKey keys a viewer whose game has neither id nor slug.
const DefaultViewerKey = "leaflet-image-map"

// GameRef is the embedded parent game returned with a guide.
type GameRef struct {
	ID    ID     `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Guide is a walkthrough or article belonging to exactly one game.
type Guide struct {
	ID         ID       `json:"id"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary,omitempty"`
	Content    string   `json:"content,omitempty"`
	Category   string   `json:"category,omitempty"`
	OrderIndex int      `json:"order_index"`
	Game       *GameRef `json:"game,omitempty"`
}

// HasContent reports whether the guide has a long-form body.
func (g *Guide) HasContent() bool {
	return g != nil && g.Content != ""
}

// MapMarker is a labelled point of interest on a game's map image. Its
// position is a pair of percentages of the image width and height.
type MapMarker struct {
	ID          ID      `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	XPercent    float64 `json:"x_percent"`
	YPercent    float64 `json:"y_percent"`
	OrderIndex  int     `json:"order_index"`
}

// Session identifies the signed-in user of a browser context.
// It is serialized as {"userId": ..., "username": ...}.
type Session struct {
	UserID   ID     `json:"userId"`
	Username string `json:"username"`
}
