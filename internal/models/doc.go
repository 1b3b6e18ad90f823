// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

/*
Package models defines the wiki's data structures.

Key Components:

  - Game: a game with optional cover and map images
  - Guide: a guide, optionally joined to its game as a GameRef
  - MapMarker: a point of interest placed by image percentage
  - Session: the signed-in user stored in a browser context's slot
  - ID: a row identifier decoded from either a JSON string or number

Rows come from the hosted database as JSON and decode directly into these
types. Optional text columns decode to the empty string.

Usage Example:

	var games []models.Game
	if err := client.Select(ctx, backend.From("games").Order("title", true), &games); err != nil {
	    return err
	}
	for _, g := range games {
	    if g.HasMap() {
	        fmt.Println(g.Slug, g.ViewerKey())
	    }
	}
*/
package models
