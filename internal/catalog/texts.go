// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package catalog

// User-facing page texts. Each page has its own wording for the same
// failure class.
const (
	HomeNotConfigured = "Something went wrong. Please try again later."
	HomeLoadFailed    = "Could not load games. Please try again later."
	HomeEmpty         = "No games are available right now. Please check back later."

	GameNotConfigured = "Supabase is not configured yet."
	GameNotFound      = "Could not find this game in Supabase."
	GameNoGuides      = "No guides created yet for this game. Add rows to the guides table in Supabase."

	GuidesLoadFailed = "error loading guides"
	GuidesEmpty      = "No guides yet. Add rows to the guides table in Supabase."

	GuideNotConfigured = "Supabase is not set."
	GuideNotFound      = "Could not find this guide."
	GuideNoContent     = "This guide does not have any detailed content yet."

	MapsLoadFailed = "error loading maps"
	MapsEmpty      = "No interactive maps yet. Add map_image_url to your games in Supabase to show them here."
)
