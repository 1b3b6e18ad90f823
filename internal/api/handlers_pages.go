// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/guidewiki/internal/catalog"
	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/mapview"
	"github.com/tomtom215/guidewiki/internal/validation"
)

// Page handlers always answer 200 with the page state: a failed load is a
// page in the "error" status, not an HTTP error. Only a malformed URL
// parameter is rejected.

// viewClosed logs a page whose request ended before its data arrived.
// Nothing is written: the caller is gone.
func viewClosed(r *http.Request, page string) {
	logging.Ctx(r.Context()).Debug().Str("page", page).Msg("Page view closed before load completed")
}

// PageHome serves the home page state.
func (h *Handler) PageHome(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.Home(r.Context())
	if err != nil {
		viewClosed(r, "home")
		return
	}
	WriteSuccess(w, r, page)
}

// gamePageResponse is the game page plus its map viewer.
type gamePageResponse struct {
	*catalog.GamePage
	Viewer      *mapview.State `json:"viewer,omitempty"`
	ViewerReset bool           `json:"viewer_reset,omitempty"`
}

// PageGame serves the game page state for {slug} and mounts its map
// viewer for the browser context. Optional width and height query
// parameters give the viewer's surface size.
func (h *Handler) PageGame(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if verr := validation.ValidateVar(slug, "slug", "required,slug"); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return
	}
	size, ok := h.parseSize(w, r)
	if !ok {
		return
	}

	page, err := h.pages.Game(r.Context(), slug)
	if err != nil {
		viewClosed(r, "game")
		return
	}

	resp := gamePageResponse{GamePage: page}
	if page.Status == catalog.StatusReady && page.Game != nil {
		state, reset := h.viewers.Mount(browserContext(r), page.Game, page.Markers, size)
		resp.Viewer = &state
		resp.ViewerReset = reset
	}
	WriteSuccess(w, r, resp)
}

// PageGuides serves the guides overview state.
func (h *Handler) PageGuides(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.Guides(r.Context())
	if err != nil {
		viewClosed(r, "guides")
		return
	}
	WriteSuccess(w, r, page)
}

// PageGuide serves the guide detail state for {id}.
func (h *Handler) PageGuide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if verr := validation.ValidateVar(id, "id", "required,recordid"); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	page, err := h.pages.Guide(r.Context(), id)
	if err != nil {
		viewClosed(r, "guide")
		return
	}
	WriteSuccess(w, r, page)
}

// PageMaps serves the maps overview state.
func (h *Handler) PageMaps(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.Maps(r.Context())
	if err != nil {
		viewClosed(r, "maps")
		return
	}
	WriteSuccess(w, r, page)
}
