// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/guidewiki/internal/catalog"
	"github.com/tomtom215/guidewiki/internal/mapview"
	"github.com/tomtom215/guidewiki/internal/validation"
)

// sizeQuery is the optional viewer surface size of a mount request.
type sizeQuery struct {
	Width  int `query:"width" validate:"gte=0,lte=16384"`
	Height int `query:"height" validate:"gte=0,lte=16384"`
}

// parseSize reads width and height query parameters, falling back to the
// configured default surface when both are absent.
func (h *Handler) parseSize(w http.ResponseWriter, r *http.Request) (mapview.Size, bool) {
	q := r.URL.Query()
	rawW, rawH := q.Get("width"), q.Get("height")
	if rawW == "" && rawH == "" {
		if h.config == nil {
			return mapview.Size{}, true
		}
		return mapview.Size{Width: h.config.Map.DefaultWidth, Height: h.config.Map.DefaultHeight}, true
	}

	var req sizeQuery
	var err error
	if rawW != "" {
		if req.Width, err = strconv.Atoi(rawW); err != nil {
			NewResponseWriter(w, r).BadRequest("width must be a whole number")
			return mapview.Size{}, false
		}
	}
	if rawH != "" {
		if req.Height, err = strconv.Atoi(rawH); err != nil {
			NewResponseWriter(w, r).BadRequest("height must be a whole number")
			return mapview.Size{}, false
		}
	}
	if !validateRequest(w, r, &req) {
		return mapview.Size{}, false
	}
	return mapview.Size{Width: req.Width, Height: req.Height}, true
}

// mapResponse is a viewer state with the mount outcome.
type mapResponse struct {
	Viewer mapview.State `json:"viewer"`
	Reset  bool          `json:"reset"`
}

// MountMap mounts the map viewer of game {slug} for the browser context.
// Mounting a different game than the one currently shown destroys the old
// viewer; mounting the same game again keeps its pan and zoom.
func (h *Handler) MountMap(w http.ResponseWriter, r *http.Request) {
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
		viewClosed(r, "map")
		return
	}
	if page.Status != catalog.StatusReady || page.Game == nil {
		if !h.fetcher.Configured() {
			WriteError(w, r, http.StatusServiceUnavailable, ErrCodeNotConfigured, page.Message)
			return
		}
		NewResponseWriter(w, r).NotFound(page.Message)
		return
	}

	state, reset := h.viewers.Mount(browserContext(r), page.Game, page.Markers, size)
	WriteSuccess(w, r, mapResponse{Viewer: state, Reset: reset})
}

// GetMap returns the viewer mounted for the browser context.
func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	state, ok := h.viewers.Get(browserContext(r))
	if !ok {
		NewResponseWriter(w, r).NotFound("No map is open")
		return
	}
	WriteSuccess(w, r, mapResponse{Viewer: state})
}

// viewportRequest is a pan, zoom or resize of the mounted viewer. dx and
// dy are screen pixels; zoom is the target zoom level.
type viewportRequest struct {
	Action string  `json:"action" validate:"required,oneof=pan zoom resize"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Zoom   float64 `json:"zoom"`
	Width  int     `json:"width" validate:"gte=0,lte=16384"`
	Height int     `json:"height" validate:"gte=0,lte=16384"`
}

// UpdateViewport applies a viewport action. The result always stays
// within the image bounds.
func (h *Handler) UpdateViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.viewers.Apply(browserContext(r), mapview.Action{
		Kind: req.Action,
		DX:   req.DX,
		DY:   req.DY,
		Zoom: req.Zoom,
		Size: mapview.Size{Width: req.Width, Height: req.Height},
	})
	switch {
	case err == nil:
		WriteSuccess(w, r, mapResponse{Viewer: state})
	case errors.Is(err, mapview.ErrNoViewer):
		NewResponseWriter(w, r).NotFound("No map is open")
	case errors.Is(err, mapview.ErrPlaceholder):
		WriteError(w, r, http.StatusConflict, ErrCodeConflict, mapview.PlaceholderText)
	case errors.Is(err, mapview.ErrZeroSize):
		NewResponseWriter(w, r).BadRequest("The map has no size yet; send a resize with width and height")
	default:
		NewResponseWriter(w, r).BadRequest(err.Error())
	}
}
