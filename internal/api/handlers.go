// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/guidewiki/internal/auth"
	"github.com/tomtom215/guidewiki/internal/catalog"
	"github.com/tomtom215/guidewiki/internal/config"
	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/mapview"
	"github.com/tomtom215/guidewiki/internal/session"
	"github.com/tomtom215/guidewiki/internal/validation"
	ws "github.com/tomtom215/guidewiki/internal/websocket"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 16 * 1024

// BreakerStatus reports the backend circuit breaker for readiness checks.
type BreakerStatus interface {
	Name() string
	State() string
}

// Deps holds the components the handlers serve.
type Deps struct {
	Config  *config.Config
	Pages   *catalog.Pages
	Fetcher *catalog.Fetcher
	Viewers *mapview.Registry
	Store   *session.Store
	Auth    *auth.Service
	Hub     *ws.Hub
	Breaker BreakerStatus
}

// Handler serves the JSON API.
type Handler struct {
	config    *config.Config
	pages     *catalog.Pages
	fetcher   *catalog.Fetcher
	viewers   *mapview.Registry
	store     *session.Store
	auth      *auth.Service
	wsHub     *ws.Hub
	breaker   BreakerStatus
	startTime time.Time
}

// NewHandler creates the API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		config:    d.Config,
		pages:     d.Pages,
		fetcher:   d.Fetcher,
		viewers:   d.Viewers,
		store:     d.Store,
		auth:      d.Auth,
		wsHub:     d.Hub,
		breaker:   d.Breaker,
		startTime: time.Now(),
	}
}

// decodeJSON decodes and validates a request body. On failure it writes
// the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		NewResponseWriter(w, r).BadRequest("Invalid request body")
		return false
	}
	return validateRequest(w, r, dst)
}

// validateRequest validates a decoded request struct.
func validateRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// browserContext returns the browser context of r. The BrowserContext
// middleware guarantees one on every routed request.
func browserContext(r *http.Request) string {
	return auth.BrowserContextID(r.Context())
}

// tabID returns the tab that issued r, if the caller sent one.
func tabID(r *http.Request) string {
	return logging.TabIDFromContext(r.Context())
}

// getUpgrader creates a WebSocket upgrader with origin checking and timeouts.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts same-origin upgrades and configured CORS
// origins. A missing Origin header is rejected: browsers always send one.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	if h.config == nil {
		return false
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
