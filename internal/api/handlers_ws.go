// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/middleware"
	"github.com/tomtom215/guidewiki/internal/session"
	ws "github.com/tomtom215/guidewiki/internal/websocket"
)

// WebSocket connects one tab. The tab query parameter names the tab; a
// missing or malformed one is replaced by a fresh identifier, which is
// then only reachable through this connection.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable")
		return
	}

	tab := r.URL.Query().Get("tab")
	if !middleware.ValidTabID(tab) {
		tab = uuid.NewString()
	}
	ns := browserContext(r)

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	header := session.NewHeader(r.Context(), h.store, ns)
	client := ws.NewClient(h.wsHub, conn, ns, tab, header)
	h.wsHub.Register <- client
	client.Start()
}
