// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"net/http"
	"time"
)

// Health statuses.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthResponse is the readiness report.
type HealthResponse struct {
	Status            string  `json:"status"`
	BackendConfigured bool    `json:"backend_configured"`
	CircuitBreaker    string  `json:"circuit_breaker,omitempty"`
	SessionStorage    bool    `json:"session_storage"`
	WebSocketClients  int     `json:"websocket_clients"`
	MapViewers        int     `json:"map_viewers"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": HealthOK})
}

// HealthReady reports component state. A missing backend or an open
// circuit marks the service degraded; it still answers 200 because every
// page renders its not-configured or error state.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:            HealthOK,
		BackendConfigured: h.fetcher.Configured(),
		SessionStorage:    h.store.Available(),
		MapViewers:        h.viewers.Len(),
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
	}
	if h.wsHub != nil {
		resp.WebSocketClients = h.wsHub.GetClientCount()
	}
	if h.breaker != nil {
		resp.CircuitBreaker = h.breaker.State()
	}

	if !resp.BackendConfigured || resp.CircuitBreaker == "open" {
		resp.Status = HealthDegraded
	}
	WriteSuccess(w, r, resp)
}
