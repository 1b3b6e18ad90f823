// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

/*
Package api provides the HTTP layer for Guidewiki.

It serves three things: a JSON API under /api/v1, the HTML shell the
front-end boots from, and the Prometheus /metrics endpoint.

Key Components:

  - Router: Chi route tree and middleware stack
  - Handler: JSON endpoints for pages, the map viewer, and sessions
  - Shell: the embedded HTML page with the wiki sidebar
  - Response formatting: the standard success/error envelope

Endpoints:

1. Health (/api/v1/health/):
  - live: process is up
  - ready: reports "degraded" when the backend is unconfigured or its
    circuit breaker is open

2. Pages (/api/v1/pages/):
  - home, games/{slug}, guides, guides/{id}, maps
  - every page answers 200 with a status of "ready" or "error"; a
    fetch failure is page state, not an HTTP error

3. Map viewer:
  - GET /api/v1/games/{slug}/map?width=&height= mounts a viewer
  - GET /api/v1/map returns the mounted viewer
  - POST /api/v1/map/viewport pans, zooms, or resizes it

4. Session (/api/v1/session, /api/v1/auth/):
  - signup, login, logout; passwords are SHA-256 hashed before they
    reach the backend
  - /api/v1/ws streams header updates to each tab

Sessions are namespaced by the browser context cookie. Tabs identify
themselves with the X-Tab-ID header (or the tab query parameter on the
websocket), which decides whether a change is delivered as a same-tab or
cross-tab notification.

Response Format:

	{
	  "success": true,
	  "data": {...},
	  "metadata": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Errors carry an "error" object with code, message and optional details.
*/
package api
