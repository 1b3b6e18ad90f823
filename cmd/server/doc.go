// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

/*
Package main is the entry point for the Guidewiki server.

Guidewiki serves a game-guide wiki: a catalog of games and their guides
read from a hosted database, an image map viewer with markers per game,
and a sign-in/sign-up header whose state is shared by every tab of a
browser.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("guidewiki")
	├── StateSupervisor ("state-layer")
	│   ├── Viewer Pruner (drops idle map viewers)
	│   └── Session Storage GC (badger store only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (header updates to tabs)
	│   └── Cross-tab Forwarder (storage events from the session bus)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Session store: memory, badger or none, plus the in-process Watermill bus
 4. Backend client: PostgREST-style HTTP client behind a circuit breaker
 5. Browser context: signed cookie naming each browser's session slot
 6. Supervisor Tree: Suture v4 process supervision
 7. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Backend (both required; without them every page reports "not configured")
	SUPABASE_URL=https://xyz.supabase.co
	SUPABASE_ANON_KEY=<anon-key>

	# Server
	HTTP_PORT=3000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Browser context
	SESSION_SECRET=<32+ chars>   # generated at startup when empty
	COOKIE_SECURE=true

	# Session store
	SESSION_STORE=memory         # memory, badger or none
	SESSION_STORE_PATH=/data/sessions

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Closes every WebSocket connection with a going-away frame
 3. Waits for in-flight requests (10s timeout)
 4. Closes the session bus and session storage
 5. Reports any services that failed to stop
*/
package main
