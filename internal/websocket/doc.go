// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

/*
Package websocket pushes signed-in state to open tabs.

Each open tab holds one connection, tagged with its browser context and
tab identifier. The Hub observes session events and relays them:

	same_tab  "app_session_changed"  -> connections of the origin tab
	cross_tab "storage"              -> other tabs of the same context

Every connection owns a session.Header. On a relayed event the header is
updated and its state is written to the tab in a frame whose type is the
event kind. The first frame on a connection, and the reply to a "session"
request, carry the current state with type "session".

Key Components:

  - Hub: client registry and session event relay
  - Client: one connection with read and write goroutines

Each client has two goroutines:
  - readPump: reads frames, answers "ping" and "session" requests
  - writePump: writes queued frames and keepalive pings

Message Format:

	{"type": "storage", "data": {"signed_in": true, "username": "alice"}}

Inbound frames are rate limited per connection. A client whose send buffer
fills up is disconnected.
*/
package websocket
