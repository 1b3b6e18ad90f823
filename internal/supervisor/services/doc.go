// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

/*
Package services provides suture.Service wrappers for Guidewiki components.

Each wrapper turns a component's own lifecycle (RunWithContext,
ListenAndServe, a periodic task) into suture's Serve(ctx) and names itself
through String for the supervisor's event log.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server; Shutdown drains connections on cancel

WebSocket Hub (WebSocketHubService):
  - Runs websocket.Hub; the hub closes every client when it stops

Viewer Pruner (PeriodicService via NewViewerPrunerService):
  - Drops map viewers of browser contexts that have gone idle

Storage GC (PeriodicService via NewStorageGCService):
  - Reclaims BadgerDB value log space of the session store

The interfaces here mirror the wrapped methods so this package does not
import the packages it supervises.
*/
package services
