// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

/*
Package supervisor provides process supervision for Guidewiki using suture v4.

# Overview

Services are grouped into three layers, each its own supervisor:

	RootSupervisor ("guidewiki")
	├── StateSupervisor ("state-layer")
	│   ├── ViewerPrunerService
	│   └── StorageGCService (badger session store only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── session.Forwarder (cross-tab notifications)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. A layer's failures are
counted separately from the others.

# Usage Example

	logger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(forwarder)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See the services subpackage for the wrappers.
*/
package supervisor
