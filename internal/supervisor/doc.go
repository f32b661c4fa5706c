// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

/*
Package supervisor provides process supervision for Conventus using suture v4.

This package implements a hierarchical supervisor tree that manages the lifecycle
of all long-running services in the application. It provides Erlang/OTP-style
supervision with automatic restart, failure isolation, and graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure isolation:

	RootSupervisor ("conventus")
	├── DataSupervisor ("data-layer")
	│   ├── DatasetGCService
	│   └── RetentionService (if history enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EventRouterService
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A crash in the event router doesn't affect WebSocket connections
  - Storage maintenance failures don't impact API availability
  - Each layer can restart independently

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via sutureslog adapter

# Usage Example

Basic setup in main.go:

	import (
	    "log/slog"
	    "github.com/tomtom215/conventus/internal/supervisor"
	    "github.com/tomtom215/conventus/internal/supervisor/services"
	)

	func main() {
	    logger := slog.Default()
	    config := supervisor.DefaultTreeConfig()

	    tree, err := supervisor.NewSupervisorTree(logger, config)
	    if err != nil {
	        log.Fatal(err)
	    }

	    // Add services to appropriate layers
	    tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	    tree.AddMessagingService(services.NewWebSocketHubService(hub))
	    tree.AddMessagingService(services.NewEventRouterService(router))

	    // Start the tree (blocks until context canceled)
	    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	    defer stop()
	    if err := tree.Serve(ctx); err != nil {
	        log.Fatal(err)
	    }
	}

# Service Contract

Services added to the tree must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Serve must block until the context is canceled or the service fails. Returning
nil or ctx.Err() after cancellation counts as a clean stop; any other error
triggers a supervised restart. Services that should never be restarted return
suture.ErrDoNotRestart.

The wrappers in the services subpackage adapt Conventus components that predate
this contract (http.Server, the WebSocket hub, the Watermill router) to it.
*/
package supervisor
