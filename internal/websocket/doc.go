// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

/*
Package websocket pushes live updates to connected frontend clients.

This package broadcasts scoring run summaries and dataset revision
notices over WebSocket connections. It uses the gorilla/websocket
library with a hub-client architecture for efficient message
broadcasting.

Key Components:

  - Hub: Central message broker that manages client connections and broadcasts
  - Client: Represents a single WebSocket connection with read/write goroutines
  - Message: Typed message structure for different event types

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← Broadcasts to all clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: Reads from WebSocket, handles pings
  - writePump: Writes to WebSocket, sends pongs and protocol pings

Message Types:

The following message types are supported:

  - run_completed: A scoring run finished (run_id, dataset_revision,
    groups, recommendations, elapsed_ms)
  - dataset_updated: A new dataset revision was accepted (revision,
    groups, activities)
  - ping / pong: Application-level keepalive

Messages carry summaries only. Clients fetch ranked recommendation
lists from the HTTP API when a run_completed frame arrives.

Event Bus Integration:

The hub does not subscribe to the event bus itself. Router handlers
built by NewRunCompletedHandler and NewDatasetUpdatedHandler are
registered on the events.Router and feed deserialized envelopes into
the hub's broadcast channel. The handlers always ack: a broadcast is
a best-effort fan-out to currently connected clients.

Usage Example - Server:

	hub := websocket.NewHub()

	router.AddConsumer(websocket.ConsumerNameRunCompleted,
	    events.TopicRunCompleted, bus.Subscriber(),
	    websocket.NewRunCompletedHandler(hub))

	// Supervised alongside the router
	tree.AddMessagingService(services.NewWebSocketHubService(hub))

Usage Example - Client (JavaScript):

	const ws = new WebSocket('ws://localhost:8080/api/v1/ws');

	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);

	    if (msg.type === 'run_completed') {
	        refreshRecommendations(msg.data.run_id);
	    }

	    if (msg.type === 'dataset_updated') {
	        showRevisionBanner(msg.data.revision);
	    }
	};

Connection Lifecycle:

 1. Client connects via HTTP upgrade at /api/v1/ws
 2. Hub registers client
 3. Client starts read/write goroutines
 4. Hub broadcasts messages to all clients
 5. Client disconnects (network error, explicit close, or slow-client drop)
 6. Hub unregisters client and cleans up

Slow clients are dropped rather than buffered without bound: each
client has a bounded send queue, and a client whose queue is full
when a broadcast arrives is closed and removed.

Thread Safety:

The package is fully thread-safe:
  - Hub uses mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines
  - No shared mutable state between clients

Configuration:

Connection tuning comes from Options (see NewHubWithOptions):
  - SendBuffer: per-client outbound queue length (default 32)
  - PingInterval: protocol ping period (default 30s); the read
    deadline is twice this interval
  - WriteTimeout: per-message write deadline (default 10s)
  - maxMessageSize: 64 KB (inbound frames are keepalives only)

See Also:

  - github.com/gorilla/websocket: Underlying WebSocket library
  - internal/api: WebSocket endpoint handler
  - internal/events: Topics and envelope types consumed by the handlers
*/
package websocket
