// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

/*
Package services provides suture.Service wrappers for Conventus components.

This package adapts existing application components to the suture v4 supervision
model, translating various lifecycle patterns (Run, ListenAndServe, fire-and-forget
loops) into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation to the Serve pattern
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

WebSocket Hub (WebSocketHubService):
  - Wraps websocket.Hub with context support
  - Handles client connection cleanup on shutdown

Event Router (EventRouterService):
  - Wraps the Watermill router driving event consumers
  - Restarts consumer handlers after a crash

Dataset GC (DatasetGCService):
  - Runs the dataset store's Badger value-log GC loop
  - Reclaims disk space from deleted revisions

The history retention sweeper needs no wrapper: history.RetentionService
implements suture.Service directly and is added to the data layer as is.

# Design Principles

Interfaces over concrete types: each wrapper depends on a small local
interface (HTTPServer, ContextHub, ContextRouter, GCStarter) rather than
the component package. This keeps the supervision layer free of domain
imports and makes the wrappers trivially testable with mocks.

Fresh shutdown contexts: a canceled serve context cannot be used for
cleanup calls, so wrappers that need to shut down (HTTPServerService)
derive a fresh timeout context from context.Background().
*/
package services
