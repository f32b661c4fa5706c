// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

/*
Package main is the entry point for the Conventus server application.

Conventus scores group activities against member calendars: each
activity's fixed time slot is checked against every member's busy
intervals, and the activities everyone can attend are ranked by a
combined slot and activity score per group.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("conventus")
	├── DataSupervisor ("data-layer")
	│   ├── Dataset GC (Badger value-log maintenance)
	│   └── History retention sweeper (if HISTORY_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (real-time run notifications)
	│   └── Event Router (history archiver, webhook notifier, WS fan-out)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Dataset store: BadgerDB revisioned document storage
 4. Recommendation engine: worker pool with result cache
 5. Event bus: in-process gochannel or NATS JetStream (-tags nats)
 6. History archive: DuckDB run persistence and queries
 7. Authentication and authorization: JWT/API keys + Casbin RBAC
 8. Supervisor tree: Suture v4 process supervision
 9. HTTP server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8245               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DATASET_PATH=/data/datasets  # BadgerDB dataset store directory
	HISTORY_ENABLED=true
	HISTORY_PATH=/data/conventus.duckdb

	# Authentication (choose one mode)
	AUTH_MODE=none               # none or token
	JWT_SECRET=<32+ chars>       # Required for token mode

	# Webhooks
	WEBHOOK_ENABLED=false
	WEBHOOK_TARGETS=https://ops.example.com/hooks/runs

See internal/config for the complete reference.

# Batch Mode

The server doubles as a one-shot CLI. With -batch it loads a dataset
document, runs the engine once, prints per-group reports to stdout,
and exits without starting the HTTP server:

	conventus-server -batch input.json
	conventus-server -batch input.json -top 5

# Build Tags

Optional build tags enable additional functionality:

	go build ./cmd/server              # Standard build (in-process event bus)
	go build -tags nats ./cmd/server   # Enable NATS JetStream events

With -tags nats and EVENTS_NATS_ENABLED=true the event bus runs over
NATS JetStream, optionally with an embedded server.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Broadcasts shutdown to WebSocket clients
 3. Waits for in-flight requests (HTTP_SHUTDOWN_TIMEOUT)
 4. Stops the event router and flushes the history archive
 5. Closes the dataset store
 6. Reports any services that failed to stop

# Usage Examples

Development (no auth):

	export AUTH_MODE=none DATASET_IN_MEMORY=true
	go run ./cmd/server

Production (token auth):

	export AUTH_MODE=token
	export JWT_SECRET=$(openssl rand -base64 32)
	export DATASET_PATH=/data/datasets HISTORY_PATH=/data/conventus.duckdb
	./conventus-server

Docker:

	docker run -d \
	  -e AUTH_MODE=none \
	  -v conventus-data:/data \
	  -p 8245:8245 \
	  ghcr.io/tomtom215/conventus

# API Documentation

Swagger documentation is available at /swagger/index.html when the
server is running. The API is organized into categories:

  - Datasets: Upload, list, activate, and delete dataset revisions
  - Recommendations: Compute runs and per-group ranked lists
  - History: Archived runs, group trends, top activities
  - Core: Health checks and readiness
  - Realtime: WebSocket run notifications

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/recommend: Scoring engine
*/
package main
