// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

/*
Package api provides the HTTP REST API layer for Conventus.

This package exposes the dataset store, the recommendation engine, and
the run history archive over JSON endpoints, and serves the WebSocket
feed for live run notifications. It is the only package that speaks
HTTP; everything underneath it is plain Go.

Key Components:

  - Router: Chi route configuration and middleware stack integration
  - Handler: Request handlers for all API endpoints
  - Response formatting: Standardized JSON envelope with metadata
  - Error handling: Consistent error responses with appropriate HTTP status codes
  - Authentication integration: bearer-token auth via internal/auth
  - Authorization: casbin RBAC via internal/authz
  - Rate limiting: per-IP limits via go-chi/httprate
  - CORS: Cross-Origin Resource Sharing via go-chi/cors

API Categories:

1. Dataset Endpoints (/api/v1/datasets):
  - Upload a new dataset document (POST /)
  - List stored revisions, inspect one, inspect the current one
  - Activate an older revision (rollback), delete a non-current one

2. Recommendation Endpoints (/api/v1/recommendations):
  - Run the engine over a stored revision (POST /compute)
  - Fetch one group's ranked list (GET /groups/{groupID})

3. History Endpoints (/api/v1/history):
  - Recent archived runs, single run detail
  - Per-group score trends, top activities over a window

4. Operational Endpoints:
  - Health and readiness (healthz, readyz)
  - Prometheus metrics (/metrics), Swagger UI (/swagger)
  - Token issuance (POST /api/v1/auth/token)

5. WebSocket Endpoint (/api/v1/ws):
  - Run-completed and dataset-updated notifications

Usage Example:

	import (
	    "github.com/tomtom215/conventus/internal/api"
	    "github.com/tomtom215/conventus/internal/auth"
	    "github.com/tomtom215/conventus/internal/authz"
	)

	handler := api.NewHandler(store, engine, cfg, hub)
	handler.SetHistory(historyStore)
	handler.SetEventPublisher(bus)

	authSvc, _ := auth.NewService(&cfg.Auth)
	enforcer, _ := authz.NewEnforcer(&cfg.Authz)

	router := api.NewRouter(handler, authSvc, authz.NewMiddleware(enforcer), cfg)
	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())

Thread Safety:

All handlers are safe for concurrent requests. Shared resources (the
dataset store, the engine cache, the WebSocket hub) carry their own
synchronization.

See Also:

  - internal/dataset: revisioned dataset store
  - internal/recommend: scoring engine and result cache
  - internal/history: DuckDB run archive
  - internal/auth, internal/authz: authentication and RBAC
*/
package api
