// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package models

import (
	"time"
)

// APIResponse is the standardized wrapper every HTTP endpoint returns.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only on failure. Metadata is always present for
// observability.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"runId": "...", "recommendations": {...}},
//	  "metadata": {
//	    "timestamp": "2026-03-06T12:00:00Z",
//	    "compute_time_ms": 4,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "invalid topN parameter",
//	    "details": {"field": "topN"}
//	  },
//	  "metadata": {"timestamp": "2026-03-06T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields. ComputeTimeMS is
// the engine or store time spent producing the payload; zero for
// cached responses, which set Cached instead.
type Metadata struct {
	Timestamp     time.Time `json:"timestamp"`
	ComputeTimeMS int64     `json:"compute_time_ms,omitempty"`
	Cached        bool      `json:"cached,omitempty"`
}

// APIError is the structured error body shared across all endpoints.
//
// Common codes:
//   - VALIDATION_ERROR: invalid input parameters or document
//   - NOT_FOUND: unknown revision, run, or group
//   - AUTHENTICATION_ERROR: missing or invalid credentials
//   - AUTHORIZATION_ERROR: insufficient role
//   - DATASET_ERROR: dataset store failure
//   - COMPUTE_ERROR: engine failure
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the health endpoint. Status is
// "healthy" or "degraded"; readiness is a separate endpoint.
type HealthStatus struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	Uptime           float64 `json:"uptime"`
	CurrentRevision  uint64  `json:"current_revision"`
	HistoryEnabled   bool    `json:"history_enabled"`
	HistoryConnected bool    `json:"history_connected"`
	WebsocketClients int     `json:"websocket_clients"`
	EngineRuns       int64   `json:"engine_runs"`
}

// ComputeRequest asks the engine for a run over a stored dataset.
// Revision zero (or absent) means the current revision. TopN trims
// each group's ranked list; zero or absent returns everything.
type ComputeRequest struct {
	Revision uint64 `json:"revision,omitempty"`
	TopN     int    `json:"topN,omitempty" validate:"gte=0,lte=1000"`
}
