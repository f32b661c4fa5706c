// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package metrics provides Prometheus instrumentation.
//
// All metrics are registered on the default registry via promauto and
// exposed by the API server on /metrics. Families:
//
//   - api_*: request counts, latency, in-flight, rate-limit hits
//   - compute_*: engine runs, latency, cache efficiency, gate rejections
//   - dataset_*: uploads, rejections, current revision
//   - history_*: archive queries and retention
//   - events_*: published event counts per topic
//   - circuit_breaker_*: breaker state and outcomes
//   - webhook_*: delivery outcomes and latency
//   - websocket_*: connection gauge and message counts
//   - auth_*: issued tokens and failures
//   - app_*: version info and uptime
//
// Components record through the helper functions rather than touching
// the collectors directly, so label conventions stay in one place.
package metrics
