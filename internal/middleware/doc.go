// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

/*
Package middleware provides infrastructure HTTP middleware shared by the
API router.

Key Components:

  - Compression: gzip compression for responses when the client accepts it
  - PerformanceMonitor: in-process request latency tracking with
    percentile aggregation per endpoint
  - PrometheusMetrics: request counter and duration histogram
    instrumentation backed by internal/metrics

Request IDs are handled in internal/api (RequestIDWithLogging), which
builds on chi's RequestID middleware and the logging context helpers.

Thread Safety:

All components are safe for concurrent use. The performance monitor
guards its sliding window with an RWMutex; compression uses a pooled
gzip writer per request; Prometheus collectors are atomic.

See Also:

  - internal/api: router and middleware stack composition
  - internal/metrics: Prometheus collector definitions
*/
package middleware
