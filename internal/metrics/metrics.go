// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Engine metrics
	ComputeRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compute_runs_total",
			Help: "Total number of recommendation engine runs",
		},
		[]string{"status"}, // "success", "error"
	)

	ComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compute_run_duration_seconds",
			Help:    "Duration of recommendation engine runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	ComputeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compute_cache_hits_total",
			Help: "Total number of engine result cache hits",
		},
	)

	ComputeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compute_cache_misses_total",
			Help: "Total number of engine result cache misses",
		},
	)

	RecommendationsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compute_recommendations_total",
			Help: "Total number of recommendations produced across runs",
		},
	)

	GateRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compute_gate_rejections_total",
			Help: "Total number of group/activity pairs rejected by the availability gate",
		},
	)

	// Dataset metrics
	DatasetRevision = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_current_revision",
			Help: "Revision number of the current dataset",
		},
	)

	DatasetUploads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_uploads_total",
			Help: "Total number of accepted dataset uploads",
		},
	)

	DatasetUploadRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_upload_rejections_total",
			Help: "Total number of rejected dataset uploads",
		},
		[]string{"reason"}, // "decode", "validation", "store"
	)

	// History archive metrics (DuckDB)
	HistoryQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "history_query_duration_seconds",
			Help:    "Duration of history archive queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	HistoryQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_query_errors_total",
			Help: "Total number of history archive query errors",
		},
		[]string{"operation"},
	)

	HistoryRunsArchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_runs_archived_total",
			Help: "Total number of engine runs written to the archive",
		},
	)

	HistoryRetentionDeletes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_retention_deletes_total",
			Help: "Total number of archived runs removed by retention sweeps",
		},
	)

	// Event metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published",
		},
		[]string{"topic"},
	)

	EventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_publish_errors_total",
			Help: "Total number of event publish failures",
		},
		[]string{"topic"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breakers",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Webhook metrics
	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Total number of webhook delivery attempts",
		},
		[]string{"target", "result"}, // "success", "failure", "rejected"
	)

	WebhookDeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_delivery_duration_seconds",
			Help:    "Duration of webhook deliveries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	// WebSocket metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSClientsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_clients_dropped_total",
			Help: "Total number of WebSocket clients dropped for falling behind",
		},
	)

	// Auth metrics
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of authentication failures",
		},
		[]string{"reason"}, // "credentials", "token", "rate_limited"
	)

	// System metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records one finished API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a throttled request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordComputeRun records one engine run. Cache hits are recorded
// separately via RecordComputeCache.
func RecordComputeRun(duration time.Duration, recommendations, gateRejections int, err error) {
	if err != nil {
		ComputeRuns.WithLabelValues("error").Inc()
		return
	}

	ComputeRuns.WithLabelValues("success").Inc()
	ComputeDuration.Observe(duration.Seconds())
	RecommendationsEmitted.Add(float64(recommendations))
	GateRejections.Add(float64(gateRejections))
}

// RecordComputeCache records an engine cache lookup outcome.
func RecordComputeCache(hit bool) {
	if hit {
		ComputeCacheHits.Inc()
	} else {
		ComputeCacheMisses.Inc()
	}
}

// RecordDatasetUpload records an accepted upload and moves the
// revision gauge.
func RecordDatasetUpload(revision uint64) {
	DatasetUploads.Inc()
	DatasetRevision.Set(float64(revision))
}

// RecordDatasetRejection records a rejected upload.
func RecordDatasetRejection(reason string) {
	DatasetUploadRejections.WithLabelValues(reason).Inc()
}

// RecordHistoryQuery records one archive query.
func RecordHistoryQuery(operation string, duration time.Duration, err error) {
	HistoryQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		HistoryQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordEventPublished records one event publish attempt.
func RecordEventPublished(topic string, err error) {
	if err != nil {
		EventPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}

// SetCircuitBreakerState moves a breaker's state gauge.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerRequest records one request outcome through a
// breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordWebhookDelivery records one webhook delivery attempt.
func RecordWebhookDelivery(target, result string, duration time.Duration) {
	WebhookDeliveries.WithLabelValues(target, result).Inc()
	WebhookDeliveryDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// TrackWSConnection tracks WebSocket client connects and disconnects.
func TrackWSConnection(inc bool) {
	if inc {
		WSConnections.Inc()
	} else {
		WSConnections.Dec()
	}
}

// RecordTokenIssued records a successful token exchange.
func RecordTokenIssued() {
	TokensIssued.Inc()
}

// RecordAuthFailure records an authentication failure.
func RecordAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}

// SetAppInfo publishes the build information gauge. Call once at
// startup.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// StartUptimeTicker updates the uptime gauge every interval until the
// stop channel closes.
func StartUptimeTicker(start time.Time, interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				AppUptime.Set(time.Since(start).Seconds())
			}
		}
	}()
}
