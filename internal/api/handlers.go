// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/conventus/internal/config"
	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/middleware"
	"github.com/tomtom215/conventus/internal/recommend"
	ws "github.com/tomtom215/conventus/internal/websocket"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files by concern:
//   - handlers.go: Handler struct, constructor, WebSocket upgrader (this file)
//   - handlers_helpers.go: shared response and parsing helpers
//   - handlers_datasets.go: dataset store endpoints
//   - handlers_recommend.go: engine endpoints
//   - handlers_history.go: run archive endpoints
//   - handlers_health.go: health and readiness endpoints
//   - handlers_ws.go: WebSocket upgrade endpoint
//   - handler_event_publisher.go: fire-and-forget event publishing
type Handler struct {
	store     *dataset.Store
	engine    *recommend.Engine
	config    *config.Config
	wsHub     *ws.Hub
	history   HistoryQuerier // optional, nil when the archive is disabled
	publisher EventPublisher // optional, nil when eventing is disabled
	startTime time.Time
	perfMon   *middleware.PerformanceMonitor
}

// NewHandler creates a new API handler with the required dependencies.
//
// The dataset store and engine are mandatory; the history archive and
// event publisher are optional and attached via SetHistory and
// SetEventPublisher after construction. wsHub may be nil when the
// WebSocket feed is disabled.
//
// Example:
//
//	handler := api.NewHandler(store, engine, cfg, wsHub)
//	router := api.NewRouter(handler, authSvc, authzMW, cfg)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(store *dataset.Store, engine *recommend.Engine, cfg *config.Config, wsHub *ws.Hub) *Handler {
	return &Handler{
		store:     store,
		engine:    engine,
		config:    cfg,
		wsHub:     wsHub,
		startTime: time.Now(),
		perfMon:   middleware.NewPerformanceMonitor(1000), // keep last 1000 requests
	}
}

// GetPerformanceStats returns in-process latency statistics per endpoint.
func (h *Handler) GetPerformanceStats() []middleware.EndpointStats {
	if h.perfMon != nil {
		return h.perfMon.GetStats()
	}
	return nil
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout for protection against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// If no origin header, REJECT - legitimate browser WebSockets ALWAYS include Origin.
	// Only non-browser clients (curl, scripts, mobile apps) omit Origin header.
	// Allowing empty Origin bypasses CORS entirely.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// If config is nil, allow by default (fail open for tests/development)
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.CORS.Origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	// Origin not in allowed list - sanitize origin to prevent log injection
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
