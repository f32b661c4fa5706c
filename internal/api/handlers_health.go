// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/models"
)

// Health handles health check requests.
//
// @Summary Get system health status
// @Description Returns overall health including the current dataset revision, history
// @Description archive connectivity, WebSocket client count, and uptime. Always
// @Description responds 200; degradation is reported in the status field.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := "healthy"

	var currentRevision uint64
	if h.store != nil {
		revision, err := h.store.CurrentRevision(ctx)
		switch {
		case errors.Is(err, dataset.ErrNoCurrentDataset):
			// An empty store is healthy, just unused.
		case err != nil:
			status = "degraded"
		default:
			currentRevision = revision
		}
	} else {
		status = "degraded"
	}

	historyEnabled := h.history != nil
	historyConnected := historyEnabled && h.history.Ping(ctx) == nil
	if historyEnabled && !historyConnected {
		status = "degraded"
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}

	var engineRuns int64
	if h.engine != nil {
		engineRuns = h.engine.GetStats().Runs
	}

	health := models.HealthStatus{
		Status:           status,
		Version:          "1.0.0",
		Uptime:           time.Since(h.startTime).Seconds(),
		CurrentRevision:  currentRevision,
		HistoryEnabled:   historyEnabled,
		HistoryConnected: historyConnected,
		WebsocketClients: clients,
		EngineRuns:       engineRuns,
	}

	respondSuccess(w, http.StatusOK, health, models.Metadata{Timestamp: time.Now()})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only if the service is ready to handle traffic.
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if the dataset store is open and the history
// @Description archive (when enabled) answers. Returns 503 if not ready.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /readyz [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeReady := h.store != nil
	historyReady := h.history == nil || h.history.Ping(ctx) == nil
	ready := storeReady && historyReady

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"store_ready":    storeReady,
			"history_ready":  historyReady,
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
