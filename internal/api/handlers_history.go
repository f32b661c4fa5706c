// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/conventus/internal/history"
	"github.com/tomtom215/conventus/internal/models"
)

// defaultHistoryWindow is the lookback for top-activity rankings when
// the request does not name one.
const defaultHistoryWindow = 30 * 24 * time.Hour

// HistoryQuerier is the slice of the run archive the API consumes.
// *history.Store satisfies it; tests substitute hand-written fakes.
type HistoryQuerier interface {
	RecentRuns(ctx context.Context, limit int) ([]history.RunRecord, error)
	GetRun(ctx context.Context, runID string) (*history.RunDetail, error)
	GroupTrend(ctx context.Context, groupID string, limit int) ([]history.GroupTrendPoint, error)
	TopActivities(ctx context.Context, since time.Time, limit int) ([]history.ActivityRank, error)
	Ping(ctx context.Context) error
}

// SetHistory attaches the optional run archive. Passing nil leaves the
// history endpoints responding 503.
//
// Thread Safety: Safe for concurrent access but should be called once during startup.
func (h *Handler) SetHistory(querier HistoryQuerier) {
	h.history = querier
}

// requireHistory writes the disabled-archive error when no archive is
// attached.
func (h *Handler) requireHistory(w http.ResponseWriter) bool {
	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "HISTORY_DISABLED", ErrHistoryDisabled.Error(), nil)
		return false
	}
	return true
}

// HistoryRuns lists recent archived runs.
//
// @Summary List archived runs
// @Description Returns summaries of recently archived runs, newest first.
// @Tags History
// @Produce json
// @Param limit query int false "Maximum rows (default 50)"
// @Success 200 {object} models.APIResponse{data=[]history.RunRecord} "Run summaries"
// @Failure 503 {object} models.APIResponse "History archive disabled"
// @Router /history/runs [get]
func (h *Handler) HistoryRuns(w http.ResponseWriter, r *http.Request) {
	if !h.requireHistory(w) {
		return
	}

	limit := getIntParam(r, "limit", 0)
	runs, err := h.history.RecentRuns(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "HISTORY_ERROR", "Failed to query archived runs", err)
		return
	}
	if runs == nil {
		runs = []history.RunRecord{}
	}

	respondSuccess(w, http.StatusOK, runs, models.Metadata{Timestamp: time.Now()})
}

// HistoryRun returns one archived run with its recommendation rows.
//
// @Summary Get one archived run
// @Tags History
// @Produce json
// @Param runID path string true "Run id"
// @Success 200 {object} models.APIResponse{data=history.RunDetail} "Run detail"
// @Failure 404 {object} models.APIResponse "Unknown run"
// @Failure 503 {object} models.APIResponse "History archive disabled"
// @Router /history/runs/{runID} [get]
func (h *Handler) HistoryRun(w http.ResponseWriter, r *http.Request) {
	if !h.requireHistory(w) {
		return
	}

	runID := chi.URLParam(r, "runID")
	detail, err := h.history.GetRun(r.Context(), runID)
	if errors.Is(err, history.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown run", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "HISTORY_ERROR", "Failed to load archived run", err)
		return
	}

	respondSuccess(w, http.StatusOK, detail, models.Metadata{Timestamp: time.Now()})
}

// HistoryGroupTrend returns per-run score aggregates for one group.
//
// @Summary Get a group's score trend
// @Description Returns best and mean total scores per archived run for one group,
// @Description newest first, for charting score movement across uploads.
// @Tags History
// @Produce json
// @Param groupID path string true "Group id"
// @Param limit query int false "Maximum rows (default 50)"
// @Success 200 {object} models.APIResponse{data=[]history.GroupTrendPoint} "Trend points"
// @Failure 503 {object} models.APIResponse "History archive disabled"
// @Router /history/groups/{groupID}/trend [get]
func (h *Handler) HistoryGroupTrend(w http.ResponseWriter, r *http.Request) {
	if !h.requireHistory(w) {
		return
	}

	groupID := chi.URLParam(r, "groupID")
	limit := getIntParam(r, "limit", 0)

	points, err := h.history.GroupTrend(r.Context(), groupID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "HISTORY_ERROR", "Failed to query group trend", err)
		return
	}
	if points == nil {
		points = []history.GroupTrendPoint{}
	}

	respondSuccess(w, http.StatusOK, points, models.Metadata{Timestamp: time.Now()})
}

// HistoryTopActivities ranks activities across archived runs.
//
// @Summary Rank top activities
// @Description Ranks activities by mean total score across runs archived within the
// @Description lookback window. The window accepts Go durations plus a day suffix
// @Description ("72h", "7d"); the default is 30 days.
// @Tags History
// @Produce json
// @Param window query string false "Lookback window (default 30d)"
// @Param limit query int false "Maximum rows (default 50)"
// @Success 200 {object} models.APIResponse{data=[]history.ActivityRank} "Activity ranking"
// @Failure 503 {object} models.APIResponse "History archive disabled"
// @Router /history/activities/top [get]
func (h *Handler) HistoryTopActivities(w http.ResponseWriter, r *http.Request) {
	if !h.requireHistory(w) {
		return
	}

	window := parseWindow(r.URL.Query().Get("window"), defaultHistoryWindow)
	limit := getIntParam(r, "limit", 0)
	since := time.Now().Add(-window)

	ranks, err := h.history.TopActivities(r.Context(), since, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "HISTORY_ERROR", "Failed to rank activities", err)
		return
	}
	if ranks == nil {
		ranks = []history.ActivityRank{}
	}

	respondSuccess(w, http.StatusOK, ranks, models.Metadata{Timestamp: time.Now()})
}
