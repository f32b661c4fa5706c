// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/metrics"
	"github.com/tomtom215/conventus/internal/models"
	"github.com/tomtom215/conventus/internal/recommend"
)

// RecommendationsCompute runs the engine over a stored revision.
//
// @Summary Compute recommendations
// @Description Runs the scoring engine over the current dataset revision, or the one
// @Description named in the request body. topN trims every group's ranked list; zero
// @Description or absent returns everything. An empty body computes the current
// @Description revision untrimmed.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body models.ComputeRequest false "Compute options"
// @Success 200 {object} models.APIResponse{data=recommend.RunResult} "Run result"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 404 {object} models.APIResponse "Unknown or missing dataset revision"
// @Failure 500 {object} models.APIResponse "Engine failure"
// @Router /recommendations/compute [post]
func (h *Handler) RecommendationsCompute(w http.ResponseWriter, r *http.Request) {
	var req models.ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	result, ok := h.computeRevision(w, r, req.Revision)
	if !ok {
		return
	}

	// ClampTopN applies the configured default when the request omits
	// topN and caps explicit values at the configured maximum.
	if n := h.engine.ClampTopN(req.TopN); n > 0 {
		result = recommend.TopN(result, n)
	}

	logging.Ctx(r.Context()).Info().
		Str("run_id", result.RunID).
		Uint64("revision", result.DatasetRevision).
		Int("recommendations", result.RecommendationCount).
		Bool("cache_hit", result.CacheHit).
		Msg("Recommendations computed")

	respondSuccess(w, http.StatusOK, result, models.Metadata{
		Timestamp:     time.Now(),
		ComputeTimeMS: result.ElapsedMS,
		Cached:        result.CacheHit,
	})
}

// GroupRecommendations returns one group's ranked list from a run over
// the current revision.
//
// @Summary Get one group's recommendations
// @Description Computes (or serves from the result cache) the current revision and
// @Description returns the ranked activity list for a single group.
// @Tags Recommendations
// @Produce json
// @Param groupID path string true "Group id"
// @Param topN query int false "Trim the list to its best n entries"
// @Success 200 {object} models.APIResponse{data=[]models.Recommendation} "Ranked list"
// @Failure 404 {object} models.APIResponse "Unknown group or no dataset"
// @Router /recommendations/groups/{groupID} [get]
func (h *Handler) GroupRecommendations(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	result, ok := h.computeRevision(w, r, 0)
	if !ok {
		return
	}

	recs, found := result.Recommendations[groupID]
	if !found {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown group", nil)
		return
	}

	if n := h.engine.ClampTopN(getIntParam(r, "topN", 0)); n > 0 && n < len(recs) {
		recs = recs[:n]
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}

	respondSuccess(w, http.StatusOK, recs, models.Metadata{
		Timestamp:     time.Now(),
		ComputeTimeMS: result.ElapsedMS,
		Cached:        result.CacheHit,
	})
}

// computeRevision loads the requested revision (zero means current)
// and runs the engine over it, recording metrics and publishing the
// run-completed event. On failure it writes the error response and
// returns ok=false.
func (h *Handler) computeRevision(w http.ResponseWriter, r *http.Request, revision uint64) (*recommend.RunResult, bool) {
	ctx := r.Context()

	var (
		ds  *models.Dataset
		err error
	)
	if revision > 0 {
		ds, err = h.store.Revision(ctx, revision)
	} else {
		ds, err = h.store.Current(ctx)
	}
	switch {
	case errors.Is(err, dataset.ErrRevisionNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown dataset revision", nil)
		return nil, false
	case errors.Is(err, dataset.ErrNoCurrentDataset):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No dataset uploaded yet", nil)
		return nil, false
	case err != nil:
		respondError(w, http.StatusInternalServerError, "DATASET_ERROR", "Failed to load dataset", err)
		return nil, false
	}

	start := time.Now()
	result, err := h.engine.Compute(ctx, ds)
	metrics.RecordComputeRun(time.Since(start), resultCount(result), resultRejections(result), err)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "COMPUTE_ERROR", "Recommendation run failed", err)
		return nil, false
	}
	metrics.RecordComputeCache(result.CacheHit)

	// Cache hits were already announced by the run that produced them.
	if !result.CacheHit {
		h.publishRunCompleted(result)
	}

	return result, true
}

func resultCount(result *recommend.RunResult) int {
	if result == nil {
		return 0
	}
	return result.RecommendationCount
}

func resultRejections(result *recommend.RunResult) int {
	if result == nil {
		return 0
	}
	return result.GateRejections
}
