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

	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/metrics"
	"github.com/tomtom215/conventus/internal/models"
)

// maxDatasetBytes caps uploaded document size. Documents are held in
// memory twice during intake (raw bytes plus parsed form).
const maxDatasetBytes = 16 << 20 // 16 MiB

// DatasetUpload stores a new dataset revision.
//
// @Summary Upload a dataset document
// @Description Parses and validates a dataset document (users, groups, activities),
// @Description stores it as a new revision, and makes that revision current.
// @Tags Datasets
// @Accept json
// @Produce json
// @Success 201 {object} models.APIResponse{data=models.DatasetMeta} "Dataset stored"
// @Failure 400 {object} models.APIResponse "Malformed or invalid document"
// @Failure 413 {object} models.APIResponse "Document too large"
// @Router /datasets [post]
func (h *Handler) DatasetUpload(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDatasetBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.RecordDatasetRejection("too_large")
			respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "Dataset document too large", err)
			return
		}
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to read request body", err)
		return
	}

	ds, err := dataset.Parse(raw)
	if err != nil {
		metrics.RecordDatasetRejection("malformed")
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err)
		return
	}

	meta, err := h.store.Put(r.Context(), raw, ds)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATASET_ERROR", "Failed to store dataset", err)
		return
	}

	metrics.RecordDatasetUpload(meta.Revision)
	h.publishDatasetUpdated(meta)

	logging.Ctx(r.Context()).Info().
		Uint64("revision", meta.Revision).
		Int("users", meta.Users).
		Int("groups", meta.Groups).
		Int("activities", meta.Activities).
		Msg("Dataset uploaded")

	respondSuccess(w, http.StatusCreated, meta, models.Metadata{Timestamp: time.Now()})
}

// DatasetList lists every stored revision.
//
// @Summary List dataset revisions
// @Description Returns metadata for every stored dataset revision in ascending
// @Description revision order, with the current one flagged.
// @Tags Datasets
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.DatasetMeta} "Revisions listed"
// @Router /datasets [get]
func (h *Handler) DatasetList(w http.ResponseWriter, r *http.Request) {
	metas, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATASET_ERROR", "Failed to list datasets", err)
		return
	}
	if metas == nil {
		metas = []models.DatasetMeta{}
	}

	respondSuccess(w, http.StatusOK, metas, models.Metadata{Timestamp: time.Now()})
}

// DatasetCurrent returns metadata for the current revision.
//
// @Summary Get the current dataset revision
// @Tags Datasets
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.DatasetMeta} "Current revision"
// @Failure 404 {object} models.APIResponse "No dataset uploaded yet"
// @Router /datasets/current [get]
func (h *Handler) DatasetCurrent(w http.ResponseWriter, r *http.Request) {
	revision, err := h.store.CurrentRevision(r.Context())
	if errors.Is(err, dataset.ErrNoCurrentDataset) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No dataset uploaded yet", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATASET_ERROR", "Failed to resolve current revision", err)
		return
	}

	h.respondDatasetMeta(w, r, revision)
}

// DatasetGet returns metadata for one stored revision.
//
// @Summary Get one dataset revision
// @Tags Datasets
// @Produce json
// @Param revision path int true "Dataset revision"
// @Success 200 {object} models.APIResponse{data=models.DatasetMeta} "Revision metadata"
// @Failure 400 {object} models.APIResponse "Invalid revision"
// @Failure 404 {object} models.APIResponse "Unknown revision"
// @Router /datasets/{revision} [get]
func (h *Handler) DatasetGet(w http.ResponseWriter, r *http.Request) {
	revision, err := revisionParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	h.respondDatasetMeta(w, r, revision)
}

func (h *Handler) respondDatasetMeta(w http.ResponseWriter, r *http.Request, revision uint64) {
	meta, err := h.store.Meta(r.Context(), revision)
	if errors.Is(err, dataset.ErrRevisionNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown dataset revision", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATASET_ERROR", "Failed to load dataset metadata", err)
		return
	}

	respondSuccess(w, http.StatusOK, meta, models.Metadata{Timestamp: time.Now()})
}

// DatasetActivate points the current pointer at an older revision.
//
// @Summary Activate a dataset revision
// @Description Rolls the current pointer back (or forward) to the named revision.
// @Description Subsequent computes run against it.
// @Tags Datasets
// @Produce json
// @Param revision path int true "Dataset revision"
// @Success 200 {object} models.APIResponse{data=models.DatasetMeta} "Revision activated"
// @Failure 404 {object} models.APIResponse "Unknown revision"
// @Router /datasets/{revision}/activate [post]
func (h *Handler) DatasetActivate(w http.ResponseWriter, r *http.Request) {
	revision, err := revisionParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	err = h.store.Activate(r.Context(), revision)
	if errors.Is(err, dataset.ErrRevisionNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown dataset revision", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATASET_ERROR", "Failed to activate revision", err)
		return
	}

	logging.Ctx(r.Context()).Info().Uint64("revision", revision).Msg("Dataset revision activated via API")
	h.respondDatasetMeta(w, r, revision)
}

// DatasetDelete removes a non-current stored revision.
//
// @Summary Delete a dataset revision
// @Description Removes a stored revision. The current revision cannot be deleted;
// @Description activate another one first.
// @Tags Datasets
// @Produce json
// @Param revision path int true "Dataset revision"
// @Success 200 {object} models.APIResponse "Revision deleted"
// @Failure 404 {object} models.APIResponse "Unknown revision"
// @Failure 409 {object} models.APIResponse "Revision is current"
// @Router /datasets/{revision} [delete]
func (h *Handler) DatasetDelete(w http.ResponseWriter, r *http.Request) {
	revision, err := revisionParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	err = h.store.Delete(r.Context(), revision)
	switch {
	case errors.Is(err, dataset.ErrRevisionNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown dataset revision", nil)
		return
	case errors.Is(err, dataset.ErrDeleteCurrent):
		respondError(w, http.StatusConflict, "CONFLICT", "Cannot delete the current revision", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "DATASET_ERROR", "Failed to delete revision", err)
		return
	}

	// The engine's result cache is keyed by revision; drop the entry
	// so it does not outlive the deleted document.
	h.engine.InvalidateRevision(revision)

	logging.Ctx(r.Context()).Info().Uint64("revision", revision).Msg("Dataset revision deleted via API")
	respondSuccess(w, http.StatusOK, map[string]interface{}{"revision": revision, "deleted": true}, models.Metadata{Timestamp: time.Now()})
}
