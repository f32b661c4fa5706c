// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/models"
)

func TestDatasetUpload(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	pub := newFakePublisher()
	h.SetEventPublisher(pub)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", strings.NewReader(canonicalDocument))
	rec := httptest.NewRecorder()
	h.DatasetUpload(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	status, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	if status != "success" {
		t.Fatalf("expected success status, got %q", status)
	}

	var meta models.DatasetMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Revision != 1 {
		t.Errorf("expected revision 1, got %d", meta.Revision)
	}
	if meta.Users != 2 || meta.Groups != 1 || meta.Activities != 1 {
		t.Errorf("unexpected counts: users=%d groups=%d activities=%d", meta.Users, meta.Groups, meta.Activities)
	}
	if !meta.Current {
		t.Error("expected the uploaded revision to be current")
	}

	pub.waitPublished(t)
}

func TestDatasetUploadMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"users": [`},
		{name: "bad timestamp aborts load", body: `{
			"users": [{"id": "u1", "calendar_busy": [{"start": "not-a-time", "end": "2026-01-02T10:00:00"}]}],
			"groups": [],
			"activities": []
		}`},
		{name: "activity missing name", body: `{
			"users": [],
			"groups": [],
			"activities": [{"id": "a1", "start": "2026-01-02T19:00:00", "end": "2026-01-02T21:00:00"}]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestHandler(t)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.DatasetUpload(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			_, _, apiErr := decodeEnvelope(t, rec.Body.Bytes())
			if apiErr == nil || apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("expected VALIDATION_ERROR, got %+v", apiErr)
			}
		})
	}
}

func TestDatasetList(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	// Empty store lists an empty array, not null.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil)
	rec := httptest.NewRecorder()
	h.DatasetList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	_, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	if string(data) != "[]" {
		t.Errorf("expected empty array, got %s", data)
	}

	uploadDocument(t, h, canonicalDocument)
	uploadDocument(t, h, canonicalDocument)

	rec = httptest.NewRecorder()
	h.DatasetList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil))

	_, data, _ = decodeEnvelope(t, rec.Body.Bytes())
	var metas []models.DatasetMeta
	if err := json.Unmarshal(data, &metas); err != nil {
		t.Fatalf("decode metas: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(metas))
	}
	if metas[0].Current || !metas[1].Current {
		t.Error("expected only the latest revision to be current")
	}
}

func TestDatasetCurrentEmpty(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.DatasetCurrent(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/current", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty store, got %d", rec.Code)
	}
	_, _, apiErr := decodeEnvelope(t, rec.Body.Bytes())
	if apiErr == nil || apiErr.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %+v", apiErr)
	}
}

func TestDatasetGetViaRouter(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)

	router := NewRouter(h, nil, nil, nil)
	srv := router.SetupChi()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "existing revision", path: "/api/v1/datasets/1", wantStatus: http.StatusOK},
		{name: "unknown revision", path: "/api/v1/datasets/42", wantStatus: http.StatusNotFound},
		{name: "non-numeric revision", path: "/api/v1/datasets/latest", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("GET %s: expected %d, got %d: %s", tt.path, tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDatasetDeleteCurrentConflict(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)

	router := NewRouter(h, nil, nil, nil)
	srv := router.SetupChi()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/datasets/1", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting the current revision, got %d", rec.Code)
	}

	// After a second upload, revision 1 is no longer current and can go.
	uploadDocument(t, h, canonicalDocument)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/datasets/1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting an old revision, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDatasetDeleteDropsCachedRun(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)
	uploadDocument(t, h, canonicalDocument)

	// Prime the engine cache for revision 1.
	ds, err := dataset.Parse([]byte(canonicalDocument))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	ds.Revision = 1
	if _, err := h.engine.Compute(context.Background(), ds); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	router := NewRouter(h, nil, nil, nil)
	srv := router.SetupChi()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/datasets/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The cached run goes with the document.
	result, err := h.engine.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if result.CacheHit {
		t.Error("deleted revision still served from the engine cache")
	}
}

func TestDatasetActivateRollback(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)
	uploadDocument(t, h, canonicalDocument)

	router := NewRouter(h, nil, nil, nil)
	srv := router.SetupChi()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/datasets/1/activate", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	_, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	var meta models.DatasetMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Revision != 1 || !meta.Current {
		t.Errorf("expected revision 1 current after activation, got %+v", meta)
	}
}
