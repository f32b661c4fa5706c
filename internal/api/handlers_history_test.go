// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/conventus/internal/history"
)

func TestHistoryEndpointsDisabled(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	router := NewRouter(h, nil, nil, nil)
	srv := router.SetupChi()

	paths := []string{
		"/api/v1/history/runs",
		"/api/v1/history/runs/some-run",
		"/api/v1/history/groups/g1/trend",
		"/api/v1/history/activities/top",
	}

	for _, path := range paths {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s without archive: expected 503, got %d", path, rec.Code)
		}
	}
}

func TestHistoryRuns(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	h.SetHistory(&fakeHistory{runs: []history.RunRecord{
		{RunID: "run-2", DatasetRevision: 3, StartedAt: time.Now(), Recommendations: 4},
		{RunID: "run-1", DatasetRevision: 2, StartedAt: time.Now().Add(-time.Hour), Recommendations: 2},
	}})

	rec := httptest.NewRecorder()
	h.HistoryRuns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/runs?limit=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	_, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	var runs []history.RunRecord
	if err := json.Unmarshal(data, &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-2" {
		t.Fatalf("unexpected runs payload: %+v", runs)
	}
}

func TestHistoryRunsEmptyIsArray(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	h.SetHistory(&fakeHistory{})

	rec := httptest.NewRecorder()
	h.HistoryRuns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/runs", nil))

	_, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	if string(data) != "[]" {
		t.Errorf("expected empty array, got %s", data)
	}
}

func TestHistoryRunNotFound(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	h.SetHistory(&fakeHistory{})

	router := NewRouter(h, nil, nil, nil)
	srv := router.SetupChi()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/runs/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown run, got %d", rec.Code)
	}
}

func TestHistoryTopActivities(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	h.SetHistory(&fakeHistory{ranks: []history.ActivityRank{
		{ActivityID: "a1", ActivityName: "Bowling night", Appearances: 3, MeanScore: 17.4, BestScore: 17.4},
	}})

	rec := httptest.NewRecorder()
	h.HistoryTopActivities(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/activities/top?window=7d", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	_, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	var ranks []history.ActivityRank
	if err := json.Unmarshal(data, &ranks); err != nil {
		t.Fatalf("decode ranks: %v", err)
	}
	if len(ranks) != 1 || ranks[0].ActivityID != "a1" {
		t.Fatalf("unexpected ranks payload: %+v", ranks)
	}
}
