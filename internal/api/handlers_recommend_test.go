// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/conventus/internal/models"
	"github.com/tomtom215/conventus/internal/recommend"
)

func TestRecommendationsComputeCanonicalScenario(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/compute", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.RecommendationsCompute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	_, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	var result recommend.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode run result: %v", err)
	}

	recs := result.Recommendations["g1"]
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation for g1, got %d", len(recs))
	}

	r := recs[0]
	if r.SlotScore != 8.6 {
		t.Errorf("expected slotScore 8.6, got %v", r.SlotScore)
	}
	if r.ActivityScore != 8.8 {
		t.Errorf("expected activityScore 8.8, got %v", r.ActivityScore)
	}
	if r.TotalScore != 17.4 {
		t.Errorf("expected totalScore 17.4, got %v", r.TotalScore)
	}
	if r.SlotStart != "2026-01-02T19:00:00" || r.SlotEnd != "2026-01-02T21:30:00" {
		t.Errorf("expected slot bounds passed through verbatim, got %q/%q", r.SlotStart, r.SlotEnd)
	}
	if r.PriceEUR == nil || *r.PriceEUR != 20 {
		t.Errorf("expected price_eur passthrough 20, got %v", r.PriceEUR)
	}
	if r.DistanceKM == nil || *r.DistanceKM != 2 {
		t.Errorf("expected distance_km passthrough 2, got %v", r.DistanceKM)
	}
}

func TestRecommendationsComputeWireFormat(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/compute", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.RecommendationsCompute(rec, req)

	body := rec.Body.String()
	for _, field := range []string{
		`"groupId"`, `"activityId"`, `"activityName"`,
		`"slotStart"`, `"slotEnd"`,
		`"slotScore"`, `"activityScore"`, `"totalScore"`,
		`"location"`, `"price_eur"`, `"distance_km"`,
	} {
		if !strings.Contains(body, field) {
			t.Errorf("response body missing wire field %s", field)
		}
	}
}

func TestRecommendationsComputeNoDataset(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/compute", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.RecommendationsCompute(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with no dataset, got %d", rec.Code)
	}
}

func TestRecommendationsComputeUnknownRevision(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/compute",
		strings.NewReader(`{"revision": 99}`))
	rec := httptest.NewRecorder()
	h.RecommendationsCompute(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown revision, got %d", rec.Code)
	}
}

func TestRecommendationsComputeInvalidBody(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/compute",
		strings.NewReader(`{"topN": "three"}`))
	rec := httptest.NewRecorder()
	h.RecommendationsCompute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestRecommendationsComputePublishesOnce(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	pub := newFakePublisher()
	h.SetEventPublisher(pub)
	uploadDocument(t, h, canonicalDocument)

	// First compute is a cache miss and publishes.
	rec := httptest.NewRecorder()
	h.RecommendationsCompute(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/compute", strings.NewReader("{}")))
	if rec.Code != http.StatusOK {
		t.Fatalf("first compute: expected 200, got %d", rec.Code)
	}
	pub.waitPublished(t)

	// Second compute hits the cache and must not publish again.
	rec = httptest.NewRecorder()
	h.RecommendationsCompute(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/compute", strings.NewReader("{}")))
	if rec.Code != http.StatusOK {
		t.Fatalf("second compute: expected 200, got %d", rec.Code)
	}

	_, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	var result recommend.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode run result: %v", err)
	}
	if !result.CacheHit {
		t.Error("expected the second compute to be a cache hit")
	}
	if got := pub.runCompletedCount(); got != 1 {
		t.Errorf("expected exactly 1 run-completed event, got %d", got)
	}
}

func TestGroupRecommendations(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)

	router := NewRouter(h, nil, nil, nil)
	srv := router.SetupChi()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/groups/g1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	_, data, _ := decodeEnvelope(t, rec.Body.Bytes())
	var recs []models.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].GroupID != "g1" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
}

func TestGroupRecommendationsUnknownGroup(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	uploadDocument(t, h, canonicalDocument)

	router := NewRouter(h, nil, nil, nil)
	srv := router.SetupChi()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/groups/nobody", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown group, got %d", rec.Code)
	}
}
