// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/history"
	"github.com/tomtom215/conventus/internal/models"
	"github.com/tomtom215/conventus/internal/recommend"
)

// newTestHandler builds a Handler over an in-memory dataset store and
// a default engine. The store is closed via t.Cleanup.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	store, err := dataset.OpenStore(&dataset.StoreConfig{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}

	return NewHandler(store, engine, nil, nil)
}

// uploadDocument stores a document through the handler's store and
// fails the test on any error.
func uploadDocument(t *testing.T, h *Handler, doc string) *models.DatasetMeta {
	t.Helper()

	ds, err := dataset.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	meta, err := h.store.Put(context.Background(), []byte(doc), ds)
	if err != nil {
		t.Fatalf("store test document: %v", err)
	}
	return meta
}

// canonicalDocument is the end-to-end scenario: two members free all
// week, one Friday-evening activity (2026-01-02 is a Friday). The
// expected scores are slot 8.6, activity 8.8, total 17.4.
const canonicalDocument = `{
	"users": [
		{"id": "alice", "calendar_busy": []},
		{"id": "bob"}
	],
	"groups": [
		{"id": "g1", "members": ["alice", "bob"]}
	],
	"activities": [
		{
			"id": "a1",
			"name": "Bowling night",
			"start": "2026-01-02T19:00:00",
			"end": "2026-01-02T21:30:00",
			"location": "Lanes 22",
			"price_eur": 20,
			"distance_km": 2
		}
	]
}`

// decodeEnvelope unmarshals a response body into the standard envelope
// with Data left as raw JSON for the caller to decode further.
func decodeEnvelope(t *testing.T, body []byte) (status string, data json.RawMessage, apiErr *models.APIError) {
	t.Helper()

	var envelope struct {
		Status string           `json:"status"`
		Data   json.RawMessage  `json:"data"`
		Error  *models.APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode response envelope: %v\nbody: %s", err, body)
	}
	return envelope.Status, envelope.Data, envelope.Error
}

// fakeHistory is a hand-written HistoryQuerier for handler tests.
type fakeHistory struct {
	runs    []history.RunRecord
	detail  *history.RunDetail
	trend   []history.GroupTrendPoint
	ranks   []history.ActivityRank
	pingErr error
	err     error
}

func (f *fakeHistory) RecentRuns(_ context.Context, _ int) ([]history.RunRecord, error) {
	return f.runs, f.err
}

func (f *fakeHistory) GetRun(_ context.Context, _ string) (*history.RunDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.detail == nil {
		return nil, history.ErrRunNotFound
	}
	return f.detail, nil
}

func (f *fakeHistory) GroupTrend(_ context.Context, _ string, _ int) ([]history.GroupTrendPoint, error) {
	return f.trend, f.err
}

func (f *fakeHistory) TopActivities(_ context.Context, _ time.Time, _ int) ([]history.ActivityRank, error) {
	return f.ranks, f.err
}

func (f *fakeHistory) Ping(_ context.Context) error {
	return f.pingErr
}

// fakePublisher records published events for assertions. Publishing
// happens on detached goroutines, so access is mutex-guarded and the
// published channel signals each delivery.
type fakePublisher struct {
	mu             sync.Mutex
	runCompleted   []*events.RunCompleted
	datasetUpdated []*events.DatasetUpdated
	published      chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(chan struct{}, 16)}
}

func (f *fakePublisher) PublishRunCompleted(_ context.Context, event *events.RunCompleted) error {
	f.mu.Lock()
	f.runCompleted = append(f.runCompleted, event)
	f.mu.Unlock()
	f.published <- struct{}{}
	return nil
}

func (f *fakePublisher) PublishDatasetUpdated(_ context.Context, event *events.DatasetUpdated) error {
	f.mu.Lock()
	f.datasetUpdated = append(f.datasetUpdated, event)
	f.mu.Unlock()
	f.published <- struct{}{}
	return nil
}

// waitPublished blocks until one event lands or the timeout expires.
func (f *fakePublisher) waitPublished(t *testing.T) {
	t.Helper()
	select {
	case <-f.published:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event publication")
	}
}

func (f *fakePublisher) runCompletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runCompleted)
}
