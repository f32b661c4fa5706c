// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package history

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/conventus/internal/events"
)

func TestRunCompletedHandlerArchives(t *testing.T) {
	store := newTestStore(t)
	handler := NewRunCompletedHandler(store)

	event := sampleRunEvent("run-handled", time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC))
	payload, err := events.Serialize(event)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	msg := message.NewMessage("msg-1", payload)
	if err := handler(msg); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	detail, err := store.GetRun(context.Background(), "run-handled")
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if len(detail.Results["group-1"]) != 2 {
		t.Errorf("Expected 2 rows for group-1, got %d", len(detail.Results["group-1"]))
	}
}

func TestRunCompletedHandlerMalformedPayload(t *testing.T) {
	store := newTestStore(t)
	handler := NewRunCompletedHandler(store)

	// Malformed payloads must be acked, not retried.
	msg := message.NewMessage("msg-bad", []byte("{not json"))
	if err := handler(msg); err != nil {
		t.Errorf("Expected nil error for malformed payload, got %v", err)
	}

	runs, err := store.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns() error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected nothing archived, got %d runs", len(runs))
	}
}

func TestRunCompletedHandlerReturnsArchiveErrors(t *testing.T) {
	cfg := &Config{Path: ":memory:", MaxMemory: "256MB"}
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	handler := NewRunCompletedHandler(store)

	payload, err := events.Serialize(sampleRunEvent("run-fail", time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	// Closing the store forces the archive write to fail, which must
	// surface to the router for retry.
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	msg := message.NewMessage("msg-fail", payload)
	if err := handler(msg); err == nil {
		t.Error("Expected error when archive fails, got nil")
	}
}
