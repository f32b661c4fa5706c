// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package notify

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/conventus/internal/events"
)

func TestRunCompletedHandlerDelivers(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Targets = []string{srv.URL}
	handler := NewRunCompletedHandler(newTestNotifier(cfg))

	payload, err := events.Serialize(sampleEvent())
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	if err := handler(message.NewMessage("msg-1", payload)); err != nil {
		t.Fatalf("Handler error: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("Expected 1 delivery, got %d", got)
	}
}

func TestRunCompletedHandlerAcksMalformedPayload(t *testing.T) {
	handler := NewRunCompletedHandler(newTestNotifier(DefaultConfig()))

	if err := handler(message.NewMessage("msg-1", []byte("{not json"))); err != nil {
		t.Errorf("Expected malformed payload to be acked, got %v", err)
	}
}

func TestRunCompletedHandlerAcksDeliveryFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Targets = []string{srv.URL}
	cfg.MaxRetries = 0
	cfg.Timeout = time.Second
	handler := NewRunCompletedHandler(newTestNotifier(cfg))

	payload, err := events.Serialize(sampleEvent())
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	// Redelivering would re-post to targets that already accepted, so the
	// handler reports the failure and acks anyway.
	if err := handler(message.NewMessage("msg-1", payload)); err != nil {
		t.Errorf("Expected delivery failure to be acked, got %v", err)
	}
}
