// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package websocket

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/conventus/internal/events"
)

func TestRunCompletedHandlerBroadcasts(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)
	hub.Register <- client
	waitForClientCount(t, hub, 1)

	payload, err := events.Serialize(sampleRunCompleted())
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	handler := NewRunCompletedHandler(hub)
	if err := handler(message.NewMessage("msg-1", payload)); err != nil {
		t.Fatalf("Handler error: %v", err)
	}

	msg := receiveMessage(t, client)
	if msg.Type != MessageTypeRunCompleted {
		t.Errorf("Expected type %s, got %s", MessageTypeRunCompleted, msg.Type)
	}
	data, ok := msg.Data.(RunCompletedData)
	if !ok {
		t.Fatalf("Expected RunCompletedData, got %T", msg.Data)
	}
	if data.RunID != "run-1" {
		t.Errorf("Expected run_id run-1, got %s", data.RunID)
	}
}

func TestDatasetUpdatedHandlerBroadcasts(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)
	hub.Register <- client
	waitForClientCount(t, hub, 1)

	payload, err := events.Serialize(sampleDatasetUpdated())
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	handler := NewDatasetUpdatedHandler(hub)
	if err := handler(message.NewMessage("msg-1", payload)); err != nil {
		t.Fatalf("Handler error: %v", err)
	}

	msg := receiveMessage(t, client)
	if msg.Type != MessageTypeDatasetUpdated {
		t.Errorf("Expected type %s, got %s", MessageTypeDatasetUpdated, msg.Type)
	}
	data, ok := msg.Data.(DatasetUpdatedData)
	if !ok {
		t.Fatalf("Expected DatasetUpdatedData, got %T", msg.Data)
	}
	if data.Revision != 4 {
		t.Errorf("Expected revision 4, got %d", data.Revision)
	}
}

func TestHandlersAckMalformedPayloads(t *testing.T) {
	hub := setupHub(t)

	handlers := map[string]message.NoPublishHandlerFunc{
		"run_completed":   NewRunCompletedHandler(hub),
		"dataset_updated": NewDatasetUpdatedHandler(hub),
	}

	for name, handler := range handlers {
		if err := handler(message.NewMessage("msg-1", []byte("{not json"))); err != nil {
			t.Errorf("%s: expected malformed payload to be acked, got %v", name, err)
		}
	}
}
