// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package websocket

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	// Initialize logging for tests with discard output
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub creates a hub running under a cancelable context.
// The hub is stopped automatically when the test finishes.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("Hub did not stop after context cancellation")
		}
	})
	return hub
}

// createTestClient creates a client without a network connection
func createTestClient(hub *Hub) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, conn: nil, send: make(chan Message, 256)}
}

// waitForClientCount polls until the hub reports the expected count
func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, got %d", want, hub.GetClientCount())
}

// receiveMessage reads one message from a client's send queue with a timeout
func receiveMessage(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case msg := <-client.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for message")
		return Message{}
	}
}

func sampleRunCompleted() *events.RunCompleted {
	return &events.RunCompleted{
		SchemaVersion:   1,
		EventID:         "evt-1",
		RunID:           "run-1",
		DatasetRevision: 3,
		StartedAt:       time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC),
		ElapsedMS:       42,
		Groups:          2,
		Activities:      5,
		Recommendations: 7,
		GateRejections:  1,
	}
}

func sampleDatasetUpdated() *events.DatasetUpdated {
	return &events.DatasetUpdated{
		SchemaVersion: 1,
		EventID:       "evt-2",
		Revision:      4,
		Users:         6,
		Groups:        3,
		Activities:    9,
		Checksum:      "abc123",
		UploadedAt:    time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}

	checks := []struct {
		name   string
		check  bool
		errMsg string
	}{
		{"clients map", hub.clients != nil, "clients map not initialized"},
		{"broadcast channel", hub.broadcast != nil, "broadcast channel not initialized"},
		{"Register channel", hub.Register != nil, "Register channel not initialized"},
		{"Unregister channel", hub.Unregister != nil, "Unregister channel not initialized"},
		{"empty clients", len(hub.clients) == 0, "clients map should be empty"},
	}

	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHub_GetClientCount(t *testing.T) {
	hub := NewHub()

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected 0 clients initially, got %d", hub.GetClientCount())
	}

	for i := 0; i < 5; i++ {
		hub.clients[createTestClient(hub)] = true
	}

	if hub.GetClientCount() != 5 {
		t.Errorf("Expected 5 clients, got %d", hub.GetClientCount())
	}
}

func TestHub_BroadcastMethodsWithoutClients(t *testing.T) {
	t.Run("BroadcastRunCompleted without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastRunCompleted(sampleRunCompleted())
	})

	t.Run("BroadcastDatasetUpdated without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastDatasetUpdated(sampleDatasetUpdated())
	})

	t.Run("BroadcastJSON without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastJSON("test_type", map[string]interface{}{"test_key": "test_value", "count": 42})
	})
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)

	hub.Register <- client
	waitForClientCount(t, hub, 1)

	hub.Unregister <- client
	waitForClientCount(t, hub, 0)

	// The hub closes the send channel on unregister
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("Expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("Send channel not closed after unregister")
	}
}

func TestHub_UnregisterUnknownClient(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)

	// Unregistering a client that never registered must not panic
	hub.Unregister <- client
	waitForClientCount(t, hub, 0)
}

func TestHub_BroadcastRunCompletedDeliversToAllClients(t *testing.T) {
	hub := setupHub(t)
	client1 := createTestClient(hub)
	client2 := createTestClient(hub)

	hub.Register <- client1
	hub.Register <- client2
	waitForClientCount(t, hub, 2)

	hub.BroadcastRunCompleted(sampleRunCompleted())

	for _, client := range []*Client{client1, client2} {
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
		if data.DatasetRevision != 3 {
			t.Errorf("Expected dataset revision 3, got %d", data.DatasetRevision)
		}
		if data.Groups != 2 {
			t.Errorf("Expected 2 groups, got %d", data.Groups)
		}
		if data.Recommendations != 7 {
			t.Errorf("Expected 7 recommendations, got %d", data.Recommendations)
		}
		if data.ElapsedMS != 42 {
			t.Errorf("Expected elapsed 42ms, got %d", data.ElapsedMS)
		}
		if data.Timestamp == "" {
			t.Error("Expected timestamp to be set")
		}
	}
}

func TestHub_BroadcastDatasetUpdatedDeliversToClients(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)

	hub.Register <- client
	waitForClientCount(t, hub, 1)

	hub.BroadcastDatasetUpdated(sampleDatasetUpdated())

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
	if data.Groups != 3 || data.Activities != 9 {
		t.Errorf("Expected 3 groups and 9 activities, got %d and %d", data.Groups, data.Activities)
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := setupHub(t)

	// A client whose send queue is already full cannot accept the
	// broadcast and must be dropped.
	slow := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 1)}
	slow.send <- Message{Type: "filler"}
	healthy := createTestClient(hub)

	hub.Register <- slow
	hub.Register <- healthy
	waitForClientCount(t, hub, 2)

	hub.BroadcastRunCompleted(sampleRunCompleted())
	waitForClientCount(t, hub, 1)

	msg := receiveMessage(t, healthy)
	if msg.Type != MessageTypeRunCompleted {
		t.Errorf("Expected healthy client to receive run_completed, got %s", msg.Type)
	}
}

func TestHub_RunWithContextCancellation(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- hub.RunWithContext(ctx)
	}()

	client := createTestClient(hub)
	hub.Register <- client
	waitForClientCount(t, hub, 1)

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Hub did not stop after cancellation")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected all clients closed on shutdown, got %d", hub.GetClientCount())
	}

	// Shutdown closes every client's send channel
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("Expected send channel to be closed on shutdown")
		}
	default:
		t.Error("Send channel not closed on shutdown")
	}
}

func TestGetShutdownReason(t *testing.T) {
	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if got := getShutdownReason(ctx); got != ShutdownReasonContextCanceled {
			t.Errorf("Expected %s, got %s", ShutdownReasonContextCanceled, got)
		}
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		if got := getShutdownReason(ctx); got != ShutdownReasonContextDeadline {
			t.Errorf("Expected %s, got %s", ShutdownReasonContextDeadline, got)
		}
	})
}

func TestHub_BroadcastChannelFull(t *testing.T) {
	// Hub is not running, so the broadcast channel fills up and further
	// broadcasts must drop instead of blocking.
	hub := NewHub()
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- Message{Type: "filler"}
	}

	done := make(chan struct{})
	go func() {
		hub.BroadcastRunCompleted(sampleRunCompleted())
		hub.BroadcastDatasetUpdated(sampleDatasetUpdated())
		hub.BroadcastJSON("test_type", nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full channel")
	}
}

func TestMarshalMessage(t *testing.T) {
	msg := Message{
		Type: MessageTypeRunCompleted,
		Data: RunCompletedData{
			Timestamp:       "2026-03-06T19:00:00Z",
			RunID:           "run-1",
			DatasetRevision: 3,
			Groups:          2,
			Recommendations: 7,
			ElapsedMS:       42,
		},
	}

	payload, err := MarshalMessage(msg)
	if err != nil {
		t.Fatalf("MarshalMessage() error: %v", err)
	}

	got := string(payload)
	for _, want := range []string{`"type":"run_completed"`, `"run_id":"run-1"`, `"dataset_revision":3`, `"elapsed_ms":42`} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected payload to contain %s, got %s", want, got)
		}
	}
	if strings.Contains(got, "cache_hit") {
		t.Error("Expected cache_hit to be omitted when false")
	}
}
