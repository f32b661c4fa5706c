// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
// This enables clear observability in logs and metrics.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	// This may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeRunCompleted   = "run_completed"
	MessageTypeDatasetUpdated = "dataset_updated"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Options tunes client connection behavior.
type Options struct {
	// SendBuffer is the per-client outbound queue length. A client
	// whose queue is full at broadcast time is dropped.
	SendBuffer int

	// PingInterval is the protocol ping period. The read deadline is
	// twice this interval, so a dead peer is detected within two
	// keepalive cycles.
	PingInterval time.Duration

	// WriteTimeout is the per-message write deadline.
	WriteTimeout time.Duration
}

// DefaultOptions returns the default connection tuning.
func DefaultOptions() Options {
	return Options{
		SendBuffer:   32,
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	opts       Options
	mu         sync.RWMutex
}

// NewHub creates a new Hub with default options
func NewHub() *Hub {
	return NewHubWithOptions(DefaultOptions())
}

// NewHubWithOptions creates a new Hub. Zero or negative option values
// fall back to the defaults.
func NewHubWithOptions(opts Options) *Hub {
	defaults := DefaultOptions()
	if opts.SendBuffer < 1 {
		opts.SendBuffer = defaults.SendBuffer
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaults.PingInterval
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaults.WriteTimeout
	}

	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		opts:       opts,
	}
}

// RunWithContext starts the hub with context support for graceful shutdown.
// This method is designed for use with suture supervision.
//
// When the context is canceled:
//  1. All connected clients are gracefully closed
//  2. The method returns ctx.Err()
//
// This allows the hub to be restarted by a supervisor without leaving
// orphaned connections.
//
// DETERMINISM: Uses priority-based selection to ensure predictable behavior:
// - Priority 1: Context cancellation (shutdown)
// - Priority 2: Client lifecycle events (Register/Unregister)
// - Priority 3: Broadcast messages
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// DETERMINISM: Priority-based selection prevents non-deterministic
		// ordering when multiple channels are ready simultaneously.

		// Priority 1: Check for shutdown (highest priority, non-blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
			// Context not canceled, continue
		}

		// Priority 2: Handle client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.registerClient(client)
			continue
		case client := <-h.Unregister:
			h.unregisterClient(client)
			continue
		default:
			// No lifecycle events pending
		}

		// Priority 3: Handle broadcast messages or wait for any event (blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	metrics.TrackWSConnection(true)
	logging.Info().Int("total_clients", h.GetClientCount()).Msg("websocket client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.TrackWSConnection(false)
	}
	h.mu.Unlock()
	logging.Info().Int("total_clients", h.GetClientCount()).Msg("websocket client disconnected")
}

// logGracefulShutdown logs the shutdown with structured fields for observability.
// This method:
//  1. Closes all connected clients
//  2. Logs structured shutdown information without error field
//
// Note: ctx.Err() is NOT logged as an error because context cancellation
// is expected behavior during graceful shutdown. Logging it as .Err() would
// confuse operators monitoring error logs.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()

	h.closeAllClients()

	reason := getShutdownReason(ctx)

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(reason)).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

// getShutdownReason determines the shutdown reason from the context error.
// This provides clear observability for operators monitoring logs.
func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.Canceled:
		return ShutdownReasonContextCanceled
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		// Fallback for any future context error types
		return ShutdownReasonContextCanceled
	}
}

// broadcastToClients sends a message to all connected clients in a deterministic order.
// DETERMINISM: Sorts clients by ID to ensure consistent iteration order.
// This prevents non-deterministic message delivery order which could cause:
// - Inconsistent client behavior in tests
// - Non-reproducible race conditions
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}

	// Sort by client ID for deterministic ordering
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	// Track clients to remove (can't modify map during iteration)
	var toRemove []*Client

	for _, client := range clients {
		select {
		case client.send <- message:
			// Message queued successfully
		default:
			// Channel full or closed, mark for removal
			toRemove = append(toRemove, client)
		}
	}

	// Remove clients that fell behind
	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.TrackWSConnection(false)
		metrics.WSClientsDropped.Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("dropped slow websocket client")
	}
}

// closeAllClients gracefully closes all connected WebSocket clients.
// Called during shutdown to ensure clean termination.
// DETERMINISM: Closes clients in ID order to ensure consistent shutdown behavior.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
		metrics.TrackWSConnection(false)
	}
	logging.Info().Msg("closed all websocket clients during shutdown")
}

// RunCompletedData represents data sent with run_completed messages.
// Clients receive the run summary only; the ranked per-group lists are
// served by the recommendations and history endpoints.
type RunCompletedData struct {
	Timestamp       string `json:"timestamp"`
	RunID           string `json:"run_id"`
	DatasetRevision uint64 `json:"dataset_revision"`
	Groups          int    `json:"groups"`
	Recommendations int    `json:"recommendations"`
	ElapsedMS       int64  `json:"elapsed_ms"`
	CacheHit        bool   `json:"cache_hit,omitempty"`
}

// BroadcastRunCompleted notifies all clients that a scoring run has completed
func (h *Hub) BroadcastRunCompleted(event *events.RunCompleted) {
	data := RunCompletedData{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		RunID:           event.RunID,
		DatasetRevision: event.DatasetRevision,
		Groups:          event.Groups,
		Recommendations: event.Recommendations,
		ElapsedMS:       event.ElapsedMS,
		CacheHit:        event.CacheHit,
	}

	message := Message{
		Type: MessageTypeRunCompleted,
		Data: data,
	}

	select {
	case h.broadcast <- message:
		logging.Info().Int("clients", h.GetClientCount()).Str("run_id", event.RunID).Msg("broadcast run_completed")
	default:
		logging.Warn().Msg("broadcast channel full, dropping run_completed message")
	}
}

// DatasetUpdatedData represents data sent with dataset_updated messages
type DatasetUpdatedData struct {
	Timestamp  string `json:"timestamp"`
	Revision   uint64 `json:"revision"`
	Groups     int    `json:"groups"`
	Activities int    `json:"activities"`
}

// BroadcastDatasetUpdated notifies all clients that a new dataset revision was accepted
func (h *Hub) BroadcastDatasetUpdated(event *events.DatasetUpdated) {
	data := DatasetUpdatedData{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Revision:   event.Revision,
		Groups:     event.Groups,
		Activities: event.Activities,
	}

	message := Message{
		Type: MessageTypeDatasetUpdated,
		Data: data,
	}

	select {
	case h.broadcast <- message:
		logging.Info().Int("clients", h.GetClientCount()).Uint64("revision", event.Revision).Msg("broadcast dataset_updated")
	default:
		logging.Warn().Msg("broadcast channel full, dropping dataset_updated message")
	}
}

// BroadcastJSON sends a JSON message of an arbitrary type to all connected clients
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping JSON message")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
