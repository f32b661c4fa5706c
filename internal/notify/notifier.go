// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/metrics"
)

// maxDrainBytes bounds how much of a response body is read before the
// connection goes back to the pool.
const maxDrainBytes = 4 * 1024

// target is one webhook endpoint with its own circuit breaker, so a
// dead receiver cannot poison deliveries to healthy ones.
type target struct {
	url     string
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// Notifier delivers run summaries to all configured targets.
type Notifier struct {
	targets        []*target
	client         *http.Client
	secret         string
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewNotifier creates a notifier for the configured targets.
func NewNotifier(cfg *Config) *Notifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	targets := make([]*target, 0, len(cfg.Targets))
	for _, u := range cfg.Targets {
		targets = append(targets, &target{
			url:     u,
			breaker: newDeliveryBreaker(u, cfg),
		})
	}

	return &Notifier{
		targets:        targets,
		client:         &http.Client{Timeout: cfg.Timeout},
		secret:         cfg.Secret,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
	}
}

// newDeliveryBreaker builds the circuit breaker guarding one target.
func newDeliveryBreaker(targetURL string, cfg *Config) *gobreaker.CircuitBreaker[interface{}] {
	name := "webhook:" + targetURL
	metrics.SetCircuitBreakerState(name, 0)

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:    name,
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Webhook circuit breaker state change")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			metrics.SetCircuitBreakerState(name, events.BreakerStateValue(to))
		},
	})
}

// NotifyRunCompleted delivers the run summary to every target
// concurrently. The returned error joins per-target failures; each
// target's outcome is also logged and counted individually.
func (n *Notifier) NotifyRunCompleted(ctx context.Context, event *events.RunCompleted) error {
	if len(n.targets) == 0 {
		return nil
	}

	payload, err := json.Marshal(NewRunSummary(event))
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	for _, tgt := range n.targets {
		wg.Add(1)
		go func(tgt *target) {
			defer wg.Done()
			if err := n.deliver(ctx, tgt, event, payload); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("deliver to %s: %w", tgt.url, err))
				mu.Unlock()
			}
		}(tgt)
	}
	wg.Wait()

	return errors.Join(failures...)
}

// deliver posts one payload through the target's circuit breaker.
// Retries happen inside the breaker, so a delivery that eventually
// succeeds counts as one breaker success.
func (n *Notifier) deliver(ctx context.Context, tgt *target, event *events.RunCompleted, payload []byte) error {
	start := time.Now()
	_, err := tgt.breaker.Execute(func() (interface{}, error) {
		return nil, n.post(ctx, tgt.url, event, payload)
	})
	duration := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordWebhookDelivery(tgt.url, "success", duration)
		logging.Debug().
			Str("target", tgt.url).
			Str("run_id", event.RunID).
			Dur("duration", duration).
			Msg("Webhook delivered")
		return nil
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordWebhookDelivery(tgt.url, "rejected", duration)
		logging.Warn().
			Str("target", tgt.url).
			Str("run_id", event.RunID).
			Msg("Webhook delivery rejected by open circuit breaker")
		return err
	default:
		metrics.RecordWebhookDelivery(tgt.url, "failure", duration)
		logging.Warn().
			Err(err).
			Str("target", tgt.url).
			Str("run_id", event.RunID).
			Msg("Webhook delivery failed")
		return err
	}
}

// post sends the payload with bounded retry. Network errors, 429, and
// 5xx statuses back off exponentially; other non-2xx statuses fail
// immediately.
func (n *Notifier) post(ctx context.Context, targetURL string, event *events.RunCompleted, payload []byte) error {
	var lastErr error

	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		status, err := n.postOnce(ctx, targetURL, event, payload)
		switch {
		case err != nil:
			lastErr = err
		case status >= 200 && status < 300:
			return nil
		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = fmt.Errorf("target returned status %d", status)
		default:
			return fmt.Errorf("target returned status %d", status)
		}

		if attempt == n.maxRetries {
			break
		}

		// Exponential backoff: base, 2x base, 4x base, ...
		delay := n.retryBaseDelay * time.Duration(1<<uint(attempt))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

// postOnce performs a single HTTP attempt.
func (n *Notifier) postOnce(ctx context.Context, targetURL string, event *events.RunCompleted, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, events.TopicRunCompleted)
	req.Header.Set(HeaderDelivery, event.EventID)
	if n.secret != "" {
		req.Header.Set(HeaderSignature, Sign(payload, n.secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}

	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}
