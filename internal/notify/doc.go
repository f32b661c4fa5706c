// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package notify posts run-completed summaries to configured webhook
// targets.
//
// Each target gets its own circuit breaker; deliveries retry with
// exponential backoff inside the breaker, so one delivery counts as
// one breaker request no matter how many attempts it took. Payloads
// are signed with HMAC-SHA256 when a secret is configured, and
// receivers verify with the same hex digest the X-Conventus-Signature
// header carries.
//
// The webhook body is the run summary only. Full per-group results
// travel on the event bus for the history archive; webhook receivers
// that want them fetch /api/v1/history/runs/{runID}.
package notify
