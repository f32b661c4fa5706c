// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package events publishes run lifecycle events through Watermill.
//
// Two topics exist:
//
//   - run.completed: a recommendation run finished; carries the run
//     id, dataset revision, timing, and result counters.
//   - dataset.updated: a new dataset revision was accepted; carries
//     the revision, record counts, and checksum.
//
// The default build uses an in-process GoChannel Pub/Sub: the history
// writer, websocket hub, and webhook dispatcher subscribe through a
// supervised Router. Builds compiled with -tags=nats replace the
// transport with NATS JetStream (optionally embedded) so external
// consumers can subscribe too.
//
// Publishing is wrapped in a circuit breaker and is fire-and-forget
// from the caller's perspective: a failed publish is logged and
// counted, never surfaced to the request that triggered it.
//
//	bus, err := events.NewBus(events.DefaultConfig(), logger)
//	if err != nil { ... }
//	defer bus.Close()
//
//	ev := events.NewRunCompleted(result)
//	if err := bus.PublishRunCompleted(ctx, ev); err != nil {
//	    logger.Warn().Err(err).Msg("run.completed publish dropped")
//	}
package events
