// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package logging provides centralized zerolog-based logging.
//
// Every component logs through this package, either via the global
// starters or via a child logger tagged with a component field:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Msg("server starting")
//
//	engineLogger := logging.WithComponent("recommend")
//	engineLogger.Debug().Str("run_id", id).Msg("run complete")
//
// Request handlers use Ctx to pick up the request id placed in the
// context by the HTTP middleware:
//
//	logging.Ctx(r.Context()).Info().Int("status", 200).Msg("request")
//
// The slog adapter bridges libraries that speak log/slog (the suture
// supervision hook) onto the same zerolog backend, and SecurityLogger
// adds sanitized audit events for the auth surface.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// chain is silently dropped.
package logging
