// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package api provides HTTP handlers for the Conventus application.
//
// errors.go - Common API error definitions
//
// This file contains sentinel errors for common API error conditions.
package api

import "errors"

// Common API errors
var (
	// ErrHistoryDisabled indicates the run history archive is not enabled in config
	ErrHistoryDisabled = errors.New("run history archive is not enabled")

	// ErrWebSocketDisabled indicates the WebSocket feed is not enabled in config
	ErrWebSocketDisabled = errors.New("websocket feed is not enabled")
)
