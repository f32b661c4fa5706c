// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package services

import (
	"context"
)

// ContextRouter interface matches *events.Router's Serve method.
//
// This interface allows the EventRouterService to work with the Watermill
// router without importing the events package, avoiding circular
// dependencies.
//
// Satisfied by *events.Router from internal/events/router.go.
type ContextRouter interface {
	Serve(ctx context.Context) error
}

// EventRouterService wraps the event router as a supervised service.
//
// The router's Serve method already implements the suture.Service pattern,
// so this wrapper simply delegates to it and provides a name for logging.
//
// Example usage:
//
//	router, _ := events.NewRouter(cfg, wmLogger)
//	svc := services.NewEventRouterService(router)
//	tree.AddMessagingService(svc)
type EventRouterService struct {
	router ContextRouter
	name   string
}

// NewEventRouterService creates a new event router service wrapper.
func NewEventRouterService(router ContextRouter) *EventRouterService {
	return &EventRouterService{
		router: router,
		name:   "event-router",
	}
}

// Serve implements suture.Service.
//
// This method delegates to router.Serve which:
//  1. Starts all registered consumer handlers
//  2. Blocks dispatching events until the context is canceled
//  3. Closes handler subscriptions on shutdown
func (e *EventRouterService) Serve(ctx context.Context) error {
	return e.router.Serve(ctx)
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (e *EventRouterService) String() string {
	return e.name
}
