// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package services

import (
	"context"
	"time"
)

// GCStarter interface matches *dataset.Store's StartGC method.
//
// StartGC launches its own goroutine and returns immediately; the
// goroutine stops when the context passed to it is canceled.
//
// Satisfied by *dataset.Store from internal/dataset/store.go.
type GCStarter interface {
	StartGC(ctx context.Context, interval time.Duration)
}

// DatasetGCService runs the dataset store's value-log garbage collection
// as a supervised service.
//
// Badger's value-log GC must run periodically or deleted dataset
// revisions never reclaim disk space. Tying the loop to a supervised
// service gives it the same lifecycle as the rest of the data layer.
//
// Example usage:
//
//	svc := services.NewDatasetGCService(store, cfg.Dataset.GCInterval)
//	tree.AddDataService(svc)
type DatasetGCService struct {
	store    GCStarter
	interval time.Duration
	name     string
}

// NewDatasetGCService creates a new dataset GC service wrapper.
// A non-positive interval falls back to 10 minutes.
func NewDatasetGCService(store GCStarter, interval time.Duration) *DatasetGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &DatasetGCService{
		store:    store,
		interval: interval,
		name:     "dataset-gc",
	}
}

// Serve implements suture.Service.
//
// StartGC owns its goroutine and honors the context, so this method
// starts the loop and then parks until shutdown.
func (d *DatasetGCService) Serve(ctx context.Context) error {
	d.store.StartGC(ctx, d.interval)
	<-ctx.Done()
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (d *DatasetGCService) String() string {
	return d.name
}
