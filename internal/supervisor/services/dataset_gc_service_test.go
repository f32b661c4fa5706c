// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockGCStarter is a test double for GCStarter interface.
type mockGCStarter struct {
	startCount   atomic.Int32
	lastInterval atomic.Int64
}

func (m *mockGCStarter) StartGC(ctx context.Context, interval time.Duration) {
	m.startCount.Add(1)
	m.lastInterval.Store(int64(interval))
}

func TestDatasetGCService_Interface(t *testing.T) {
	// Verify DatasetGCService implements suture.Service
	var _ suture.Service = (*DatasetGCService)(nil)
}

func TestNewDatasetGCService(t *testing.T) {
	store := &mockGCStarter{}
	svc := NewDatasetGCService(store, 5*time.Minute)

	if svc == nil {
		t.Fatal("NewDatasetGCService returned nil")
	}
	if svc.interval != 5*time.Minute {
		t.Errorf("expected interval 5m, got %v", svc.interval)
	}
	if svc.name != "dataset-gc" {
		t.Errorf("expected name 'dataset-gc', got %q", svc.name)
	}
}

func TestNewDatasetGCService_DefaultInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
	}{
		{name: "zero interval", interval: 0},
		{name: "negative interval", interval: -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDatasetGCService(&mockGCStarter{}, tt.interval)
			if svc.interval != 10*time.Minute {
				t.Errorf("expected default interval 10m, got %v", svc.interval)
			}
		})
	}
}

func TestDatasetGCService_Serve(t *testing.T) {
	t.Run("starts GC and parks until cancellation", func(t *testing.T) {
		store := &mockGCStarter{}
		svc := NewDatasetGCService(store, time.Minute)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after context cancellation")
		}

		if got := store.startCount.Load(); got != 1 {
			t.Errorf("expected 1 StartGC call, got %d", got)
		}
		if got := time.Duration(store.lastInterval.Load()); got != time.Minute {
			t.Errorf("expected interval passed through, got %v", got)
		}
	})
}

func TestDatasetGCService_String(t *testing.T) {
	svc := NewDatasetGCService(&mockGCStarter{}, time.Minute)

	if svc.String() != "dataset-gc" {
		t.Errorf("expected 'dataset-gc', got %q", svc.String())
	}
}

func TestDatasetGCService_WithSupervisor(t *testing.T) {
	store := &mockGCStarter{}
	svc := NewDatasetGCService(store, time.Minute)

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          100 * time.Millisecond,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	errCh := sup.ServeBackground(ctx)

	// Wait for the loop to start with polling (more reliable in CI under load)
	var started bool
	for i := 0; i < 10; i++ {
		time.Sleep(20 * time.Millisecond)
		if store.startCount.Load() >= 1 {
			started = true
			break
		}
	}

	if !started {
		t.Error("store StartGC was not called")
	}

	cancel()
	<-errCh
}
