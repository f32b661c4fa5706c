// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// fakeServer implements HTTPServer with scripted outcomes. Without a
// scripted listen error it blocks, like a real server, until Shutdown
// releases it with http.ErrServerClosed.
type fakeServer struct {
	listenErr   error
	shutdownErr error
	serving     chan struct{}
	released    chan struct{}
	listens     atomic.Int32
	shutdowns   atomic.Int32
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		serving:  make(chan struct{}, 1),
		released: make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	f.listens.Add(1)
	select {
	case f.serving <- struct{}{}:
	default:
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.released
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	close(f.released)
	return f.shutdownErr
}

func TestHTTPServerService_Interface(t *testing.T) {
	var _ suture.Service = (*HTTPServerService)(nil)
}

func TestNewHTTPServerService(t *testing.T) {
	tests := []struct {
		name        string
		timeout     time.Duration
		wantTimeout time.Duration
	}{
		{name: "explicit timeout kept", timeout: 30 * time.Second, wantTimeout: 30 * time.Second},
		{name: "zero timeout defaults", timeout: 0, wantTimeout: 10 * time.Second},
		{name: "negative timeout defaults", timeout: -5 * time.Second, wantTimeout: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHTTPServerService(newFakeServer(), tt.timeout)
			if svc.shutdownTimeout != tt.wantTimeout {
				t.Errorf("shutdownTimeout = %v, want %v", svc.shutdownTimeout, tt.wantTimeout)
			}
			if svc.String() != "http-server" {
				t.Errorf("String() = %q, want %q", svc.String(), "http-server")
			}
		})
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("drains gracefully on cancellation", func(t *testing.T) {
		srv := newFakeServer()
		svc := NewHTTPServerService(srv, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		select {
		case <-srv.serving:
		case <-time.After(time.Second):
			t.Fatal("server never began serving")
		}
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancellation")
		}

		if srv.listens.Load() != 1 || srv.shutdowns.Load() != 1 {
			t.Errorf("listens/shutdowns = %d/%d, want 1/1", srv.listens.Load(), srv.shutdowns.Load())
		}
	})

	t.Run("surfaces bind failures", func(t *testing.T) {
		bindErr := errors.New("listen tcp :8245: address already in use")
		srv := newFakeServer()
		srv.listenErr = bindErr

		err := NewHTTPServerService(srv, time.Second).Serve(context.Background())
		if !errors.Is(err, bindErr) {
			t.Errorf("Serve() = %v, want the bind error", err)
		}
		if srv.shutdowns.Load() != 0 {
			t.Error("Shutdown was called on a server that never started")
		}
	})

	t.Run("surfaces shutdown failures", func(t *testing.T) {
		drainErr := errors.New("connections still open")
		srv := newFakeServer()
		srv.shutdownErr = drainErr
		svc := NewHTTPServerService(srv, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-srv.serving
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, drainErr) {
				t.Errorf("Serve() = %v, want the drain error", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
	})
}

func TestHTTPServerService_UnderSupervision(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second)

	sup := suture.New("api-layer-test", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	select {
	case <-srv.serving:
	case <-time.After(time.Second):
		t.Fatal("server never began serving under supervision")
	}

	cancel()
	<-errCh

	if srv.shutdowns.Load() < 1 {
		t.Error("supervisor shutdown never drained the server")
	}
}
