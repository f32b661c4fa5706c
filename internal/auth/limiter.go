// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter rate limits token issuance per client IP so attackers
// cannot brute-force API key secrets through the token endpoint.
type LoginLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*loginLimiterEntry
	rate      rate.Limit
	burst     int
	stopClean chan struct{}
}

type loginLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLoginLimiter creates a per-IP limiter that refills perMinute tokens
// per minute and allows bursts of the given size.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	l := &LoginLimiter{
		limiters:  make(map[string]*loginLimiterEntry),
		rate:      rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		stopClean: make(chan struct{}),
	}
	go l.startCleanup(5 * time.Minute)
	return l
}

// Allow reports whether a request from the given IP may proceed.
// Limiter state is created lazily per IP.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.limiters[ip]
	if !exists {
		entry = &loginLimiterEntry{
			limiter: rate.NewLimiter(l.rate, l.burst),
		}
		l.limiters[ip] = entry
	}
	entry.lastAccess = time.Now()
	return entry.limiter.Allow()
}

// startCleanup periodically removes limiter entries for idle IPs to
// prevent unbounded memory growth.
func (l *LoginLimiter) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Hour)
		case <-l.stopClean:
			return
		}
	}
}

// cleanup removes entries that have not been accessed within maxIdle.
func (l *LoginLimiter) cleanup(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for ip, entry := range l.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

// Stop terminates the cleanup goroutine. Call once during shutdown.
func (l *LoginLimiter) Stop() {
	close(l.stopClean)
}
