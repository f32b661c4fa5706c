// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package authz

import (
	"net/http"
	"time"

	"github.com/tomtom215/conventus/internal/auth"
	"github.com/tomtom215/conventus/internal/logging"
)

// Middleware enforces role-based access on API routes.
type Middleware struct {
	enforcer *Enforcer
	security *logging.SecurityLogger
}

// NewMiddleware creates authorization middleware around an enforcer.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		security: logging.NewSecurityLogger(),
	}
}

// Authorize derives the object from the request path and the action
// from the HTTP method, then enforces the caller's role. Anonymous
// requests (auth mode none) are checked against the default role, so
// an unauthenticated deployment still refuses writes to viewers.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, role := auth.SubjectFromContext(r.Context())

		object := r.URL.Path
		action := methodToAction(r.Method)

		start := time.Now()
		allowed, cacheHit, err := m.enforcer.EnforceWithRole(subject, role, object, action)
		duration := time.Since(start)

		if err != nil {
			logging.Error().Err(err).Str("path", object).Msg("Authorization error")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		effectiveRole := role
		if effectiveRole == "" {
			effectiveRole = m.enforcer.defaultRole
		}
		RecordAuthzDecision(effectiveRole, object, action, allowed, duration, cacheHit)

		if !allowed {
			m.security.LogAccessDenied(subject, effectiveRole, r.URL.Path)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
