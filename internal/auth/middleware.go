// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package auth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/conventus/internal/metrics"
)

// tokenCookieName is the fallback cookie checked when no Authorization
// header is present, so browser clients can hold the token in an
// HTTP-only cookie.
const tokenCookieName = "token"

// Authenticate validates the bearer token on each request and stores the
// resulting claims in the request context. In mode none requests pass
// through without claims and authorization applies the default role.
func (s *Service) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.mode == AuthModeNone {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.authenticate(r)
		if err != nil {
			s.security.LogAuthFailure(clientIP(r), r.URL.Path, err.Error())
			metrics.RecordAuthFailure("token")
			handleAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate extracts and validates the token from a request.
func (s *Service) authenticate(r *http.Request) (*Claims, error) {
	tokenStr := extractToken(r)
	if tokenStr == "" {
		return nil, ErrNoCredentials
	}

	claims, err := s.jwt.ValidateToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// extractToken pulls the bearer token from the Authorization header or,
// failing that, from the token cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token := strings.TrimSpace(parts[1])
			if token != "" {
				return token
			}
		}
	}

	cookie, err := r.Cookie(tokenCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// handleAuthError maps authentication failures to HTTP responses.
func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoCredentials):
		http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
	case errors.Is(err, ErrExpiredCredentials):
		http.Error(w, "Unauthorized: credentials expired", http.StatusUnauthorized)
	default:
		http.Error(w, "Unauthorized: invalid credentials", http.StatusUnauthorized)
	}
}

// clientIP returns the remote IP for logging and rate limiting.
// Proxy headers are resolved upstream by the router middleware, so
// RemoteAddr already holds the effective client address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
