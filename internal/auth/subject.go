// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// AuthMode identifies how incoming requests are authenticated.
type AuthMode string

const (
	// AuthModeNone disables authentication. Every request is treated as
	// anonymous and authorization falls back to the configured default role.
	AuthModeNone AuthMode = "none"

	// AuthModeToken authenticates requests with bearer JWTs issued in
	// exchange for a configured API key.
	AuthModeToken AuthMode = "token"
)

// ParseAuthMode converts a configuration string into an AuthMode.
// An empty string maps to AuthModeNone.
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AuthModeNone, nil
	case "token":
		return AuthModeToken, nil
	default:
		return "", fmt.Errorf("unknown auth mode %q", s)
	}
}

// Sentinel errors returned by token validation and key verification.
// Middleware inspects these with errors.Is to pick the response status.
var (
	// ErrNoCredentials indicates the request carried no token at all.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates the credentials were present but wrong:
	// unknown key id, bad secret, or a token that fails signature or claim checks.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates a well-formed token past its expiry.
	ErrExpiredCredentials = errors.New("expired credentials")
)

// contextKey is a private type for context values set by this package.
type contextKey string

// ClaimsContextKey is where Authenticate stores the validated *Claims.
const ClaimsContextKey contextKey = "claims"

// GetClaims extracts the authenticated claims from a request context.
// Returns nil when the request was not authenticated (auth mode none,
// or middleware not applied).
func GetClaims(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// SubjectFromContext returns the key id and role of the authenticated
// caller, or ("", "") for anonymous requests.
func SubjectFromContext(ctx context.Context) (keyID, role string) {
	claims := GetClaims(ctx)
	if claims == nil {
		return "", ""
	}
	return claims.Subject, claims.Role
}
