// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package auth

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/metrics"
)

// TokenRequest carries API key credentials for the token exchange.
type TokenRequest struct {
	KeyID     string `json:"key_id"`
	KeySecret string `json:"key_secret"`
}

// TokenResponse returns the issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenHandler exchanges API key credentials for a signed JWT.
// POST /api/v1/auth/token
//
// The token is returned in the response body and also set as an
// HTTP-only cookie so browser clients never handle it in script.
func (s *Service) TokenHandler(w http.ResponseWriter, r *http.Request) {
	if !s.Enabled() {
		http.NotFound(w, r)
		return
	}

	ip := clientIP(r)

	if !s.limiter.Allow(ip) {
		s.security.LogRateLimited(ip, r.URL.Path)
		metrics.RecordAuthFailure("rate_limited")
		http.Error(w, "Too many requests: retry later", http.StatusTooManyRequests)
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.KeyID == "" || req.KeySecret == "" {
		http.Error(w, "key_id and key_secret are required", http.StatusBadRequest)
		return
	}

	role, err := s.keyring.Verify(req.KeyID, req.KeySecret)
	if err != nil {
		s.security.LogLoginFailure(req.KeyID, ip, "invalid key credentials")
		metrics.RecordAuthFailure("credentials")
		http.Error(w, "Unauthorized: invalid credentials", http.StatusUnauthorized)
		return
	}

	token, expiresAt, err := s.jwt.GenerateToken(req.KeyID, role)
	if err != nil {
		logging.Error().Err(err).Str("key_id", req.KeyID).Msg("Failed to generate token")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.security.LogTokenIssued(req.KeyID, role, ip)
	metrics.RecordTokenIssued()

	setAuthCookie(w, r, token, expiresAt)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode token response")
	}
}

// setAuthCookie stores the issued token in an HTTP-only cookie.
func setAuthCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}
