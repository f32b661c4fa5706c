// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

/*
Package auth provides API key and JWT authentication for the HTTP API.

Clients hold long-lived API keys (an id plus a secret) and exchange them
at the token endpoint for short-lived HMAC-SHA256 signed JWTs. Every
other protected endpoint accepts only the JWT, so key secrets cross the
wire once per token lifetime rather than on every request.

Key Components:

  - Service: mode-aware facade assembled from configuration
  - JWTManager: token generation and validation using HMAC-SHA256
  - Keyring: API key verification against bcrypt secret hashes
  - LoginLimiter: per-IP rate limiter guarding the token endpoint
  - Authenticate: HTTP middleware storing validated claims in the context

Authentication Modes:

The application supports two authentication modes (configured via AUTH_MODE):

1. Token Mode:
  - API keys configured as id, role, and bcrypt secret_hash
  - Tokens carry the key id as subject and the configured role as a claim
  - Configurable expiry (default: 1h) with issuer and audience checks
  - Tokens returned in the response body and as an HTTP-only cookie

2. None Mode (default):
  - Every request is anonymous and receives the default authorization role
  - Refused at configuration load when ENVIRONMENT=production

Usage Example:

	import (
	    "github.com/tomtom215/conventus/internal/auth"
	    "github.com/tomtom215/conventus/internal/config"
	)

	svc, err := auth.NewService(&cfg.Auth)
	if err != nil {
	    return err
	}
	defer svc.Close()

	r.Post("/api/v1/auth/token", svc.TokenHandler)
	r.Group(func(r chi.Router) {
	    r.Use(svc.Authenticate)
	    // protected routes
	})

Handlers downstream of the middleware read the caller identity with
auth.GetClaims(r.Context()) or auth.SubjectFromContext(r.Context()).

Token exchange from the command line:

	curl -X POST /api/v1/auth/token \
	    -d '{"key_id":"ci","key_secret":"..."}'

	curl -H "Authorization: Bearer <token>" /api/v1/recommendations/...
*/
package auth
