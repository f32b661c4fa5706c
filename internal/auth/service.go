// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package auth

import (
	"fmt"

	"github.com/tomtom215/conventus/internal/config"
	"github.com/tomtom215/conventus/internal/logging"
)

// Service bundles the authentication components for the configured mode.
// In token mode it issues JWTs for API key credentials and validates
// bearer tokens on incoming requests. In mode none every request passes
// through anonymously.
type Service struct {
	mode     AuthMode
	jwt      *JWTManager
	keyring  *Keyring
	limiter  *LoginLimiter
	security *logging.SecurityLogger
}

// NewService assembles the authentication service from configuration.
// Configuration validation has already rejected incoherent settings, so
// errors here indicate programmatic misuse rather than bad deployments.
func NewService(cfg *config.AuthConfig) (*Service, error) {
	mode, err := ParseAuthMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	s := &Service{
		mode:     mode,
		security: logging.NewSecurityLogger(),
	}

	if mode == AuthModeNone {
		logging.Warn().Msg("Authentication disabled, all API requests are anonymous")
		return s, nil
	}

	s.jwt, err = NewJWTManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("jwt manager: %w", err)
	}

	s.keyring, err = NewKeyring(cfg.Keys)
	if err != nil {
		return nil, fmt.Errorf("keyring: %w", err)
	}

	s.limiter = NewLoginLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)

	logging.Info().
		Str("mode", string(mode)).
		Int("keys", s.keyring.Len()).
		Msg("Authentication enabled")
	return s, nil
}

// Mode returns the configured authentication mode.
func (s *Service) Mode() AuthMode {
	return s.mode
}

// Enabled reports whether requests must present credentials.
func (s *Service) Enabled() bool {
	return s.mode != AuthModeNone
}

// Close stops background goroutines. Call once during shutdown.
func (s *Service) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
