// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is one security-relevant event for audit logging.
type SecurityEvent struct {
	// Event names the event type, such as "token_issued" or
	// "access_denied".
	Event string
	// Subject is the authenticated identity, usually an API key id.
	Subject string
	// Role is the subject's resolved role, if known.
	Role string
	// IPAddress is the client address.
	IPAddress string
	// Path is the request path, if the event is request-bound.
	Path string
	// Success marks whether the operation succeeded.
	Success bool
	// Error carries the failure reason; sanitized before logging.
	Error string
}

// SecurityLogger writes sanitized audit events for the auth surface.
// Secrets never reach the log: values are masked before emission.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return NewSecurityLoggerWithLogger(Logger())
}

// NewSecurityLoggerWithLogger creates a security logger on a custom
// zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent logs a security event with automatic sanitization.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info().Str("event", event.Event)

	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}

	if event.Subject != "" {
		e = e.Str("subject", SanitizeSubject(event.Subject))
	}
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Path != "" {
		e = e.Str("path", event.Path)
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}

	e.Send()
}

// LogTokenIssued logs a successful token exchange.
func (l *SecurityLogger) LogTokenIssued(keyID, role, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "token_issued",
		Subject:   keyID,
		Role:      role,
		IPAddress: ip,
		Success:   true,
	})
}

// LogLoginFailure logs a failed token exchange.
func (l *SecurityLogger) LogLoginFailure(keyID, ip, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_failed",
		Subject:   keyID,
		IPAddress: ip,
		Success:   false,
		Error:     reason,
	})
}

// LogAuthFailure logs a rejected bearer token.
func (l *SecurityLogger) LogAuthFailure(ip, path, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "auth_failed",
		IPAddress: ip,
		Path:      path,
		Success:   false,
		Error:     reason,
	})
}

// LogAccessDenied logs an authorization rejection.
func (l *SecurityLogger) LogAccessDenied(subject, role, path string) {
	l.LogEvent(&SecurityEvent{
		Event:   "access_denied",
		Subject: subject,
		Role:    role,
		Path:    path,
		Success: false,
	})
}

// LogRateLimited logs a throttled login attempt.
func (l *SecurityLogger) LogRateLimited(ip, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     "rate_limited",
		IPAddress: ip,
		Path:      path,
		Success:   false,
	})
}

// SanitizeToken masks a token, keeping only the first and last four
// characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeSubject masks a subject identifier, keeping enough of it to
// correlate log lines.
func SanitizeSubject(subject string) string {
	if subject == "" {
		return ""
	}
	if len(subject) <= 8 {
		return subject
	}
	return subject[:4] + "..." + subject[len(subject)-4:]
}

// SanitizeError replaces error text that may embed credentials with a
// generic message and truncates the rest.
func SanitizeError(err string) string {
	sensitive := []string{
		"password",
		"secret",
		"token",
		"bearer",
		"authorization",
		"cookie",
	}

	lower := strings.ToLower(err)
	for _, pattern := range sensitive {
		if strings.Contains(lower, pattern) {
			return "authentication error"
		}
	}

	return truncateString(err, 200)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
