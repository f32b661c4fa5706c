// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLog(); err != nil {
		return err
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine configuration invalid: %w", err)
	}

	if err := c.validateDataset(); err != nil {
		return err
	}

	if err := c.validateHistory(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateNotify(); err != nil {
		return err
	}

	if err := c.validateAuth(); err != nil {
		return err
	}

	if err := c.validateAuthz(); err != nil {
		return err
	}

	if err := c.validateWebsocket(); err != nil {
		return err
	}

	return c.validateRateLimit()
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels.
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats.
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLog validates logging configuration.
func (c *Config) validateLog() error {
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Log.Format != "" && !validLogFormats[c.Log.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateDataset validates the dataset store configuration.
func (c *Config) validateDataset() error {
	if !c.Dataset.InMemory && c.Dataset.Path == "" {
		return fmt.Errorf("DATASET_PATH is required unless DATASET_IN_MEMORY=true")
	}
	if c.Dataset.GCInterval <= 0 {
		return fmt.Errorf("DATASET_GC_INTERVAL must be positive")
	}
	return nil
}

// validateHistory validates the run archive configuration (only if
// enabled).
func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}

	if c.History.Path == "" {
		return fmt.Errorf("HISTORY_PATH is required when HISTORY_ENABLED=true")
	}
	if c.History.RetentionDays < 0 {
		return fmt.Errorf("HISTORY_RETENTION_DAYS must be non-negative, got %d", c.History.RetentionDays)
	}
	if c.History.RetentionDays > 0 && c.History.RetentionInterval <= 0 {
		return fmt.Errorf("HISTORY_RETENTION_INTERVAL must be positive when retention is active")
	}
	return nil
}

// validateEvents validates event bus configuration.
func (c *Config) validateEvents() error {
	if c.Events.BufferSize < 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be non-negative, got %d", c.Events.BufferSize)
	}
	if c.Events.PublishTimeout <= 0 {
		return fmt.Errorf("EVENTS_PUBLISH_TIMEOUT must be positive")
	}

	if !c.Events.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.Events.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.Events.NATS.EmbeddedServer && c.Events.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
	}
	return nil
}

// validateNotify validates webhook delivery configuration (only if
// enabled).
func (c *Config) validateNotify() error {
	if !c.Notify.Enabled {
		return nil
	}

	if len(c.Notify.Targets) == 0 {
		return fmt.Errorf("WEBHOOK_TARGETS is required when WEBHOOK_ENABLED=true")
	}
	for _, target := range c.Notify.Targets {
		if err := validateWebhookURL(target); err != nil {
			return fmt.Errorf("WEBHOOK_TARGETS entry %q is invalid: %w", target, err)
		}
	}
	if c.Notify.Timeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive")
	}
	if c.Notify.MaxRetries < 0 {
		return fmt.Errorf("WEBHOOK_MAX_RETRIES must be non-negative, got %d", c.Notify.MaxRetries)
	}
	if c.Notify.BreakerThreshold < 1 {
		return fmt.Errorf("WEBHOOK_BREAKER_THRESHOLD must be at least 1")
	}
	if c.Notify.BreakerCooldown <= 0 {
		return fmt.Errorf("WEBHOOK_BREAKER_COOLDOWN must be positive")
	}
	return nil
}

// validAuthModes defines the allowed authentication modes.
var validAuthModes = map[string]bool{
	"none":  true,
	"token": true,
}

// validRoles defines the roles the authorization policy knows about.
var validRoles = map[string]bool{
	"viewer": true,
	"editor": true,
	"admin":  true,
}

// validateAuth validates authentication configuration.
func (c *Config) validateAuth() error {
	if !validAuthModes[c.Auth.Mode] {
		return fmt.Errorf("AUTH_MODE must be one of: none, token")
	}

	if c.Auth.Mode == "none" {
		// Refuse to start without authentication in production.
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production. " +
				"Set AUTH_MODE=token or use ENVIRONMENT=development for testing purposes")
		}
		return nil
	}

	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Auth.LoginRatePerMinute < 1 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be at least 1, got %d", c.Auth.LoginRatePerMinute)
	}
	if c.Auth.LoginBurst < 1 {
		return fmt.Errorf("LOGIN_BURST must be at least 1, got %d", c.Auth.LoginBurst)
	}
	return c.validateAPIKeys()
}

// validateJWTSecret validates the JWT signing secret.
func (c *Config) validateJWTSecret() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is token")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Auth.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateAPIKeys validates the configured API key principals.
func (c *Config) validateAPIKeys() error {
	if len(c.Auth.Keys) == 0 {
		return fmt.Errorf("auth.keys must list at least one API key when AUTH_MODE is token")
	}

	seen := make(map[string]bool, len(c.Auth.Keys))
	for i, key := range c.Auth.Keys {
		if key.ID == "" {
			return fmt.Errorf("auth.keys[%d]: id is required", i)
		}
		if seen[key.ID] {
			return fmt.Errorf("auth.keys[%d]: duplicate id %q", i, key.ID)
		}
		seen[key.ID] = true

		if !validRoles[key.Role] {
			return fmt.Errorf("auth.keys[%d] (%s): role must be one of: viewer, editor, admin", i, key.ID)
		}
		if !strings.HasPrefix(key.SecretHash, "$2") {
			return fmt.Errorf("auth.keys[%d] (%s): secret_hash must be a bcrypt hash, never a plaintext secret", i, key.ID)
		}
	}
	return nil
}

// validateAuthz validates authorization configuration.
func (c *Config) validateAuthz() error {
	if !validRoles[c.Authz.DefaultRole] {
		return fmt.Errorf("CASBIN_DEFAULT_ROLE must be one of: viewer, editor, admin")
	}
	// Model and policy paths are a pair. Overriding one without the
	// other mixes embedded and external policy halves.
	if (c.Authz.ModelPath == "") != (c.Authz.PolicyPath == "") {
		return fmt.Errorf("CASBIN_MODEL_PATH and CASBIN_POLICY_PATH must be set together")
	}
	if c.Authz.CacheEnabled && c.Authz.CacheTTL <= 0 {
		return fmt.Errorf("CASBIN_CACHE_TTL must be positive when the decision cache is enabled")
	}
	return nil
}

// validateWebsocket validates the live-update hub configuration (only
// if enabled).
func (c *Config) validateWebsocket() error {
	if !c.Websocket.Enabled {
		return nil
	}

	if c.Websocket.SendBuffer < 1 {
		return fmt.Errorf("WEBSOCKET_SEND_BUFFER must be at least 1, got %d", c.Websocket.SendBuffer)
	}
	if c.Websocket.PingInterval <= 0 {
		return fmt.Errorf("WEBSOCKET_PING_INTERVAL must be positive")
	}
	if c.Websocket.WriteTimeout <= 0 {
		return fmt.Errorf("WEBSOCKET_WRITE_TIMEOUT must be positive")
	}
	return nil
}

// validateRateLimit validates rate limiting configuration (only if
// not disabled).
func (c *Config) validateRateLimit() error {
	if c.RateLimit.Disabled {
		return nil
	}

	if c.RateLimit.Requests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.RateLimit.Requests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validateWebhookURL validates that a webhook target is an http or
// https URL with a host. Paths and query strings are allowed.
func validateWebhookURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required")
	}

	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted.
// Supports nats://, tls://, ws:// and wss:// schemes.
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, nats.example.com)")
	}

	return nil
}

// placeholderPatterns defines common placeholder patterns that
// indicate the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder
// patterns. This prevents accidental deployment with insecure default
// credentials.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
