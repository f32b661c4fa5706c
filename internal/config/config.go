// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Categories:
//
//  1. Core:
//     - Server: HTTP server (host, port, timeouts, environment mode)
//     - Engine: recommendation engine (workers, limits, result cache)
//     - Dataset: BadgerDB-backed revisioned dataset store
//
//  2. Persistence & Delivery:
//     - History: DuckDB run archive and retention
//     - Events: run lifecycle event bus (in-process or NATS)
//     - Notify: webhook delivery with circuit breaking
//     - Websocket: live run-completed notifications
//
//  3. Security:
//     - Auth: authentication mode, JWT settings, API keys
//     - Authz: Casbin role-based access control
//     - CORS, RateLimit: HTTP perimeter controls
//
//  4. Observability:
//     - Log: levels and output format
//     - Metrics: Prometheus exposition
type Config struct {
	Server    ServerConfig        `koanf:"server"`
	Log       LogConfig           `koanf:"log"`
	Engine    recommend.Config    `koanf:"engine"`
	Dataset   dataset.StoreConfig `koanf:"dataset"`
	History   HistoryConfig       `koanf:"history"`
	Events    EventsConfig        `koanf:"events"`
	Notify    NotifyConfig        `koanf:"notify"`
	Auth      AuthConfig          `koanf:"auth"`
	Authz     AuthzConfig         `koanf:"authz"`
	Metrics   MetricsConfig       `koanf:"metrics"`
	Websocket WebsocketConfig     `koanf:"websocket"`
	CORS      CORSConfig          `koanf:"cors"`
	RateLimit RateLimitConfig     `koanf:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8245)
//   - HTTP_READ_TIMEOUT: Request read timeout (default: 15s)
//   - HTTP_WRITE_TIMEOUT: Response write timeout (default: 30s)
//   - HTTP_IDLE_TIMEOUT: Keep-alive idle timeout (default: 60s)
//   - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown deadline (default: 15s)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // Gates production-only security checks
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds logging settings, mapped onto internal/logging at
// startup.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// HistoryConfig holds the DuckDB run-archive settings.
//
// Environment Variables:
//   - HISTORY_ENABLED: Archive completed runs (default: true)
//   - HISTORY_PATH: DuckDB database file (default: /data/conventus.duckdb)
//   - HISTORY_MAX_MEMORY: DuckDB memory limit (default: 1GB)
//   - HISTORY_THREADS: DuckDB threads, 0 = all cores (default: 0)
//   - HISTORY_RETENTION_DAYS: Keep runs this long, 0 = forever (default: 90)
//   - HISTORY_RETENTION_INTERVAL: Retention sweep period (default: 12h)
type HistoryConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Path              string        `koanf:"path"`
	MaxMemory         string        `koanf:"max_memory"`
	Threads           int           `koanf:"threads"` // 0 = use runtime.NumCPU()
	RetentionDays     int           `koanf:"retention_days"`
	RetentionInterval time.Duration `koanf:"retention_interval"`
}

// EventsConfig holds event bus settings. The default bus is
// in-process; the NATS subsection applies to builds compiled with the
// nats tag.
//
// Environment Variables:
//   - EVENTS_BUFFER_SIZE: In-process channel buffer (default: 64)
//   - EVENTS_PUBLISH_TIMEOUT: Per-publish deadline (default: 5s)
//   - NATS_ENABLED: Use NATS JetStream transport (default: false)
//   - NATS_URL: NATS server URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: Run an embedded NATS server (default: true)
//   - NATS_STORE_DIR: JetStream storage directory (default: /data/nats)
type EventsConfig struct {
	BufferSize     int             `koanf:"buffer_size"`
	PublishTimeout time.Duration   `koanf:"publish_timeout"`
	NATS           NATSEventConfig `koanf:"nats"`
}

// NATSEventConfig holds the optional NATS JetStream transport settings.
type NATSEventConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
}

// NotifyConfig holds webhook delivery settings.
//
// Environment Variables:
//   - WEBHOOK_ENABLED: Deliver run-completed webhooks (default: false)
//   - WEBHOOK_TARGETS: Comma-separated target URLs
//   - WEBHOOK_SECRET: HMAC-SHA256 signing key
//   - WEBHOOK_TIMEOUT: Per-delivery timeout (default: 10s)
//   - WEBHOOK_MAX_RETRIES: Retries per delivery (default: 2)
//   - WEBHOOK_BREAKER_THRESHOLD: Consecutive failures to open the
//     per-target circuit breaker (default: 5)
//   - WEBHOOK_BREAKER_COOLDOWN: Open-state duration before a probe
//     (default: 60s)
type NotifyConfig struct {
	Enabled          bool          `koanf:"enabled"`
	Targets          []string      `koanf:"targets"`
	Secret           string        `koanf:"secret"`
	Timeout          time.Duration `koanf:"timeout"`
	MaxRetries       int           `koanf:"max_retries"`
	BreakerThreshold uint32        `koanf:"breaker_threshold"`
	BreakerCooldown  time.Duration `koanf:"breaker_cooldown"`
}

// AuthConfig holds authentication settings.
//
// Modes:
//   - none: No authentication. Allowed only outside production; a
//     warning is logged at startup.
//   - token: API keys exchanged for short-lived HS256 JWTs at the
//     login endpoint; bearer tokens required on protected routes.
//
// Environment Variables:
//   - AUTH_MODE: none or token (default: none)
//   - JWT_SECRET: HS256 signing secret, 32+ characters
//   - JWT_ISSUER: Token issuer claim (default: conventus)
//   - JWT_AUDIENCE: Token audience claim (default: conventus-api)
//   - TOKEN_TTL: Issued token lifetime (default: 1h)
//   - LOGIN_RATE_PER_MINUTE: Login attempts per IP per minute (default: 10)
//   - LOGIN_BURST: Login attempt burst per IP (default: 5)
//
// API keys are configured in the YAML file only; secrets are stored
// as bcrypt hashes, never plaintext:
//
//	auth:
//	  keys:
//	    - id: ops-dashboard
//	      role: viewer
//	      secret_hash: $2a$10$...
type AuthConfig struct {
	Mode               string         `koanf:"mode"`
	JWTSecret          string         `koanf:"jwt_secret"`
	Issuer             string         `koanf:"issuer"`
	Audience           string         `koanf:"audience"`
	TokenTTL           time.Duration  `koanf:"token_ttl"`
	LoginRatePerMinute int            `koanf:"login_rate_per_minute"`
	LoginBurst         int            `koanf:"login_burst"`
	Keys               []APIKeyConfig `koanf:"keys"`
}

// APIKeyConfig identifies one API key principal.
type APIKeyConfig struct {
	ID         string `koanf:"id"`
	Role       string `koanf:"role"`
	SecretHash string `koanf:"secret_hash"` // bcrypt hash of the key secret
}

// AuthzConfig holds Casbin authorization settings. Empty model and
// policy paths select the embedded defaults.
//
// Environment Variables:
//   - CASBIN_MODEL_PATH: Override model.conf path
//   - CASBIN_POLICY_PATH: Override policy.csv path
//   - CASBIN_DEFAULT_ROLE: Role for unauthenticated subjects in mode
//     none (default: admin) and for tokens without a role claim in
//     mode token (default: viewer is recommended)
//   - CASBIN_CACHE_ENABLED: Cache enforcement decisions (default: true)
//   - CASBIN_CACHE_TTL: Decision cache TTL (default: 5m)
type AuthzConfig struct {
	ModelPath    string        `koanf:"model_path"`
	PolicyPath   string        `koanf:"policy_path"`
	DefaultRole  string        `koanf:"default_role"`
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// MetricsConfig holds Prometheus exposition settings.
//
// Environment Variables:
//   - METRICS_ENABLED: Serve /metrics (default: true)
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// WebsocketConfig holds live-update hub settings.
//
// Environment Variables:
//   - WEBSOCKET_ENABLED: Serve /api/v1/ws (default: true)
//   - WEBSOCKET_SEND_BUFFER: Per-client outbound buffer (default: 32)
//   - WEBSOCKET_PING_INTERVAL: Keepalive ping period (default: 30s)
//   - WEBSOCKET_WRITE_TIMEOUT: Per-message write deadline (default: 10s)
type WebsocketConfig struct {
	Enabled      bool          `koanf:"enabled"`
	SendBuffer   int           `koanf:"send_buffer"`
	PingInterval time.Duration `koanf:"ping_interval"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// CORSConfig holds cross-origin settings for the API.
//
// Environment Variables:
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - CORS_ALLOW_CREDENTIALS: Allow credentialed requests (default: false)
//   - CORS_MAX_AGE: Preflight cache seconds (default: 300)
type CORSConfig struct {
	Origins          []string `koanf:"origins"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

// RateLimitConfig holds per-IP API rate limiting settings.
//
// Environment Variables:
//   - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
//   - RATE_LIMIT_WINDOW: Window length (default: 1m)
//   - DISABLE_RATE_LIMIT: Turn rate limiting off (default: false)
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Disabled bool          `koanf:"disabled"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}
