// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched
// in order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/conventus/config.yaml",
	"/etc/conventus/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONVENTUS_CONFIG"

// defaultConfig returns a Config with every optional setting at its
// default. Defaults load first, then the config file, then
// environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8245,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development", // Set ENVIRONMENT=production for production checks
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Engine:  *recommend.DefaultConfig(),
		Dataset: *dataset.DefaultStoreConfig(),
		History: HistoryConfig{
			Enabled:           true,
			Path:              "/data/conventus.duckdb",
			MaxMemory:         "1GB",
			Threads:           0, // 0 = use runtime.NumCPU()
			RetentionDays:     90,
			RetentionInterval: 12 * time.Hour,
		},
		Events: EventsConfig{
			BufferSize:     64,
			PublishTimeout: 5 * time.Second,
			NATS: NATSEventConfig{
				Enabled:        false, // In-process bus by default; NATS needs the nats build tag
				URL:            "nats://127.0.0.1:4222",
				EmbeddedServer: true,
				StoreDir:       "/data/nats",
			},
		},
		Notify: NotifyConfig{
			Enabled:          false, // Opt-in only
			Targets:          []string{},
			Secret:           "",
			Timeout:          10 * time.Second,
			MaxRetries:       2,
			BreakerThreshold: 5,
			BreakerCooldown:  60 * time.Second,
		},
		Auth: AuthConfig{
			Mode:               "none", // Refused in production by Validate
			JWTSecret:          "",
			Issuer:             "conventus",
			Audience:           "conventus-api",
			TokenTTL:           time.Hour,
			LoginRatePerMinute: 10,
			LoginBurst:         5,
			Keys:               []APIKeyConfig{},
		},
		Authz: AuthzConfig{
			ModelPath:    "", // Empty = embedded model and policy
			PolicyPath:   "",
			DefaultRole:  "viewer",
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Websocket: WebsocketConfig{
			Enabled:      true,
			SendBuffer:   32,
			PingInterval: 30 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		CORS: CORSConfig{
			Origins:          []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
			Disabled: false,
		},
	}
}

// Load assembles configuration from layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env values for known slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when they arrive as env var strings.
var sliceConfigPaths = []string{
	"cors.origins",
	"notify.targets",
}

// processSliceFields converts comma-separated string values to slices
// for known slice fields. Env vars come in as strings, but the config
// expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config
// paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - ENGINE_WORKERS -> engine.workers
//   - DATASET_PATH -> dataset.path
//   - HISTORY_RETENTION_DAYS -> history.retention_days
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_read_timeout":     "server.read_timeout",
		"http_write_timeout":    "server.write_timeout",
		"http_idle_timeout":     "server.idle_timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",
		"environment":           "server.environment",

		// Logging mappings
		"log_level":  "log.level",
		"log_format": "log.format",
		"log_caller": "log.caller",

		// Engine mappings
		"engine_workers":           "engine.workers",
		"engine_default_top_n":     "engine.limits.default_top_n",
		"engine_max_top_n":         "engine.limits.max_top_n",
		"engine_compute_timeout":   "engine.limits.compute_timeout",
		"engine_cache_enabled":     "engine.cache.enabled",
		"engine_cache_ttl":         "engine.cache.ttl",
		"engine_cache_max_entries": "engine.cache.max_entries",

		// Dataset store mappings
		"dataset_path":        "dataset.path",
		"dataset_in_memory":   "dataset.in_memory",
		"dataset_sync_writes": "dataset.sync_writes",
		"dataset_gc_interval": "dataset.gc_interval",

		// History mappings
		"history_enabled":            "history.enabled",
		"history_path":               "history.path",
		"history_max_memory":         "history.max_memory",
		"history_threads":            "history.threads",
		"history_retention_days":     "history.retention_days",
		"history_retention_interval": "history.retention_interval",

		// Events mappings
		"events_buffer_size":     "events.buffer_size",
		"events_publish_timeout": "events.publish_timeout",
		"nats_enabled":           "events.nats.enabled",
		"nats_url":               "events.nats.url",
		"nats_embedded":          "events.nats.embedded_server",
		"nats_store_dir":         "events.nats.store_dir",

		// Webhook mappings
		"webhook_enabled":           "notify.enabled",
		"webhook_targets":           "notify.targets",
		"webhook_secret":            "notify.secret",
		"webhook_timeout":           "notify.timeout",
		"webhook_max_retries":       "notify.max_retries",
		"webhook_breaker_threshold": "notify.breaker_threshold",
		"webhook_breaker_cooldown":  "notify.breaker_cooldown",

		// Auth mappings
		"auth_mode":             "auth.mode",
		"jwt_secret":            "auth.jwt_secret",
		"jwt_issuer":            "auth.issuer",
		"jwt_audience":          "auth.audience",
		"token_ttl":             "auth.token_ttl",
		"login_rate_per_minute": "auth.login_rate_per_minute",
		"login_burst":           "auth.login_burst",

		// Casbin mappings
		"casbin_model_path":    "authz.model_path",
		"casbin_policy_path":   "authz.policy_path",
		"casbin_default_role":  "authz.default_role",
		"casbin_cache_enabled": "authz.cache_enabled",
		"casbin_cache_ttl":     "authz.cache_ttl",

		// Metrics mappings
		"metrics_enabled": "metrics.enabled",

		// Websocket mappings
		"websocket_enabled":       "websocket.enabled",
		"websocket_send_buffer":   "websocket.send_buffer",
		"websocket_ping_interval": "websocket.ping_interval",
		"websocket_write_timeout": "websocket.write_timeout",

		// CORS mappings
		"cors_origins":           "cors.origins",
		"cors_allow_credentials": "cors.allow_credentials",
		"cors_max_age":           "cors.max_age",

		// Rate limit mappings
		"rate_limit_requests": "rate_limit.requests",
		"rate_limit_window":   "rate_limit.window",
		"disable_rate_limit":  "rate_limit.disabled",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables never
	// pollute the config.
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for mutex protection when swapping
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
