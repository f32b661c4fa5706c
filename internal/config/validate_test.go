// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package config

import (
	"strings"
	"testing"
)

// validConfig returns a fully valid configuration to mutate in tests.
func validConfig() *Config {
	return defaultConfig()
}

func TestValidateDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "HTTP_READ_TIMEOUT",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "HTTP_SHUTDOWN_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLog(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject unknown log level")
	}

	cfg = validConfig()
	cfg.Log.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject unknown log format")
	}
}

func TestValidateEngineDelegation(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Workers = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should surface engine config errors")
	}
	if !strings.Contains(err.Error(), "engine configuration invalid") {
		t.Errorf("Validate() error = %v, want engine wrapper", err)
	}
}

func TestValidateDataset(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should require a dataset path for on-disk stores")
	}

	// In-memory stores need no path.
	cfg = validConfig()
	cfg.Dataset.Path = ""
	cfg.Dataset.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for in-memory store", err)
	}
}

func TestValidateHistory(t *testing.T) {
	cfg := validConfig()
	cfg.History.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should require HISTORY_PATH when enabled")
	}

	// Disabling history skips its checks entirely.
	cfg = validConfig()
	cfg.History.Enabled = false
	cfg.History.Path = ""
	cfg.History.RetentionInterval = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil when history disabled", err)
	}

	cfg = validConfig()
	cfg.History.RetentionDays = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject negative retention")
	}
}

func TestValidateEvents(t *testing.T) {
	cfg := validConfig()
	cfg.Events.NATS.Enabled = true
	cfg.Events.NATS.URL = "http://not-nats:4222"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject http scheme for NATS_URL")
	}

	cfg = validConfig()
	cfg.Events.NATS.Enabled = true
	cfg.Events.NATS.URL = "nats://127.0.0.1:4222"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for valid NATS URL", err)
	}
}

func TestValidateNotify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{
			name: "enabled without targets",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
			},
			valid: false,
		},
		{
			name: "bad target scheme",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.Targets = []string{"ftp://hooks.example.com"}
			},
			valid: false,
		},
		{
			name: "target with path is fine",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.Targets = []string{"https://hooks.example.com/conventus/run-completed"}
			},
			valid: true,
		},
		{
			name: "zero breaker threshold",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.Targets = []string{"https://hooks.example.com"}
				c.Notify.BreakerThreshold = 0
			},
			valid: false,
		},
		{
			name: "disabled skips checks",
			mutate: func(c *Config) {
				c.Notify.Enabled = false
				c.Notify.Timeout = 0
			},
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestValidateAuth(t *testing.T) {
	tokenBase := func() *Config {
		cfg := validConfig()
		cfg.Auth.Mode = "token"
		cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
		cfg.Auth.Keys = []APIKeyConfig{
			{ID: "ops", Role: "admin", SecretHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"},
		}
		return cfg
	}

	t.Run("valid token config", func(t *testing.T) {
		if err := tokenBase().Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.Mode = "basic"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject unknown auth mode")
		}
	})

	t.Run("none refused in production", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Environment = "production"
		err := cfg.Validate()
		if err == nil {
			t.Fatal("Validate() should refuse AUTH_MODE=none in production")
		}
		if !strings.Contains(err.Error(), "AUTH_MODE=none is not allowed") {
			t.Errorf("Validate() error = %v, want mode refusal", err)
		}
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := tokenBase()
		cfg.Auth.JWTSecret = "too-short"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject short JWT secret")
		}
	})

	t.Run("placeholder jwt secret", func(t *testing.T) {
		cfg := tokenBase()
		cfg.Auth.JWTSecret = "CHANGEME-CHANGEME-CHANGEME-CHANGEME"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject placeholder JWT secret")
		}
	})

	t.Run("token mode needs keys", func(t *testing.T) {
		cfg := tokenBase()
		cfg.Auth.Keys = nil
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should require at least one API key")
		}
	})

	t.Run("plaintext key secret rejected", func(t *testing.T) {
		cfg := tokenBase()
		cfg.Auth.Keys[0].SecretHash = "my-plaintext-secret"
		err := cfg.Validate()
		if err == nil {
			t.Fatal("Validate() should reject non-bcrypt secret hashes")
		}
		if !strings.Contains(err.Error(), "bcrypt") {
			t.Errorf("Validate() error = %v, want bcrypt mention", err)
		}
	})

	t.Run("duplicate key ids rejected", func(t *testing.T) {
		cfg := tokenBase()
		cfg.Auth.Keys = append(cfg.Auth.Keys, cfg.Auth.Keys[0])
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject duplicate key ids")
		}
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		cfg := tokenBase()
		cfg.Auth.Keys[0].Role = "superuser"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject unknown roles")
		}
	})
}

func TestValidateAuthz(t *testing.T) {
	cfg := validConfig()
	cfg.Authz.DefaultRole = "root"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject unknown default role")
	}

	cfg = validConfig()
	cfg.Authz.ModelPath = "/etc/conventus/model.conf"
	// PolicyPath left empty
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should require model and policy paths together")
	}

	cfg = validConfig()
	cfg.Authz.CacheTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject zero cache TTL while cache enabled")
	}
}

func TestValidateWebhookURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://hooks.example.com", false},
		{"https://hooks.example.com/path?query=1", false},
		{"http://10.0.0.1:8080/hook", false},
		{"ftp://hooks.example.com", true},
		{"https://", true},
		{"://bad", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateWebhookURL(tt.url)
			if tt.wantErr && err == nil {
				t.Errorf("validateWebhookURL(%q) = nil, want error", tt.url)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateWebhookURL(%q) = %v, want nil", tt.url, err)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()

	cfg.Server.Environment = "production"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("production environment misclassified")
	}

	cfg.Server.Environment = "PROD"
	if !cfg.IsProduction() {
		t.Error("environment comparison should be case-insensitive")
	}

	cfg.Server.Environment = ""
	if !cfg.IsDevelopment() {
		t.Error("empty environment should count as development")
	}
}

func TestServerAddr(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8245}
	if got := cfg.Addr(); got != "127.0.0.1:8245" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8245", got)
	}
}
