// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/conventus/internal/config"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Enforcer wraps the Casbin enforcer with decision caching and role
// fallback for anonymous requests.
type Enforcer struct {
	defaultRole string
	enforcer    *casbin.SyncedEnforcer
	cache       *decisionCache
}

// NewEnforcer creates an authorization enforcer from configuration.
// Empty model and policy paths load the embedded defaults, so a fresh
// deployment needs no policy files on disk.
func NewEnforcer(cfg *config.AuthzConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = &config.AuthzConfig{
			DefaultRole:  "viewer",
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
		}
	}

	var m model.Model
	var err error

	if cfg.ModelPath != "" && fileExists(cfg.ModelPath) {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer

	if cfg.PolicyPath != "" && fileExists(cfg.PolicyPath) {
		adapter := fileadapter.NewAdapter(cfg.PolicyPath)
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{
		defaultRole: cfg.DefaultRole,
		enforcer:    enforcer,
	}

	if cfg.CacheEnabled {
		e.cache = newDecisionCache(cfg.CacheTTL)
	}

	UpdatePolicyGauges(len(e.GetPolicy()), len(e.GetGroupingPolicy()))
	return e, nil
}

// loadEmbeddedPolicy parses and loads the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		ptype := parts[0]
		rule := parts[1:]

		switch ptype {
		case "p":
			if len(rule) >= 3 {
				if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
					return fmt.Errorf("failed to add policy %v: %w", rule, err)
				}
			}
		case "g":
			if len(rule) >= 2 {
				if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
					return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
				}
			}
		}
	}
	return nil
}

// Enforce checks whether the subject can perform the action on the object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	allowed, _, err := e.check(subject, object, action)
	return allowed, err
}

// EnforceWithRole checks the caller's key id first, so deployments can
// grant per-key exceptions in a policy file, then the role. Anonymous
// callers (empty role) fall back to the configured default role.
// The returned cacheHit reports whether the deciding check came from
// the decision cache.
func (e *Enforcer) EnforceWithRole(subject, role, object, action string) (allowed, cacheHit bool, err error) {
	if subject != "" {
		allowed, cacheHit, err = e.check(subject, object, action)
		if err != nil || allowed {
			return allowed, cacheHit, err
		}
	}

	if role != "" {
		return e.check(role, object, action)
	}

	if e.defaultRole != "" {
		return e.check(e.defaultRole, object, action)
	}

	return false, false, nil
}

// check performs a single cached enforcement.
func (e *Enforcer) check(subject, object, action string) (bool, bool, error) {
	if e.cache != nil {
		if allowed, ok := e.cache.get(subject, object, action); ok {
			return allowed, true, nil
		}
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		RecordAuthzError("enforcer_error")
		return false, false, fmt.Errorf("enforcement failed: %w", err)
	}

	if e.cache != nil {
		e.cache.set(subject, object, action, allowed)
	}
	return allowed, false, nil
}

// GetPolicy returns all policy rules.
func (e *Enforcer) GetPolicy() [][]string {
	//nolint:errcheck // GetPolicy only fails if enforcer is nil, which is a programming error
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

// GetGroupingPolicy returns all role inheritance rules.
func (e *Enforcer) GetGroupingPolicy() [][]string {
	//nolint:errcheck // GetGroupingPolicy only fails if enforcer is nil, which is a programming error
	policies, _ := e.enforcer.GetGroupingPolicy()
	return policies
}

// Close stops the decision cache cleanup goroutine.
func (e *Enforcer) Close() {
	if e.cache != nil {
		e.cache.stop()
	}
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
