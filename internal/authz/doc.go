// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package authz provides authorization functionality using Casbin.
//
// This package implements Role-Based Access Control (RBAC) for the API,
// enforcing path-based access policies with the Casbin authorization
// library. It supports hierarchical roles, decision caching, and
// operator-supplied policy files.
//
// # Architecture
//
//	Request -> Auth Middleware -> Authz Middleware -> Handler
//	               |                    |
//	          Authenticate         Authorize (Casbin)
//	           (internal/auth)      (this package)
//
// Authentication resolves the caller to a key id and role; this package
// decides whether that role may touch the requested path with the
// requested method. Anonymous requests (auth mode none) are checked
// against the configured default role.
//
// # RBAC Model
//
// The embedded model uses role inheritance with path matching:
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[policy_effect]
//	e = some(where (p.eft == allow))
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
//
// # Roles
//
// The embedded policy defines three roles:
//
//   - viewer: read datasets, recommendations, history, live updates
//   - editor: viewer plus dataset uploads and scoring runs
//   - admin: everything, including dataset deletion
//
// editor inherits viewer and admin inherits editor through grouping
// rules, so each role's policy lines list only what it adds.
//
// # HTTP Method Mapping
//
// The Authorize middleware maps HTTP methods to actions:
//   - GET, HEAD, OPTIONS -> "read"
//   - POST, PUT, PATCH -> "write"
//   - DELETE -> "delete"
//
// # Usage Example
//
//	enforcer, err := authz.NewEnforcer(&cfg.Authz)
//	if err != nil {
//	    return err
//	}
//	defer enforcer.Close()
//
//	az := authz.NewMiddleware(enforcer)
//	r.Group(func(r chi.Router) {
//	    r.Use(authSvc.Authenticate)
//	    r.Use(az.Authorize)
//	    // protected routes
//	})
//
// # Custom Policies
//
// CASBIN_MODEL_PATH and CASBIN_POLICY_PATH point the enforcer at
// operator files, replacing the embedded defaults. Per-key exceptions
// work by using a key id as the policy subject:
//
//	p, ci, /api/v1/datasets/purge, write
//
// # Caching
//
// Enforcement decisions are cached on the (subject, object, action)
// tuple with a configurable TTL. Hits, misses, evictions and the entry
// count are exported as Prometheus metrics alongside per-decision
// counters and latency histograms.
package authz
