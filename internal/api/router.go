// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/conventus/internal/auth"
	"github.com/tomtom215/conventus/internal/authz"
	"github.com/tomtom215/conventus/internal/config"
	"github.com/tomtom215/conventus/internal/middleware"
)

// Router configures the HTTP routes and middleware stack.
type Router struct {
	handler       *Handler
	authService   *auth.Service
	authzMW       *authz.Middleware
	chiMiddleware *ChiMiddleware
	config        *config.Config
}

// NewRouter creates a router over the given handler. authService and
// authzMW may be nil, which disables authentication and authorization
// respectively (development setups and tests).
func NewRouter(handler *Handler, authService *auth.Service, authzMW *authz.Middleware, cfg *config.Config) *Router {
	return &Router{
		handler:       handler,
		authService:   authService,
		authzMW:       authzMW,
		chiMiddleware: NewChiMiddlewareFromConfig(cfg),
		config:        cfg,
	}
}

// chiHandlerFunc adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler shape so the infrastructure
// middleware in internal/middleware composes with r.Use().
func chiHandlerFunc(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the Chi handler tree.
//
// Middleware ordering is significant: request ids come first so every
// later log line carries one, CORS runs globally to answer OPTIONS
// preflights, and authentication runs before authorization so the
// role claim is present when the enforcer consults it.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(RequestLogging())

	// Health endpoints: permissive rate limit, no auth. Monitoring
	// probes must keep working when credentials rotate.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/api/v1/healthz", router.handler.Health)
		r.Get("/api/v1/readyz", router.handler.HealthReady)
	})

	// Token issuance: strict rate limit against brute force. Only
	// registered when token auth is configured.
	if router.authService != nil && router.authService.Enabled() {
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAuth())
			r.Use(APISecurityHeaders())
			r.Post("/api/v1/auth/token", router.authService.TokenHandler)
		})
	}

	// Data endpoints: instrumented, compressed, authenticated,
	// authorized.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiHandlerFunc(middleware.PrometheusMetrics))
		r.Use(router.handler.perfMon.Middleware)
		r.Use(chiHandlerFunc(middleware.Compression))
		if router.authService != nil && router.authService.Enabled() {
			r.Use(router.authService.Authenticate)
		}
		if router.authzMW != nil {
			r.Use(router.authzMW.Authorize)
		}

		r.Route("/datasets", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitUpload()).Post("/", router.handler.DatasetUpload)
			r.Get("/", router.handler.DatasetList)
			r.Get("/current", router.handler.DatasetCurrent)
			r.Get("/{revision}", router.handler.DatasetGet)
			r.Post("/{revision}/activate", router.handler.DatasetActivate)
			r.Delete("/{revision}", router.handler.DatasetDelete)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitCompute()).Post("/compute", router.handler.RecommendationsCompute)
			r.Get("/groups/{groupID}", router.handler.GroupRecommendations)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/runs", router.handler.HistoryRuns)
			r.Get("/runs/{runID}", router.handler.HistoryRun)
			r.Get("/groups/{groupID}/trend", router.handler.HistoryGroupTrend)
			r.Get("/activities/top", router.handler.HistoryTopActivities)
		})
	})

	// WebSocket upgrade sits outside the instrumented group: the
	// response-writer wrappers used for metrics and compression do not
	// implement http.Hijacker, which the upgrade needs.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWebSocket())
		if router.authService != nil && router.authService.Enabled() {
			r.Use(router.authService.Authenticate)
		}
		if router.authzMW != nil {
			r.Use(router.authzMW.Authorize)
		}
		r.Get("/api/v1/ws", router.handler.WebSocket)
	})

	// Observability.
	if router.config == nil || router.config.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
