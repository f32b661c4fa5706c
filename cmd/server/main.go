// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/conventus/docs" // Import generated swagger docs
	"github.com/tomtom215/conventus/internal/api"
	"github.com/tomtom215/conventus/internal/auth"
	"github.com/tomtom215/conventus/internal/authz"
	"github.com/tomtom215/conventus/internal/config"
	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/history"
	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/metrics"
	"github.com/tomtom215/conventus/internal/notify"
	"github.com/tomtom215/conventus/internal/recommend"
	"github.com/tomtom215/conventus/internal/supervisor"
	"github.com/tomtom215/conventus/internal/supervisor/services"
	ws "github.com/tomtom215/conventus/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	batchPath := flag.String("batch", "", "compute recommendations for the given dataset document and exit")
	topN := flag.Int("top", 3, "recommendations per group in batch mode")
	flag.Parse()

	if *batchPath != "" {
		if err := runBatch(os.Stdout, *batchPath, *topN); err != nil {
			fmt.Fprintln(os.Stderr, "conventus-server:", err)
			os.Exit(1)
		}
		return
	}

	runServer()
}

//nolint:gocyclo // Main initialization function with sequential setup steps
func runServer() {
	start := time.Now()

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Conventus with supervisor tree")
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("dataset_path", cfg.Dataset.Path).
		Bool("history_enabled", cfg.History.Enabled).
		Str("auth_mode", cfg.Auth.Mode).
		Msg("Configuration loaded")

	if cfg.Auth.Mode == "none" && !cfg.IsProduction() {
		logging.Warn().Msg("Authentication is DISABLED (AUTH_MODE=none) - all endpoints are publicly accessible")
	}

	metrics.SetAppInfo(version)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.StartUptimeTicker(start, 15*time.Second, ctx.Done())

	// Open the revisioned dataset store (BadgerDB)
	store, err := dataset.OpenStore(&cfg.Dataset, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open dataset store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing dataset store")
		}
	}()
	logging.Info().Str("path", cfg.Dataset.Path).Bool("in_memory", cfg.Dataset.InMemory).Msg("Dataset store opened")

	// Create the recommendation engine
	engine, err := recommend.NewEngine(&cfg.Engine, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	logging.Info().
		Int("workers", cfg.Engine.Workers).
		Bool("cache", cfg.Engine.Cache.Enabled).
		Msg("Recommendation engine ready")

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Create WebSocket hub for real-time updates (before the handler,
	// which broadcasts through it)
	var wsHub *ws.Hub
	if cfg.Websocket.Enabled {
		wsHub = ws.NewHubWithOptions(ws.Options{
			SendBuffer:   cfg.Websocket.SendBuffer,
			PingInterval: cfg.Websocket.PingInterval,
			WriteTimeout: cfg.Websocket.WriteTimeout,
		})
		tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
		logging.Info().Msg("WebSocket hub added to supervisor tree")
	} else {
		logging.Info().Msg("WebSocket hub disabled (WEBSOCKET_ENABLED=false)")
	}

	handler := api.NewHandler(store, engine, cfg, wsHub)

	// Select the event bus transport. The NATS transport requires a
	// build with -tags nats; without it NewNATSBus returns an error.
	var bus events.EventBus
	busCfg := events.Config{
		BufferSize:     cfg.Events.BufferSize,
		PublishTimeout: cfg.Events.PublishTimeout,
	}
	if cfg.Events.NATS.Enabled {
		natsBus, err := events.NewNATSBus(busCfg, events.NATSConfig{
			URL:      cfg.Events.NATS.URL,
			Embedded: cfg.Events.NATS.EmbeddedServer,
			StoreDir: cfg.Events.NATS.StoreDir,
		}, logging.Logger())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to start NATS event bus")
		}
		bus = natsBus
		logging.Info().Bool("embedded", cfg.Events.NATS.EmbeddedServer).Msg("NATS event bus started")
	} else {
		bus = events.NewBus(busCfg, logging.Logger())
		logging.Info().Msg("In-process event bus started")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	handler.SetEventPublisher(bus)

	// Event router: dispatches bus events to consumers under
	// supervision. Consumers are registered before the router starts.
	routerCfg := events.DefaultRouterConfig()
	eventRouter, err := events.NewRouter(&routerCfg, events.NewWatermillLogger(logging.Logger()))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event router")
	}

	// History archive (DuckDB): persists completed runs and serves the
	// trend/top queries. Optional; the API degrades to 503 without it.
	if cfg.History.Enabled {
		histStore, err := history.Open(&history.Config{
			Path:              cfg.History.Path,
			MaxMemory:         cfg.History.MaxMemory,
			Threads:           cfg.History.Threads,
			RetentionDays:     cfg.History.RetentionDays,
			RetentionInterval: cfg.History.RetentionInterval,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open history archive")
		}
		defer func() {
			if err := histStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing history archive")
			}
		}()

		handler.SetHistory(histStore)
		eventRouter.AddConsumer("history-archiver", events.TopicRunCompleted,
			bus.Subscriber(), history.NewRunCompletedHandler(histStore))
		tree.AddDataService(history.NewRetentionService(histStore, &history.Config{
			RetentionDays:     cfg.History.RetentionDays,
			RetentionInterval: cfg.History.RetentionInterval,
		}))
		logging.Info().Str("path", cfg.History.Path).Int("retention_days", cfg.History.RetentionDays).Msg("History archive opened")
	} else {
		logging.Info().Msg("History archive disabled (HISTORY_ENABLED=false)")
	}

	// WebSocket consumers: forward bus events to connected clients.
	if wsHub != nil {
		eventRouter.AddConsumer("ws-run-completed", events.TopicRunCompleted,
			bus.Subscriber(), ws.NewRunCompletedHandler(wsHub))
		eventRouter.AddConsumer("ws-dataset-updated", events.TopicDatasetUpdated,
			bus.Subscriber(), ws.NewDatasetUpdatedHandler(wsHub))
	}

	// Webhook notifier: delivers run-completed summaries to configured
	// targets with per-target circuit breaking.
	if cfg.Notify.Enabled && len(cfg.Notify.Targets) > 0 {
		notifier := notify.NewNotifier(&notify.Config{
			Targets:          cfg.Notify.Targets,
			Secret:           cfg.Notify.Secret,
			Timeout:          cfg.Notify.Timeout,
			MaxRetries:       cfg.Notify.MaxRetries,
			BreakerThreshold: cfg.Notify.BreakerThreshold,
			BreakerCooldown:  cfg.Notify.BreakerCooldown,
		})
		eventRouter.AddConsumer("webhook-notifier", events.TopicRunCompleted,
			bus.Subscriber(), notify.NewRunCompletedHandler(notifier))
		logging.Info().Int("targets", len(cfg.Notify.Targets)).Msg("Webhook notifier registered")
	}

	tree.AddMessagingService(services.NewEventRouterService(eventRouter))

	// Data layer: Badger value-log GC for the dataset store.
	tree.AddDataService(services.NewDatasetGCService(store, cfg.Dataset.GCInterval))

	// Authentication service (mode none or token)
	authService, err := auth.NewService(&cfg.Auth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}
	defer authService.Close()
	logging.Info().Str("mode", string(authService.Mode())).Msg("Authentication configured")

	// Casbin authorization (only meaningful with authentication on;
	// the enforcer still runs in mode none using the default role)
	enforcer, err := authz.NewEnforcer(&cfg.Authz)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}
	defer enforcer.Close()
	authzMW := authz.NewMiddleware(enforcer)

	router := api.NewRouter(handler, authService, authzMW, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
