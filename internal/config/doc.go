// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package config provides centralized configuration management for all
// application components.
//
// Configuration is loaded in three layers with clear precedence
// (highest wins):
//
//  1. Built-in defaults for every optional setting
//  2. Optional YAML config file (config.yaml, or CONVENTUS_CONFIG)
//  3. Environment variables
//
// # Loading
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("failed to load config")
//	}
//	store, err := dataset.OpenStore(&cfg.Dataset, logger)
//	engine := recommend.NewEngine(&cfg.Engine, logger)
//
// Load validates the assembled configuration and refuses to start on
// malformed values, missing required secrets, or insecure settings in
// production mode.
//
// # Environment variables
//
// Each section documents its environment variables. The mapping is an
// explicit table rather than a generic prefix transform, so unrelated
// environment variables never leak into the configuration.
//
// # Thread safety
//
// Config is immutable after Load and safe for concurrent reads.
package config
