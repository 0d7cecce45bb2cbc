// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for coderhelper.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, validation and live reload.
//
// # Key Types
//
//   - Config: main configuration structure
//   - ClientConfig: where the translation endpoint lives and input limits
//   - UIConfig: initial workspace selections and theme
//   - ServerConfig, UpstreamConfig: settings for `coderhelper serve`
//   - Watcher: fsnotify based reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CODERHELPER_*)
//   - ~/.coderhelper/config.toml
//   - ~/.coderhelper/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := cloud.NewClient(cfg.Client.BaseURL).WithEndpoint(cfg.Client.Endpoint)
package config
