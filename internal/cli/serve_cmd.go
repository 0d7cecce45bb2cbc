// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve_cmd.go - Translation backend.
//
// Command: serve
// Short:   Serve POST /api/translate backed by an AI provider
//
// Examples:
//   coderhelper serve
//   coderhelper serve --addr :8080 --provider anthropic
//   coderhelper serve --provider mock   # offline echo backend
//
// The config file is watched; provider changes apply without a restart.

package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/coderhelper/internal/config"
	"github.com/jeranaias/coderhelper/internal/logging"
	"github.com/jeranaias/coderhelper/internal/server"
	"github.com/jeranaias/coderhelper/internal/upstream"
)

type serveFlags struct {
	addr     string
	provider string
	model    string
	noWatch  bool
}

func newServeCommand(global *globalFlags) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			path, _ := global.activePath()
			return runServe(cmd, cfg, f, path)
		},
	}
	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "upstream provider: openai, anthropic, gemini, mock")
	cmd.Flags().StringVar(&f.model, "model", "", "upstream model")
	cmd.Flags().BoolVar(&f.noWatch, "no-watch", false, "do not reload the config file on change")
	return cmd
}

// apply writes the flag overrides into cfg.
func (f *serveFlags) apply(cfg *config.Config) error {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.provider != "" {
		cfg.Upstream.Provider = strings.ToLower(f.provider)
		// A model picked for another provider would not exist here.
		if f.model == "" {
			cfg.Upstream.Model = ""
		}
	}
	if f.model != "" {
		cfg.Upstream.Model = f.model
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, cfg *config.Config, f *serveFlags, configPath string) error {
	if err := f.apply(cfg); err != nil {
		return withCode(ExitUsageError, err)
	}

	closer, err := logging.Setup(cfg.Log, logging.SurfaceServer)
	if err != nil {
		return configError(err)
	}
	defer closer.Close()

	provider, err := upstream.New(cfg.Upstream, cfg.UpstreamAPIKey())
	if err != nil {
		return configError(err)
	}

	srv := server.New(cfg, provider)

	if !f.noWatch && configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			watcher, err := srv.WatchConfig(configPath)
			if err != nil {
				log.WithError(err).Warn("config reload disabled")
			} else {
				defer watcher.Close()
			}
		}
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
