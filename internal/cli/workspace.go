// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/coderhelper/internal/clipboard"
	"github.com/jeranaias/coderhelper/internal/cloud"
	"github.com/jeranaias/coderhelper/internal/config"
	"github.com/jeranaias/coderhelper/internal/logging"
	"github.com/jeranaias/coderhelper/internal/ui/workspace"
)

// runWorkspace starts the interactive workspace.
func runWorkspace(cmd *cobra.Command, cfg *config.Config) error {
	closer, err := logging.Setup(cfg.Log, logging.SurfaceTUI)
	if err != nil {
		return configError(err)
	}
	defer closer.Close()

	client := cloud.NewClient(cfg.Client.BaseURL).WithEndpoint(cfg.Client.Endpoint)
	clip, closeClip := workspaceClipboard(cfg.UI.OSC52)
	defer closeClip()

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGTERM)
	defer stop()

	settings := workspace.Settings{
		Theme:          cfg.UI.Theme,
		Endpoint:       client.URL(),
		MaxInputLength: cfg.Client.MaxInputLength,
		CopyOnComplete: cfg.UI.CopyOnComplete,
		Options:        cfg.TranslateOptions(),
	}
	model := workspace.New(settings, client, clip).
		WithContext(ctx).
		WithLogger(log.WithField("surface", "tui"))

	log.WithFields(log.Fields{
		"endpoint":  client.URL(),
		"clipboard": clipboard.Describe(clip).String(),
	}).Info("workspace starting")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// openTTY opens the controlling terminal. The renderer owns stdout, so
// clipboard escape sequences use their own handle.
var openTTY = func() (io.WriteCloser, error) {
	return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
}

// workspaceClipboard returns the clipboard for the workspace and a func
// that releases it. Without a terminal the OSC 52 fallback is off.
func workspaceClipboard(osc52 bool) (*clipboard.System, func()) {
	if !osc52 {
		return clipboard.NewSystem(nil), func() {}
	}
	tty, err := openTTY()
	if err != nil {
		log.WithError(err).Debug("no terminal for OSC 52, clipboard fallback disabled")
		return clipboard.NewSystem(nil), func() {}
	}
	return clipboard.NewSystem(tty), func() { tty.Close() }
}

// contextOrBackground returns cmd's context, which is nil when the
// command runs outside ExecuteContext.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
