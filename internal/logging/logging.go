// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the apex/log handler for each coderhelper surface.
//
// The TUI owns the terminal, so it logs to a file (or nowhere); the CLI
// logs human-readable lines to stderr; the server logs JSON lines to
// stderr for collection.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"

	"github.com/jeranaias/coderhelper/internal/config"
)

// Surface identifies which front end is running.
type Surface int

const (
	SurfaceCLI Surface = iota
	SurfaceTUI
	SurfaceServer
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the handler and level for surface. The returned closer
// releases the log file, if one was opened.
func Setup(cfg config.LogConfig, surface Surface) (io.Closer, error) {
	return SetupWriter(cfg, surface, os.Stderr)
}

// SetupWriter is Setup with an explicit stderr replacement.
func SetupWriter(cfg config.LogConfig, surface Surface, stderr io.Writer) (io.Closer, error) {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			log.SetHandler(discard.New())
			return nopCloser{}, err
		}
		log.SetHandler(text.New(f))
		return f, nil
	}

	switch surface {
	case SurfaceTUI:
		log.SetHandler(discard.New())
	case SurfaceServer:
		log.SetHandler(json.New(stderr))
	default:
		log.SetHandler(cli.New(stderr))
	}
	return nopCloser{}, nil
}

func openLogFile(path string) (*os.File, error) {
	if strings.HasPrefix(path, "~"+string(filepath.Separator)) || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not expand %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
