// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the coderhelper command line.
//
// Running coderhelper without a subcommand opens the interactive
// workspace. The subcommands cover scripted use and the backend.
//
// # Commands
//
//   - (none): interactive workspace
//   - translate: one-shot translation streamed to stdout
//   - serve: the POST /api/translate backend
//   - config: show, path, init, get, set
//   - version: build information
//
// # Usage
//
//	os.Exit(cli.Execute())
//
// Every command returns its error; Execute prints it once and maps it to
// an exit code (see ExitCode).
package cli
