// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across coderhelper.
//
// # Key Functions
//
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, FitWidth: terminal-column aware truncation and padding
//   - SingleLine: collapses whitespace for one-line previews
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	preview := util.TruncateWidth(util.SingleLine(code), 40)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
