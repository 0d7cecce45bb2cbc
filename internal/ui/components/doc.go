// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the widgets the workspace is built from.
//
// # Key Types
//
//   - CodeBlock: chroma-highlighted code output with line numbers
//   - Markdown: glamour renderer for natural-language output
//   - Toasts: self-dismissing notifications, newest first
//   - Spinner: activity indicator wrapping bubbles/spinner
//   - StatusBar: phase, character counter and key hints on one line
//   - Picker: cycles through a fixed option list
//
// # Usage
//
//	toasts := components.NewToasts()
//	toasts.Warning("Please enter some text.")
//	view := components.RenderToastStack(theme, toasts.List(), width)
//
// Components hold no goroutines; the workspace owns all updates.
package components
