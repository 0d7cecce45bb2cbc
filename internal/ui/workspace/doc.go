// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace is the interactive translation screen.
//
// The screen has an input panel, the option fields (source language,
// target language, output natural language and mode) and an output panel.
// Pressing ctrl+g composes a request from the input, sends it through a
// Translator and streams the response into the output panel. While the
// request is in flight the input and options are read-only and esc
// cancels it. A completed translation is copied to the clipboard.
//
// # Key Types
//
//   - Model: the Bubble Tea model
//   - Translator: anything that streams a translation (*cloud.Client)
//   - Settings: theme, input limit and initial options
//   - KeyMap: key bindings
//
// # Usage
//
//	client := cloud.NewClient(cfg.Client.BaseURL)
//	m := workspace.New(settings, client, clipboard.NewSystem(os.Stdout))
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	_, err := p.Run()
//
// Stream events are delivered to Update as messages tagged with the
// request id; messages from an earlier request are dropped.
package workspace
