// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upstream talks to the AI completion services behind the
// translation server.
//
// # Key Types
//
//   - Provider: streams text deltas for a Prompt
//   - Prompt: system and user messages built from a translate.Request
//   - OpenAIProvider, AnthropicProvider, GeminiProvider: SDK backed providers
//   - MockProvider: scripted provider for tests and offline demos
//
// # Usage
//
//	p, err := upstream.New(cfg.Upstream, cfg.UpstreamAPIKey())
//	prompt := upstream.BuildPrompt(req)
//	err = p.Stream(ctx, prompt, func(delta string) error {
//	    _, err := w.Write([]byte(delta))
//	    return err
//	})
package upstream
