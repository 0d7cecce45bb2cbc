// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the translation backend the client talks to.
//
// The server accepts the same JSON body the client sends, validates it with
// the composer rules, turns it into a prompt and streams the upstream
// provider's text back as a raw UTF-8 body with no framing.
//
// # Endpoints
//
//   - POST /api/translate - streaming translation (text/plain)
//   - GET  /api/languages - natural languages, modes, suggested languages
//   - GET  /health        - liveness and active provider
//
// # Middleware
//
//   - Request id (X-Request-ID, echoed or generated)
//   - Panic recovery
//   - Security headers (X-Content-Type-Options, X-Frame-Options, etc.)
//   - Request logging through apex/log
//   - Request body size limit
//
// Errors before the first streamed byte are JSON: 400 for invalid input,
// 413 for oversized bodies, 502 when the provider fails. Once streaming has
// started a provider failure truncates the body.
//
// # Usage
//
//	provider, err := upstream.New(cfg.Upstream, cfg.UpstreamAPIKey())
//	if err != nil {
//		return err
//	}
//	srv := server.New(cfg, provider)
//	return srv.Run(ctx)
package server
