// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the transport client for the translation endpoint.
//
// The client sends exactly one POST per translation request and hands the
// raw response body back to the caller for incremental consumption. There
// is no retry: a failed request is reported once and the user decides
// whether to submit again.
//
// # Key Types
//
//   - Client: HTTP client bound to a base URL and endpoint path
//   - Response: an open streaming response body plus metadata
//   - TransportError: non-2xx status from the endpoint
//
// # Usage
//
//	client := cloud.NewClient("http://localhost:3000")
//	text, err := client.Translate(ctx, req, func(chunk string) {
//	    fmt.Print(chunk)
//	})
//
// Requests are logged with method, path, status and duration. Bodies are
// never logged.
package cloud
