// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream consumes an unframed UTF-8 response body chunk by chunk.
//
// The body has no message boundaries: the concatenation of everything read
// is the final text. Chunks may split multi-byte characters, so the Decoder
// keeps incomplete sequences between calls and only emits whole characters.
//
// # Usage
//
//	c := stream.NewConsumer()
//	text, err := c.Consume(ctx, resp.Body, func(piece string) {
//	    display.Append(piece)
//	})
//
// Consume is a single read loop with no goroutines of its own; pieces are
// delivered strictly in arrival order.
package stream
