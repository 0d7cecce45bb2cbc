// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"errors"
	"io"
	"strings"
)

// DefaultChunkSize is the read buffer size for each pull from the body.
const DefaultChunkSize = 4 * 1024

// ChunkFunc receives each decoded piece of text in arrival order.
type ChunkFunc func(piece string)

// Consumer reads a response body to completion.
type Consumer struct {
	chunkSize int
}

// NewConsumer creates a consumer with DefaultChunkSize.
func NewConsumer() *Consumer {
	return &Consumer{chunkSize: DefaultChunkSize}
}

// WithChunkSize sets the read buffer size. Non-positive sizes are ignored.
func (c *Consumer) WithChunkSize(n int) *Consumer {
	if n > 0 {
		c.chunkSize = n
	}
	return c
}

// Consume pulls chunks from r until end of stream, decoding each one and
// passing the decoded text to onChunk. It returns the full text.
//
// A read failure returns a *StreamError carrying the text decoded so far.
// If ctx is done, the returned error wraps ctx.Err().
func (c *Consumer) Consume(ctx context.Context, r io.Reader, onChunk ChunkFunc) (string, error) {
	if onChunk == nil {
		onChunk = func(string) {}
	}

	size := c.chunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	dec := NewDecoder()
	buf := make([]byte, size)
	var full strings.Builder

	emit := func(piece string) {
		if piece == "" {
			return
		}
		full.WriteString(piece)
		onChunk(piece)
	}

	for {
		if err := ctx.Err(); err != nil {
			return full.String(), &StreamError{Partial: full.String(), Err: err}
		}

		n, err := r.Read(buf)
		if n > 0 {
			emit(dec.Decode(buf[:n]))
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				emit(dec.Flush())
				return full.String(), nil
			}
			// A canceled request surfaces as a read error; report the cause.
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			return full.String(), &StreamError{Partial: full.String(), Err: err}
		}
	}
}

// ReadAll consumes r without a callback and returns the text.
func ReadAll(ctx context.Context, r io.Reader) (string, error) {
	return NewConsumer().Consume(ctx, r, nil)
}
