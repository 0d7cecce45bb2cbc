// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns a sequence of byte chunks into text.
//
// Incomplete multi-byte sequences at the end of a chunk are held until the
// next call. Invalid bytes decode to U+FFFD and a leading byte order mark is
// dropped. A Decoder is not safe for concurrent use.
type Decoder struct {
	t       transform.Transformer
	pending []byte
	started bool // past the point where a byte order mark can appear
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// NewDecoder returns a UTF-8 decoder with empty carry-over state.
func NewDecoder() *Decoder {
	return &Decoder{t: unicode.UTF8.NewDecoder()}
}

// Decode decodes chunk and returns every complete character available so
// far, including bytes carried over from earlier chunks.
func (d *Decoder) Decode(chunk []byte) string {
	return d.decode(chunk, false)
}

// Flush decodes any carried-over bytes as the end of the stream.
// Bytes that never completed a character become U+FFFD.
func (d *Decoder) Flush() string {
	out := d.decode(nil, true)
	d.t.Reset()
	d.started = false
	return out
}

// Pending returns how many bytes are waiting for the rest of a character.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Reset discards carry-over state.
func (d *Decoder) Reset() {
	d.pending = d.pending[:0]
	d.t.Reset()
	d.started = false
}

func (d *Decoder) decode(chunk []byte, atEOF bool) string {
	src := make([]byte, 0, len(d.pending)+len(chunk))
	src = append(src, d.pending...)
	src = append(src, chunk...)
	d.pending = d.pending[:0]

	if !d.started {
		// Only a strict prefix of the mark is held back.
		if !atEOF && len(src) < len(bom) && bytes.HasPrefix(bom, src) {
			d.pending = append(d.pending, src...)
			return ""
		}
		src = bytes.TrimPrefix(src, bom)
		d.started = true
	}

	if len(src) == 0 && !atEOF {
		return ""
	}

	// Each source byte expands to at most 3 bytes (U+FFFD).
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	var out []byte

	for {
		nDst, nSrc, err := d.t.Transform(dst, src, atEOF)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]

		switch err {
		case nil:
			return string(out)
		case transform.ErrShortSrc:
			d.pending = append(d.pending, src...)
			return string(out)
		case transform.ErrShortDst:
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
		default:
			// The UTF-8 decoder only reports short buffers; anything else
			// leaves the remaining bytes for the next call.
			d.pending = append(d.pending, src...)
			return string(out)
		}
	}
}
