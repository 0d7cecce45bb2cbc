// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// decodeAll feeds chunks through a fresh decoder and returns the joined text.
func decodeAll(chunks [][]byte) string {
	d := NewDecoder()
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(d.Decode(c))
	}
	sb.WriteString(d.Flush())
	return sb.String()
}

func TestDecoder_PlainChunks(t *testing.T) {
	got := decodeAll([][]byte{[]byte("Hel"), []byte("lo, "), []byte("world")})
	if got != "Hello, world" {
		t.Errorf("got %q, want %q", got, "Hello, world")
	}
}

func TestDecoder_SplitMultiByteAtEveryOffset(t *testing.T) {
	text := "héllo 世界 🚀 done"
	raw := []byte(text)

	for i := 1; i < len(raw); i++ {
		got := decodeAll([][]byte{raw[:i], raw[i:]})
		if got != text {
			t.Errorf("split at %d: got %q, want %q", i, got, text)
		}
	}
}

func TestDecoder_OneByteChunks(t *testing.T) {
	text := "日本語のテキスト and emoji 🎉"
	var chunks [][]byte
	for _, b := range []byte(text) {
		chunks = append(chunks, []byte{b})
	}
	if got := decodeAll(chunks); got != text {
		t.Errorf("got %q, want %q", got, text)
	}
}

func TestDecoder_HoldsIncompleteSequence(t *testing.T) {
	d := NewDecoder()
	raw := []byte("abc世") // 世 is 3 bytes

	first := d.Decode(raw[:len(raw)-1])
	if first != "abc" {
		t.Errorf("first piece = %q, want %q", first, "abc")
	}
	if d.Pending() != 2 {
		t.Errorf("pending = %d, want 2", d.Pending())
	}

	second := d.Decode(raw[len(raw)-1:])
	if second != "世" {
		t.Errorf("second piece = %q, want %q", second, "世")
	}
	if d.Pending() != 0 {
		t.Errorf("pending after completion = %d, want 0", d.Pending())
	}
}

func TestDecoder_NeverEmitsBrokenRunes(t *testing.T) {
	d := NewDecoder()
	raw := []byte("ab🚀cd🚀")
	for i := 0; i < len(raw); i += 3 {
		end := i + 3
		if end > len(raw) {
			end = len(raw)
		}
		piece := d.Decode(raw[i:end])
		if !utf8.ValidString(piece) {
			t.Fatalf("piece %q is not valid UTF-8", piece)
		}
		if strings.ContainsRune(piece, utf8.RuneError) {
			t.Fatalf("piece %q contains a replacement character", piece)
		}
	}
}

func TestDecoder_InvalidBytesBecomeReplacement(t *testing.T) {
	got := decodeAll([][]byte{[]byte("ok"), {0xff}, []byte("fine")})
	want := "ok�fine"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecoder_TruncatedSequenceAtEOF(t *testing.T) {
	raw := []byte("end世")
	got := decodeAll([][]byte{raw[:len(raw)-1]})
	want := "end�"
	if !strings.HasPrefix(got, "end") || !strings.ContainsRune(got, utf8.RuneError) {
		t.Errorf("got %q, want text ending in a replacement character like %q", got, want)
	}
}

func TestDecoder_StripsLeadingBOM(t *testing.T) {
	got := decodeAll([][]byte{{0xEF, 0xBB}, {0xBF}, []byte("code")})
	if got != "code" {
		t.Errorf("got %q, want %q", got, "code")
	}
}

func TestDecoder_Reset(t *testing.T) {
	d := NewDecoder()
	d.Decode([]byte("abc"))
	d.Decode([]byte{0xe4, 0xb8})
	d.Reset()
	if d.Pending() != 0 {
		t.Errorf("pending after reset = %d, want 0", d.Pending())
	}
}

func TestDecoder_ShortFirstChunkIsNotHeld(t *testing.T) {
	for _, first := range []string{"H", "Hi"} {
		d := NewDecoder()
		if got := d.Decode([]byte(first)); got != first {
			t.Errorf("Decode(%q) = %q, want it emitted immediately", first, got)
		}
		if d.Pending() != 0 {
			t.Errorf("Decode(%q): pending = %d, want 0", first, d.Pending())
		}
		if got := d.Flush(); got != "" {
			t.Errorf("Flush after %q = %q, want empty", first, got)
		}
	}
}

func TestDecoder_HoldsOnlyMarkPrefix(t *testing.T) {
	d := NewDecoder()
	if got := d.Decode([]byte{0xEF}); got != "" {
		t.Errorf("first byte of a mark emitted %q", got)
	}
	if d.Pending() != 1 {
		t.Errorf("pending = %d, want 1", d.Pending())
	}

	// EF BB 80 is U+FEC0, not a mark.
	if got := d.Decode([]byte{0xBB, 0x80, 'x'}); got != "\uFEC0x" {
		t.Errorf("got %q, want %q", got, "\uFEC0x")
	}
}

func TestDecoder_MarkOnlyStrippedAtStart(t *testing.T) {
	got := decodeAll([][]byte{[]byte("a"), {0xEF, 0xBB, 0xBF}, []byte("b")})
	if got != "a\uFEFFb" {
		t.Errorf("got %q, want %q", got, "a\uFEFFb")
	}
}
