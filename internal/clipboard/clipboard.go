// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

// ErrUnavailable is returned when no clipboard mechanism could be used.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer receives the complete text of a finished translation.
type Writer interface {
	WriteAll(text string) error
}

// Method records how the last write reached the clipboard.
type Method int

const (
	MethodNone Method = iota
	MethodNative
	MethodOSC52
	MethodMemory
)

// String returns a short label for status messages.
func (m Method) String() string {
	switch m {
	case MethodNative:
		return "system clipboard"
	case MethodOSC52:
		return "terminal clipboard (OSC 52)"
	case MethodMemory:
		return "memory"
	default:
		return "none"
	}
}

// =============================================================================
// SYSTEM CLIPBOARD
// =============================================================================

// System writes to the native clipboard and falls back to OSC 52.
type System struct {
	mu       sync.Mutex
	out      io.Writer
	native   func(string) error
	fallback bool
	last     Method
}

// NewSystem creates a system clipboard. OSC 52 sequences go to out; a nil
// out disables the fallback.
func NewSystem(out io.Writer) *System {
	native := clipboard.WriteAll
	if clipboard.Unsupported {
		native = nil
	}
	return &System{
		out:      out,
		native:   native,
		fallback: out != nil,
	}
}

// WithFallback enables or disables the OSC 52 fallback.
func (s *System) WithFallback(enabled bool) *System {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = enabled && s.out != nil
	return s
}

// WithNative replaces the native clipboard function (used by tests).
// A nil fn behaves like a platform without clipboard support.
func (s *System) WithNative(fn func(string) error) *System {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.native = fn
	return s
}

// WriteAll copies text to the clipboard.
func (s *System) WriteAll(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var nativeErr error
	if s.native != nil {
		if nativeErr = s.native(text); nativeErr == nil {
			s.last = MethodNative
			return nil
		}
	}

	if s.fallback {
		termenv.NewOutput(s.out).Copy(text)
		s.last = MethodOSC52
		return nil
	}

	s.last = MethodNone
	if nativeErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, nativeErr)
	}
	return ErrUnavailable
}

// LastMethod reports how the most recent successful write was delivered.
func (s *System) LastMethod() Method {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// =============================================================================
// MEMORY CLIPBOARD
// =============================================================================

// Memory keeps the last written text in memory.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
	err    error
}

// NewMemory creates an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// FailWith makes subsequent writes return err.
func (m *Memory) FailWith(err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WriteAll stores text.
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.text = text
	m.writes++
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many successful writes happened.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// LastMethod always reports MethodMemory once something was written.
func (m *Memory) LastMethod() Method {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writes == 0 {
		return MethodNone
	}
	return MethodMemory
}

// Describe returns how text was delivered by w, when w tracks it.
func Describe(w Writer) Method {
	if t, ok := w.(interface{ LastMethod() Method }); ok {
		return t.LastMethod()
	}
	return MethodNone
}
