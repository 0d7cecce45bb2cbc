// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package translate

import (
	"fmt"
	"strings"
)

// Mode is the request mode tag carried in the "option" field.
type Mode string

const (
	// ModeConvert translates the input into the output language.
	ModeConvert Mode = "convert"
	// ModeExplain describes the input in the output natural language.
	ModeExplain Mode = "explain"
	// ModeOptimize rewrites the input in the output language with improvements.
	ModeOptimize Mode = "optimize"
)

// DefaultMode is used when no mode was selected.
const DefaultMode = ModeConvert

// Modes lists every valid mode in display order.
var Modes = []Mode{ModeConvert, ModeExplain, ModeOptimize}

// String returns the wire tag.
func (m Mode) String() string {
	return string(m)
}

// Label returns a human readable label for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeConvert:
		return "Generate"
	case ModeExplain:
		return "Explain"
	case ModeOptimize:
		return "Optimize"
	default:
		return string(m)
	}
}

// Valid reports whether m is one of Modes.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	for i, known := range Modes {
		if m == known {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return DefaultMode
}

// ParseMode parses a mode tag. An empty string yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultMode, nil
	}
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q (valid: convert, explain, optimize)", s)
	}
	return m, nil
}
