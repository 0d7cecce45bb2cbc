// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders natural-language output with glamour. The renderer is
// rebuilt only when the wrap width changes.
type Markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a renderer for a glamour standard style ("dark",
// "light", "notty") wrapping at width columns.
func NewMarkdown(style string, width int) *Markdown {
	return &Markdown{style: style, width: width}
}

// SetWidth changes the wrap width.
func (m *Markdown) SetWidth(width int) {
	if width != m.width {
		m.width = width
		m.renderer = nil
	}
}

// Width returns the wrap width.
func (m *Markdown) Width() int {
	return m.width
}

// Render renders md. Rendering errors return the input unchanged.
func (m *Markdown) Render(md string) string {
	if m.renderer == nil {
		width := m.width
		if width < 20 {
			width = 20
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		m.renderer = r
	}

	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
