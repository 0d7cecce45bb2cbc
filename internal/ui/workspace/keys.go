// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/coderhelper/internal/ui/components"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the workspace key bindings.
type KeyMap struct {
	Translate key.Binding
	Cancel    key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	PickNext  key.Binding
	PickPrev  key.Binding
	Clear     key.Binding
	Copy      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Translate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "generate"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev field"),
		),
		PickNext: key.NewBinding(
			key.WithKeys("right", "l", " "),
			key.WithHelp("right", "next option"),
		),
		PickPrev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left", "prev option"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy output"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar while idle.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Translate, k.NextFocus, k.Clear, k.Quit}
}

// StreamingHelp returns the bindings shown while a request is in flight.
func (k KeyMap) StreamingHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Quit}
}

// FullHelp groups every binding.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Translate, k.Cancel, k.Copy, k.Clear},
		{k.NextFocus, k.PrevFocus, k.PickNext, k.PickPrev},
		{k.Quit},
	}
}

// shortcuts converts bindings to status bar hints.
func shortcuts(bindings []key.Binding) []components.Shortcut {
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}
