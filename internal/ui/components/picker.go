// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/coderhelper/internal/ui/styles"
)

// PickerOption is one entry of a Picker.
type PickerOption struct {
	Value string
	Label string
}

// Picker cycles through a fixed list of options.
type Picker struct {
	Title   string
	options []PickerOption
	index   int
}

// NewPicker creates a picker. Labels default to values.
func NewPicker(title string, options ...PickerOption) *Picker {
	for i := range options {
		if options[i].Label == "" {
			options[i].Label = options[i].Value
		}
	}
	return &Picker{Title: title, options: options}
}

// NewStringPicker creates a picker whose labels equal its values.
func NewStringPicker(title string, values []string) *Picker {
	opts := make([]PickerOption, len(values))
	for i, v := range values {
		opts[i] = PickerOption{Value: v, Label: v}
	}
	return NewPicker(title, opts...)
}

// Value returns the selected value, or "" for an empty picker.
func (p *Picker) Value() string {
	if len(p.options) == 0 {
		return ""
	}
	return p.options[p.index].Value
}

// Label returns the selected label.
func (p *Picker) Label() string {
	if len(p.options) == 0 {
		return ""
	}
	return p.options[p.index].Label
}

// Next selects the following option, wrapping at the end.
func (p *Picker) Next() {
	if len(p.options) > 0 {
		p.index = (p.index + 1) % len(p.options)
	}
}

// Prev selects the preceding option, wrapping at the start.
func (p *Picker) Prev() {
	if len(p.options) > 0 {
		p.index = (p.index - 1 + len(p.options)) % len(p.options)
	}
}

// Select picks the option whose value matches, case-insensitively.
// It reports false and leaves the selection alone when none matches.
func (p *Picker) Select(value string) bool {
	for i, o := range p.options {
		if strings.EqualFold(o.Value, value) {
			p.index = i
			return true
		}
	}
	return false
}

// View renders "Title: < Label >"; the arrows only show when focused.
func (p *Picker) View(theme *styles.Theme, focused bool) string {
	title := theme.PickerLabel.Render(p.Title + ":")
	if focused {
		return title + " " + theme.PickerActive.Render("< "+p.Label()+" >")
	}
	return title + " " + theme.PickerValue.Render(p.Label())
}
