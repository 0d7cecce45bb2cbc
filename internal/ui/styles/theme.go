// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds the styles of the workspace.
type Theme struct {
	// Terminal capabilities
	Name         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// PANELS
	// ==========================================================================

	Panel             lipgloss.Style
	PanelFocused      lipgloss.Style
	PanelReadOnly     lipgloss.Style
	PanelTitle        lipgloss.Style
	PanelTitleFocused lipgloss.Style

	// ==========================================================================
	// PICKERS
	// ==========================================================================

	PickerLabel  lipgloss.Style
	PickerValue  lipgloss.Style
	PickerActive lipgloss.Style

	// ==========================================================================
	// INPUT COUNTER
	// ==========================================================================

	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style
	CharCountDanger  lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar     lipgloss.Style
	PhaseIdle     lipgloss.Style
	PhaseInFlight lipgloss.Style
	PhaseDone     lipgloss.Style
	PhaseFailed   lipgloss.Style
	PhaseCanceled lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style
	Spinner       lipgloss.Style

	// ==========================================================================
	// OUTPUT
	// ==========================================================================

	CodeLangBadge lipgloss.Style
	CodeLineNum   lipgloss.Style
	Placeholder   lipgloss.Style

	// ==========================================================================
	// TOASTS
	// ==========================================================================

	Toast lipgloss.Style
	Hint  lipgloss.Style
}

// NewTheme creates a theme. name is "dark", "light" or "auto"; anything
// else is treated as "auto" and asks the terminal.
func NewTheme(name string) *Theme {
	name = strings.ToLower(strings.TrimSpace(name))

	var isDark bool
	switch name {
	case ThemeDark:
		isDark = true
	case ThemeLight:
		isDark = false
	default:
		name = ThemeAuto
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Name:         name,
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Panels share the border shape; only the color tells focus apart.
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelFocused = t.Panel.
		BorderForeground(Purple)

	t.PanelReadOnly = t.Panel.
		BorderForeground(Amber)

	t.PanelTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.PanelTitleFocused = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.PickerLabel = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.PickerValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.PickerActive = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		Underline(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Amber)

	t.CharCountDanger = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.PhaseIdle = lipgloss.NewStyle().Foreground(TextMuted)
	t.PhaseInFlight = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.PhaseDone = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.PhaseFailed = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.PhaseCanceled = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(OverlayDim).
		Padding(0, 1).
		Bold(true)

	t.CodeLineNum = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Toast = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 2)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, panels stacked
	LayoutMedium                   // 60-100 columns, panels stacked
	LayoutWide                     // > 100 columns, input and output side by side
)

// GlamourStyle names the glamour standard style matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// ChromaStyle names the chroma style matching the theme.
func (t *Theme) ChromaStyle() string {
	if t.IsDark {
		return "monokai"
	}
	return "github"
}
