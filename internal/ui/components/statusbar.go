// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coderhelper/internal/session"
	"github.com/jeranaias/coderhelper/internal/ui/styles"
	"github.com/jeranaias/coderhelper/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is a key hint shown on the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar shows the request phase, input size and key hints on one line.
type StatusBar struct {
	theme     *styles.Theme
	width     int
	phase     session.Phase
	frame     string
	elapsed   time.Duration
	chars     int
	maxChars  int
	endpoint  string
	shortcuts []Shortcut
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetWidth sets the bar width in columns.
func (s *StatusBar) SetWidth(width int) { s.width = width }

// SetPhase sets the phase and the spinner frame shown next to it.
func (s *StatusBar) SetPhase(phase session.Phase, frame string, elapsed time.Duration) {
	s.phase = phase
	s.frame = frame
	s.elapsed = elapsed
}

// SetCharCount sets the input counter.
func (s *StatusBar) SetCharCount(chars, max int) {
	s.chars = chars
	s.maxChars = max
}

// SetEndpoint sets the endpoint shown in wide layouts.
func (s *StatusBar) SetEndpoint(endpoint string) { s.endpoint = endpoint }

// SetShortcuts replaces the key hints.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) { s.shortcuts = shortcuts }

// View renders the bar at exactly the configured width.
func (s *StatusBar) View() string {
	left := s.renderPhase()
	counter := CharCounter(s.theme, s.chars, s.maxChars)

	parts := []string{left, counter}
	layout := styles.LayoutNarrow
	if s.width >= 100 {
		layout = styles.LayoutWide
	} else if s.width >= 60 {
		layout = styles.LayoutMedium
	}
	if layout == styles.LayoutWide && s.endpoint != "" {
		parts = append(parts, s.theme.ShortcutDesc.Render(s.endpoint))
	}
	leftSide := strings.Join(parts, "  ")

	var right string
	if layout != styles.LayoutNarrow {
		right = s.renderShortcuts()
	}

	// Padding takes two columns.
	inner := s.width - 2
	if inner <= 0 {
		return s.theme.StatusBar.Render(leftSide)
	}
	gap := inner - lipgloss.Width(leftSide) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = inner - lipgloss.Width(leftSide)
	}
	if gap < 0 {
		// Styled text cannot be cut safely; fall back to the plain phase.
		plain := util.FitWidth(s.plainPhase(), inner)
		return s.theme.StatusBar.Width(s.width).Render(plain)
	}
	return s.theme.StatusBar.Width(s.width).Render(leftSide + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) plainPhase() string {
	label := phaseLabel(s.phase)
	if s.phase == session.InFlight {
		return fmt.Sprintf("%s %s %s", s.frame, label, FormatElapsed(s.elapsed))
	}
	return label
}

func (s *StatusBar) renderPhase() string {
	label := phaseLabel(s.phase)
	switch s.phase {
	case session.InFlight:
		text := s.theme.Spinner.Render(s.frame) + " " + s.theme.PhaseInFlight.Render(label)
		return text + " " + s.theme.ShortcutDesc.Render(FormatElapsed(s.elapsed))
	case session.Done:
		return s.theme.PhaseDone.Render(styles.StatusIndicators.Success + " " + label)
	case session.Failed:
		return s.theme.PhaseFailed.Render(styles.StatusIndicators.Error + " " + label)
	case session.Canceled:
		return s.theme.PhaseCanceled.Render(styles.StatusIndicators.Warning + " " + label)
	default:
		return s.theme.PhaseIdle.Render(label)
	}
}

func (s *StatusBar) renderShortcuts() string {
	hints := make([]string, 0, len(s.shortcuts))
	for _, sc := range s.shortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(hints, "  ")
}

func phaseLabel(p session.Phase) string {
	switch p {
	case session.InFlight:
		return "Translating"
	case session.Done:
		return "Done"
	case session.Failed:
		return "Failed"
	case session.Canceled:
		return "Canceled"
	default:
		return "Ready"
	}
}

// =============================================================================
// CHARACTER COUNTER
// =============================================================================

// CharCounter renders "n/max", amber above 90% and red over the limit.
func CharCounter(theme *styles.Theme, n, max int) string {
	if max <= 0 {
		return theme.CharCount.Render(fmt.Sprintf("%d chars", n))
	}
	text := fmt.Sprintf("%d/%d", n, max)
	switch {
	case n > max:
		return theme.CharCountDanger.Render(text)
	case n*10 > max*9:
		return theme.CharCountWarning.Render(text)
	default:
		return theme.CharCount.Render(text)
	}
}
