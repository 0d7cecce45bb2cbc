// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// lineSpinner is ASCII-only so it renders in every terminal.
var lineSpinner = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// Spinner shows activity and elapsed time while a translation streams.
type Spinner struct {
	spinner   spinner.Model
	active    bool
	startTime time.Time
	now       func() time.Time
}

// NewSpinner creates an inactive spinner.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = lineSpinner
	return Spinner{spinner: s, now: time.Now}
}

// Start activates the spinner and returns the first tick.
func (s *Spinner) Start() tea.Cmd {
	s.active = true
	s.startTime = s.now()
	return s.spinner.Tick
}

// Stop deactivates the spinner. Stale ticks are ignored afterwards.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s Spinner) Active() bool {
	return s.active
}

// Elapsed returns the time since Start.
func (s Spinner) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return s.now().Sub(s.startTime)
}

// Update advances the animation while active.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// Frame returns the current frame, or "" when stopped.
func (s Spinner) Frame() string {
	if !s.active {
		return ""
	}
	return s.spinner.View()
}

// FormatElapsed renders a duration as "4.2s" or "1m05s".
func FormatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%02ds", m, sec)
}
