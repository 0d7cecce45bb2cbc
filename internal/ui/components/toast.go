// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/coderhelper/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind selects the color and marker of a toast.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

const (
	// DefaultToastDuration applies to info and success toasts.
	DefaultToastDuration = 4 * time.Second

	// WarningToastDuration applies to warnings.
	WarningToastDuration = 6 * time.Second

	// ErrorToastDuration applies to errors, which take longer to read.
	ErrorToastDuration = 8 * time.Second

	// maxToasts is the number of toasts kept at once; older ones drop off.
	maxToasts = 3
)

// Toast is a non-blocking notification that dismisses itself.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast should be gone at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

func durationFor(kind ToastKind) time.Duration {
	switch kind {
	case ToastError:
		return ErrorToastDuration
	case ToastWarning:
		return WarningToastDuration
	default:
		return DefaultToastDuration
	}
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// Toasts keeps the visible toasts, newest first.
type Toasts struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
	now    func() time.Time
}

// NewToasts creates an empty toast list.
func NewToasts() *Toasts {
	return &Toasts{nextID: 1, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (m *Toasts) WithClock(now func() time.Time) *Toasts {
	m.now = now
	return m
}

// Add shows a toast and returns its id.
func (m *Toasts) Add(kind ToastKind, message string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: m.now(),
		Duration:  durationFor(kind),
	}
	m.nextID++

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return t.ID
}

// Info shows an informational toast.
func (m *Toasts) Info(message string) int { return m.Add(ToastInfo, message) }

// Success shows a success toast.
func (m *Toasts) Success(message string) int { return m.Add(ToastSuccess, message) }

// Warning shows a warning toast.
func (m *Toasts) Warning(message string) int { return m.Add(ToastWarning, message) }

// Error shows an error toast.
func (m *Toasts) Error(message string) int { return m.Add(ToastError, message) }

// Dismiss removes the newest toast.
func (m *Toasts) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// Tick drops expired toasts and reports whether any remain.
func (m *Toasts) Tick() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// List returns a copy of the visible toasts, newest first.
func (m *Toasts) List() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Latest returns the newest toast.
func (m *Toasts) Latest() (Toast, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) == 0 {
		return Toast{}, false
	}
	return m.toasts[0], true
}

// Len returns the number of visible toasts.
func (m *Toasts) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg drives expiry while toasts are visible.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd ticks toasts every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders one toast no wider than width.
func RenderToast(theme *styles.Theme, t Toast, width int) string {
	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 24 {
		maxWidth = 24
	}

	var color lipgloss.AdaptiveColor
	var marker string
	switch t.Kind {
	case ToastError:
		color, marker = styles.Rose, styles.StatusIndicators.Error
	case ToastWarning:
		color, marker = styles.Amber, styles.StatusIndicators.Warning
	case ToastSuccess:
		color, marker = styles.Emerald, styles.StatusIndicators.Success
	default:
		color, marker = styles.Cyan, styles.StatusIndicators.Info
	}

	// Border and padding take six columns.
	text := wordwrap.String(marker+" "+t.Message, maxWidth-6)
	lines := strings.Split(text, "\n")
	lines[0] = lipgloss.NewStyle().Foreground(color).Bold(true).Render(marker) +
		strings.TrimPrefix(lines[0], marker)

	return theme.Toast.
		BorderForeground(color).
		MaxWidth(maxWidth).
		Render(strings.Join(lines, "\n"))
}

// RenderToastStack renders toasts stacked and right-aligned.
func RenderToastStack(theme *styles.Theme, toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for i := len(toasts) - 1; i >= 0; i-- {
		rendered = append(rendered, RenderToast(theme, toasts[i], width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width <= 0 {
		return stack
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}
