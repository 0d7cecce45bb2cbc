// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/coderhelper/internal/session"
	"github.com/jeranaias/coderhelper/internal/translate"
	"github.com/jeranaias/coderhelper/internal/ui/components"
	"github.com/jeranaias/coderhelper/internal/ui/styles"
)

const (
	// Border and horizontal padding of a panel.
	panelFrameWidth  = 4
	panelFrameHeight = 2
	// Panel title line.
	panelTitleHeight = 1
	minPanelHeight   = 3
	minPanelWidth    = 10
)

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes every widget for the current window and refreshes the
// status bar.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.status.SetWidth(m.width)
	m.status.SetPhase(m.sess.Phase(), m.spinner.Frame(), m.sess.Elapsed())
	m.status.SetCharCount(translate.InputLength(m.input.Value()), m.settings.MaxInputLength)
	if m.sess.InFlight() {
		m.status.SetShortcuts(shortcuts(m.keys.StreamingHelp()))
	} else {
		m.status.SetShortcuts(shortcuts(m.keys.ShortHelp()))
	}

	if !m.ready {
		return
	}

	// Header, options row and status bar take one line each.
	chrome := 3 + lipgloss.Height(m.toastView())
	if m.toasts.Len() == 0 {
		chrome--
	}
	available := m.height - chrome
	panelWidth, panelHeight := m.width, available
	if m.theme.GetLayoutMode() == styles.LayoutWide {
		panelWidth = m.width / 2
	} else {
		panelHeight = available / 2
	}

	innerWidth := max(panelWidth-panelFrameWidth, minPanelWidth)
	innerHeight := max(panelHeight-panelFrameHeight-panelTitleHeight, minPanelHeight)

	m.input.SetWidth(innerWidth)
	m.input.SetHeight(innerHeight)

	resized := m.output.Width != innerWidth || m.output.Height != innerHeight
	m.output.Width = innerWidth
	m.output.Height = innerHeight
	m.markdown.SetWidth(innerWidth)
	if resized {
		m.refreshOutput()
	}
}

// invalidateRender drops the cached final rendering.
func (m *Model) invalidateRender() {
	m.rendered = ""
	m.renderedWidth = 0
}

// refreshOutput loads the current output into the viewport.
func (m *Model) refreshOutput() {
	m.output.SetContent(m.outputContent())
	if m.sess.InFlight() {
		m.output.GotoBottom()
	}
}

// outputContent renders the output for the viewport. Streaming text is
// wrapped as-is; finished text is highlighted once and cached.
func (m *Model) outputContent() string {
	text := m.sess.Output()
	width := max(m.output.Width, minPanelWidth)

	if text == "" {
		return m.theme.Placeholder.Render(m.placeholder())
	}
	if m.sess.Phase() != session.Done {
		return wordwrap.String(text, width)
	}

	if m.rendered != "" && m.renderedWidth == width {
		return m.rendered
	}
	if m.request.ProducesCode() {
		m.rendered = components.NewCodeBlock(m.request.TargetLanguage(), text).
			WithStyle(m.theme.ChromaStyle()).
			WithMaxWidth(width).
			Render(m.theme)
	} else {
		m.rendered = m.markdown.Render(text)
	}
	m.renderedWidth = width
	return m.rendered
}

func (m *Model) placeholder() string {
	switch m.sess.Phase() {
	case session.InFlight:
		return "Waiting for the first response..."
	case session.Failed:
		return "No output."
	case session.Canceled:
		return "Canceled before any output arrived."
	default:
		return "Output will appear here."
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	panels := m.panelsView()
	sections := []string{m.headerView(), m.optionsView(), panels}
	if toasts := m.toastView(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, m.status.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	title := m.theme.HeaderTitle.Render(Title)
	if m.width >= 40 {
		title += "  " + m.theme.HeaderSubtitle.Render(Subtitle)
	}
	return m.theme.Header.Width(m.width).Render(title)
}

func (m Model) optionsView() string {
	field := func(label string, f focusArea, view string) string {
		style := m.theme.PickerLabel
		if m.focus == f {
			style = m.theme.PickerActive
		}
		return style.Render(label+":") + " " + view
	}

	parts := []string{
		field("From", focusSource, m.source.View()),
		field("To", focusTarget, m.target.View()),
		m.natural.View(m.theme, m.focus == focusNatural),
		m.mode.View(m.theme, m.focus == focusMode),
	}
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		// Only the fields that fit; the mode picker is always reachable by tab.
		return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "  "))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "   "))
}

func (m Model) panelsView() string {
	inputTitle := "Input"
	inputStyle := m.theme.Panel
	titleStyle := m.theme.PanelTitle
	switch {
	case m.sess.InFlight():
		inputTitle = "Input (read-only)"
		inputStyle = m.theme.PanelReadOnly
	case m.focus == focusInput:
		inputStyle = m.theme.PanelFocused
		titleStyle = m.theme.PanelTitleFocused
	}
	input := inputStyle.Render(titleStyle.Render(inputTitle) + "\n" + m.input.View())

	outputTitle := "Output"
	if m.request.ProducesCode() && m.request.TargetLanguage() != "" {
		outputTitle += " (" + m.request.TargetLanguage() + ")"
	}
	outputStyle, outputTitleStyle := m.theme.Panel, m.theme.PanelTitle
	if m.focus == focusOutput {
		outputStyle, outputTitleStyle = m.theme.PanelFocused, m.theme.PanelTitleFocused
	}
	output := outputStyle.Render(outputTitleStyle.Render(outputTitle) + "\n" + m.output.View())

	if m.theme.GetLayoutMode() == styles.LayoutWide {
		return lipgloss.JoinHorizontal(lipgloss.Top, input, output)
	}
	return lipgloss.JoinVertical(lipgloss.Left, input, output)
}

func (m Model) toastView() string {
	return components.RenderToastStack(m.theme, m.toasts.List(), m.width)
}
