// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"errors"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coderhelper/internal/cloud"
	"github.com/jeranaias/coderhelper/internal/session"
	"github.com/jeranaias/coderhelper/internal/stream"
	"github.com/jeranaias/coderhelper/internal/translate"
	"github.com/jeranaias/coderhelper/internal/ui/components"
)

// Notification texts that are not validation or transport messages.
const (
	msgGenericFailure  = "Something went wrong."
	msgCopied          = "Copied to clipboard."
	msgCopyFailed      = "Translation finished, but the clipboard is unavailable."
	msgCanceled        = "Translation canceled."
	msgNoOutput        = "The translation came back empty."
	msgNothingToCopy   = "Nothing to copy yet."
	msgBusy            = "A translation is already running."
	msgStreamInterrupt = "The response was interrupted."
)

// eventBuffer is the number of stream messages that may queue up before
// the reader waits for the Update loop.
const eventBuffer = 64

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		cmd, handled := m.handleKey(msg)
		if handled {
			m.layout()
			return m, cmd
		}
		cmds = append(cmds, cmd, m.updateFocused(msg))

	case chunkMsg:
		if m.sess.Append(msg.id, msg.text) {
			m.refreshOutput()
		}
		// Keep draining so the reader never blocks, even for stale ids.
		return m, waitForEvent(msg.next)

	case doneMsg:
		cmds = append(cmds, m.finish(msg))

	case failMsg:
		cmds = append(cmds, m.fail(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			cmds = append(cmds, components.ToastTickCmd())
		}

	default:
		cmds = append(cmds, m.updateFocused(msg))
	}

	m.layout()
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey processes workspace-level keys. It reports false for keys the
// focused widget should receive.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancels.cancel()
		m.quitting = true
		return tea.Quit, true

	case key.Matches(msg, m.keys.Cancel):
		if m.sess.InFlight() {
			m.cancels.cancel()
			return nil, true
		}
		if m.toasts.Len() > 0 {
			m.toasts.Dismiss()
		}
		return nil, true

	case key.Matches(msg, m.keys.Translate):
		return m.submit(), true

	case key.Matches(msg, m.keys.NextFocus):
		m.setFocus((m.focus + 1) % focusCount)
		return nil, true

	case key.Matches(msg, m.keys.PrevFocus):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return nil, true

	case key.Matches(msg, m.keys.Clear):
		return m.clear(), true

	case key.Matches(msg, m.keys.Copy):
		return m.copyOutput(), true
	}

	if m.focus == focusNatural || m.focus == focusMode {
		picker := m.natural
		if m.focus == focusMode {
			picker = m.mode
		}
		switch {
		case m.sess.InFlight():
			return nil, true
		case key.Matches(msg, m.keys.PickNext):
			picker.Next()
		case key.Matches(msg, m.keys.PickPrev):
			picker.Prev()
		default:
			return nil, true
		}
		m.syncOptions()
		m.invalidateRender()
		return nil, true
	}

	return nil, false
}

// updateFocused forwards msg to the focused widget. Text widgets are
// read-only while a request is in flight.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	_, isKey := msg.(tea.KeyMsg)
	if isKey && m.sess.InFlight() && m.focus != focusOutput {
		return nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)
		m.syncInput()
	case focusSource:
		m.source, cmd = m.source.Update(msg)
		m.syncOptions()
	case focusTarget:
		m.target, cmd = m.target.Update(msg)
		m.syncOptions()
	case focusOutput:
		m.output, cmd = m.output.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.input.Blur()
	m.source.Blur()
	m.target.Blur()
	switch f {
	case focusInput:
		m.input.Focus()
	case focusSource:
		m.source.Focus()
	case focusTarget:
		m.target.Focus()
	}
}

// =============================================================================
// REQUEST LIFECYCLE
// =============================================================================

// submit validates the input and starts a request. Validation failures
// only raise a toast.
func (m *Model) submit() tea.Cmd {
	if m.sess.InFlight() {
		m.toasts.Info(msgBusy)
		return components.ToastTickCmd()
	}

	m.syncInput()
	m.syncOptions()

	req, err := m.sess.Compose(m.settings.MaxInputLength)
	if err != nil {
		var ve *translate.ValidationError
		if errors.As(err, &ve) {
			m.toasts.Warning(ve.UserMessage())
		} else {
			m.toasts.Error(err.Error())
		}
		return components.ToastTickCmd()
	}

	id, err := m.sess.Begin()
	if err != nil {
		m.toasts.Info(msgBusy)
		return components.ToastTickCmd()
	}
	m.request = req
	m.invalidateRender()
	m.refreshOutput()

	m.logger.WithFields(log.Fields{
		"request_id": id,
		"option":     req.Option,
		"from":       req.InputLanguage,
		"to":         req.OutputLanguage,
		"chars":      translate.InputLength(req.InputCode),
	}).Info("translation started")

	return tea.Batch(m.spinner.Start(), m.startStream(id, req))
}

// startStream runs the translation in its own goroutine and returns a
// command yielding its first message. Chunks are handed to the Update
// loop over a channel, which keeps the session single-writer.
func (m *Model) startStream(id string, req translate.Request) tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancels.set(cancel)
	translator := m.translator

	return func() tea.Msg {
		events := make(chan tea.Msg, eventBuffer)
		go func() {
			defer close(events)
			defer cancel()
			text, err := translator.Translate(ctx, req, func(piece string) {
				select {
				case events <- chunkMsg{id: id, text: piece, next: events}:
				case <-ctx.Done():
				}
			})
			if err != nil {
				events <- failMsg{id: id, err: err}
				return
			}
			events <- doneMsg{id: id, text: text}
		}()
		return <-events
	}
}

// finish completes the request and copies the output.
func (m *Model) finish(msg doneMsg) tea.Cmd {
	text, ok := m.sess.Complete(msg.id)
	if !ok {
		return nil
	}
	m.cancels.cancel()
	m.spinner.Stop()
	m.invalidateRender()
	m.refreshOutput()

	m.logger.WithFields(log.Fields{
		"request_id": msg.id,
		"chars":      translate.InputLength(text),
		"elapsed":    m.sess.Elapsed().String(),
	}).Info("translation finished")

	switch {
	case text == "":
		m.toasts.Warning(msgNoOutput)
	case m.settings.CopyOnComplete:
		m.copy(text)
	default:
		m.toasts.Success("Done.")
	}
	return components.ToastTickCmd()
}

// fail ends the request. Transport and empty-response errors leave the
// output empty; a stream that breaks midway keeps what arrived but is not
// copied.
func (m *Model) fail(msg failMsg) tea.Cmd {
	canceled := errors.Is(msg.err, context.Canceled)

	var ok bool
	if canceled {
		ok = m.sess.Cancel(msg.id)
	} else {
		ok = m.sess.Fail(msg.id, msg.err)
	}
	if !ok {
		return nil
	}
	m.cancels.cancel()
	m.spinner.Stop()
	m.invalidateRender()
	m.refreshOutput()

	entry := m.logger.WithField("request_id", msg.id)
	if canceled {
		entry.Info("translation canceled")
		m.toasts.Warning(msgCanceled)
		return components.ToastTickCmd()
	}
	entry.WithError(msg.err).Warn("translation failed")
	m.toasts.Error(failureMessage(msg.err))
	return components.ToastTickCmd()
}

// failureMessage maps an error to the notification text.
func failureMessage(err error) string {
	if text := cloud.UserMessage(err); text != "" {
		return text
	}
	var se *stream.StreamError
	if errors.As(err, &se) {
		return msgStreamInterrupt
	}
	return msgGenericFailure
}

func (m *Model) copy(text string) {
	if err := m.clip.WriteAll(text); err != nil {
		m.logger.WithError(err).Warn("clipboard write failed")
		m.toasts.Warning(msgCopyFailed)
		return
	}
	m.toasts.Success(msgCopied)
}

// copyOutput copies a finished translation again.
func (m *Model) copyOutput() tea.Cmd {
	if m.sess.Phase() != session.Done || m.sess.Output() == "" {
		m.toasts.Info(msgNothingToCopy)
		return components.ToastTickCmd()
	}
	m.copy(m.sess.Output())
	return components.ToastTickCmd()
}

// clear empties input and output. Ignored while in flight.
func (m *Model) clear() tea.Cmd {
	if err := m.sess.Clear(); err != nil {
		return nil
	}
	m.input.Reset()
	m.request = translate.Request{}
	m.invalidateRender()
	m.refreshOutput()
	return nil
}
