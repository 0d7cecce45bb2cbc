// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAM MESSAGES
// =============================================================================

// Stream messages carry the request id so that anything arriving for an
// older request is dropped by the session. next is the channel the
// following message will arrive on; it is nil once the stream has ended.

// chunkMsg is one decoded piece of the response.
type chunkMsg struct {
	id   string
	text string
	next <-chan tea.Msg
}

// doneMsg reports that the body was read to the end.
type doneMsg struct {
	id   string
	text string
}

// failMsg reports a transport, empty response, stream or cancellation error.
type failMsg struct {
	id  string
	err error
}

// waitForEvent returns the next message from a running stream.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
