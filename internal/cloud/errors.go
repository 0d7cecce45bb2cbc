// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jeranaias/coderhelper/internal/util"
)

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 512

var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport error")

	// ErrEmptyResponse indicates a successful status with no response body.
	ErrEmptyResponse = errors.New("empty response: the server returned no body")
)

// TransportError is returned when the endpoint answers with a non-2xx status.
type TransportError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	text := http.StatusText(e.Status)
	if text == "" {
		text = "unknown status"
	}
	if e.Body != "" {
		return fmt.Sprintf("transport error (HTTP %d %s): %s", e.Status, text, e.Body)
	}
	return fmt.Sprintf("transport error (HTTP %d %s)", e.Status, text)
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Temporary reports whether the status suggests trying again later.
// The client never retries on its own; this only shapes the user message.
func (e *TransportError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func newTransportError(status int, body []byte) *TransportError {
	snippet := strings.TrimSpace(string(body))
	return &TransportError{
		Status: status,
		Body:   util.TruncateRunes(snippet, maxErrorBody),
	}
}

// UserMessage returns the short message shown to the user for a transport
// level failure, or "" if err is not one.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return "Something went wrong."
	case errors.Is(err, ErrTransport):
		return "Please try again later."
	default:
		return ""
	}
}
