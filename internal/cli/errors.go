// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error handling and exit codes for coderhelper commands.
//
// Commands always return errors; Execute prints them once and maps them
// to an exit code.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/coderhelper/internal/cloud"
	"github.com/jeranaias/coderhelper/internal/translate"
	"github.com/jeranaias/coderhelper/internal/upstream"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	// ExitUsageError indicates invalid arguments or input
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the endpoint could not be reached or failed
	ExitNetworkError = 5
	// ExitInterrupted indicates the command was canceled
	ExitInterrupted = 130
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ExitError carries the exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// withCode wraps err with an exit code. A nil err stays nil.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// configError wraps a configuration failure.
func configError(err error) error {
	return withCode(ExitConfigError, fmt.Errorf("configuration error: %w", err))
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var ve *translate.ValidationError
	switch {
	case errors.As(err, &ve):
		return ExitUsageError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, cloud.ErrTransport), errors.Is(err, cloud.ErrEmptyResponse):
		return ExitNetworkError
	case errors.Is(err, upstream.ErrNoAPIKey), errors.Is(err, upstream.ErrUnknownProvider):
		return ExitConfigError
	default:
		return ExitGeneralError
	}
}

// printError writes err to w in the shared error style.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+err.Error())
}
