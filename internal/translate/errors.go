// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package translate

import (
	"errors"
	"fmt"
)

// ErrValidation matches every ValidationError via errors.Is.
var ErrValidation = errors.New("validation error")

// Reason identifies which validation rule failed.
type Reason int

const (
	// ReasonEmpty means the input text was empty.
	ReasonEmpty Reason = iota
	// ReasonTooLong means the input text exceeded the maximum length.
	ReasonTooLong
)

// String returns a short machine-readable name.
func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty"
	case ReasonTooLong:
		return "too_long"
	default:
		return "unknown"
	}
}

// ValidationError is returned by Compose when the input cannot be sent.
type ValidationError struct {
	Reason Reason
	Length int // Current input length in characters
	Max    int // Maximum allowed length in characters
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "empty input"
	case ReasonTooLong:
		return fmt.Sprintf("too long: input is %d characters, maximum is %d", e.Length, e.Max)
	default:
		return "invalid input"
	}
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UserMessage returns the notification text shown to the user.
func (e *ValidationError) UserMessage() string {
	switch e.Reason {
	case ReasonEmpty:
		return "Please enter some text."
	case ReasonTooLong:
		return fmt.Sprintf("Please enter code less than %d characters. You are currently at %d characters.", e.Max, e.Length)
	default:
		return e.Error()
	}
}
