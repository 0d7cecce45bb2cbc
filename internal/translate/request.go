// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package translate

import (
	"strings"
	"unicode/utf8"
)

// MaxInputLength is the maximum input length in characters (code points).
const MaxInputLength = 30000

// Request is the payload sent to the translation endpoint.
// Field names on the wire are fixed by the endpoint contract.
type Request struct {
	InputLanguage         string `json:"inputLanguage"`
	OutputLanguage        string `json:"outputLanguage"`
	InputCode             string `json:"inputCode"`
	Option                Mode   `json:"option"`
	OutputNaturalLanguage string `json:"outputNaturalLanguage"`
}

// Options are the user selections that accompany the input text.
type Options struct {
	InputLanguage         string
	OutputLanguage        string
	Mode                  Mode
	OutputNaturalLanguage string
}

// DefaultOptions returns the options a fresh session starts with.
func DefaultOptions() Options {
	return Options{
		InputLanguage:         NaturalLanguageLabel,
		OutputLanguage:        "Python",
		Mode:                  DefaultMode,
		OutputNaturalLanguage: DefaultNaturalLanguage,
	}
}

// InputLength returns the length of s as counted against MaxInputLength.
func InputLength(s string) int {
	return utf8.RuneCountInString(s)
}

// Compose validates input and builds a Request using MaxInputLength.
func Compose(input string, opts Options) (Request, error) {
	return ComposeWithLimit(input, opts, MaxInputLength)
}

// ComposeWithLimit is Compose with a caller-provided maximum length.
// A non-positive max falls back to MaxInputLength.
func ComposeWithLimit(input string, opts Options, max int) (Request, error) {
	if err := ValidateInput(input, max); err != nil {
		return Request{}, err
	}

	mode := opts.Mode
	if mode == "" {
		mode = DefaultMode
	}

	return Request{
		InputLanguage:         opts.InputLanguage,
		OutputLanguage:        opts.OutputLanguage,
		InputCode:             input,
		Option:                mode,
		OutputNaturalLanguage: opts.OutputNaturalLanguage,
	}, nil
}

// ValidateInput checks input against the empty and too-long rules.
func ValidateInput(input string, max int) error {
	if max <= 0 {
		max = MaxInputLength
	}
	if input == "" {
		return &ValidationError{Reason: ReasonEmpty, Max: max}
	}
	if n := InputLength(input); n > max {
		return &ValidationError{Reason: ReasonTooLong, Length: n, Max: max}
	}
	return nil
}

// Validate re-checks a decoded Request, as the backend does for
// requests that did not come through Compose.
func (r Request) Validate(max int) error {
	return ValidateInput(r.InputCode, max)
}

// Normalized returns a copy with trimmed labels and defaults filled in.
func (r Request) Normalized() Request {
	r.InputLanguage = strings.TrimSpace(r.InputLanguage)
	r.OutputLanguage = strings.TrimSpace(r.OutputLanguage)
	r.OutputNaturalLanguage = strings.TrimSpace(r.OutputNaturalLanguage)
	if r.Option == "" {
		r.Option = DefaultMode
	}
	if r.OutputNaturalLanguage == "" {
		r.OutputNaturalLanguage = DefaultNaturalLanguage
	}
	if r.InputLanguage == "" {
		r.InputLanguage = NaturalLanguageLabel
	}
	return r
}

// ProducesCode reports whether the response is expected to be source
// code rather than prose: conversions into a programming language and
// optimizations.
func (r Request) ProducesCode() bool {
	switch r.Option {
	case ModeExplain:
		return false
	case ModeOptimize:
		return true
	default:
		return !IsNaturalLanguage(r.OutputLanguage)
	}
}

// TargetLanguage returns the programming language the response is written
// in, for highlighting. Optimizing keeps the input language unless a
// programming language was picked as output.
func (r Request) TargetLanguage() string {
	if r.Option == ModeOptimize && IsNaturalLanguage(r.OutputLanguage) {
		return r.InputLanguage
	}
	return r.OutputLanguage
}
