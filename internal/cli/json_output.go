// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting.
//
// Commands run with --json write exactly one JSON document to stdout.
// Human-readable messages go to stderr.

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every --json command writes.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	// Error is null on success
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Command   string  `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed response. data may carry partial
// results.
func NewJSONErrorResponse(command string, data interface{}, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      data,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response to w, indented.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// TranslationResult is the data of a `translate --json` response.
type TranslationResult struct {
	InputLanguage         string `json:"inputLanguage"`
	OutputLanguage        string `json:"outputLanguage"`
	Option                string `json:"option"`
	OutputNaturalLanguage string `json:"outputNaturalLanguage"`
	Output                string `json:"output"`
	Copied                bool   `json:"copied"`
	DurationMs            int64  `json:"durationMs"`
}
