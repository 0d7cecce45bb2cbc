// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/apex/log"

	"github.com/jeranaias/coderhelper/internal/translate"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// maxConfigurableInput bounds client.max_input_length.
const maxConfigurableInput = 1_000_000

// Validate checks every section and returns all problems at once as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// ==========================================================================
	// Client
	// ==========================================================================

	if err := validateHTTPURL(c.Client.BaseURL); err != nil {
		add("client.base_url", "%v", err)
	}
	if !strings.HasPrefix(c.Client.Endpoint, "/") {
		add("client.endpoint", "must start with '/', got %q", c.Client.Endpoint)
	}
	if c.Client.MaxInputLength <= 0 || c.Client.MaxInputLength > maxConfigurableInput {
		add("client.max_input_length", "must be between 1 and %d, got %d", maxConfigurableInput, c.Client.MaxInputLength)
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		add("ui.theme", "invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme)
	}
	if _, err := translate.ParseMode(c.UI.Mode); err != nil {
		add("ui.mode", "%v", err)
	}
	if !translate.IsKnownNaturalLanguage(c.UI.NaturalLanguage) {
		add("ui.natural_language", "unsupported language '%s'", c.UI.NaturalLanguage)
	}
	if strings.TrimSpace(c.UI.OutputLanguage) == "" {
		add("ui.output_language", "must not be empty")
	}

	// ==========================================================================
	// Server
	// ==========================================================================

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		add("server.addr", "invalid listen address '%s': %v", c.Server.Addr, err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		add("server.max_body_bytes", "must be positive, got %d", c.Server.MaxBodyBytes)
	}

	// ==========================================================================
	// Upstream
	// ==========================================================================

	if _, ok := DefaultModels[c.Upstream.Provider]; !ok {
		add("upstream.provider", "invalid provider '%s', must be one of: openai, anthropic, gemini, mock", c.Upstream.Provider)
	}
	if c.Upstream.BaseURL != "" {
		if err := validateHTTPURL(c.Upstream.BaseURL); err != nil {
			add("upstream.base_url", "%v", err)
		}
	}
	if c.Upstream.MaxTokens < 0 {
		add("upstream.max_tokens", "must not be negative, got %d", c.Upstream.MaxTokens)
	}
	if c.Upstream.Temperature < 0 || c.Upstream.Temperature > 2 {
		add("upstream.temperature", "must be between 0 and 2, got %g", c.Upstream.Temperature)
	}

	// ==========================================================================
	// Log
	// ==========================================================================

	if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error, fatal", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL '%s': %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL '%s' must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL '%s' has no host", raw)
	}
	return nil
}
