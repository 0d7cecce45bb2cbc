// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/coderhelper/internal/config"
)

var (
	// ErrNoAPIKey is returned when a provider needs a key and none is set.
	ErrNoAPIKey = errors.New("no API key configured for upstream provider")

	// ErrUnknownProvider is returned for provider names New does not know.
	ErrUnknownProvider = errors.New("unknown upstream provider")
)

// EmitFunc receives each text delta in order. Returning an error stops
// the stream and Stream returns that error.
type EmitFunc func(delta string) error

// Provider streams a completion for a prompt.
type Provider interface {
	// Name identifies the provider and model for logs and /health.
	Name() string

	// Stream sends the prompt and calls emit for every text delta.
	Stream(ctx context.Context, p Prompt, emit EmitFunc) error
}

// New creates the provider selected by cfg.
func New(cfg config.UpstreamConfig, apiKey string) (Provider, error) {
	model := cfg.ResolvedModel()
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if apiKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("%w (set upstream.api_key or OPENAI_API_KEY)", ErrNoAPIKey)
		}
		return NewOpenAIProvider(apiKey, model, cfg.BaseURL), nil
	case config.ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("%w (set upstream.api_key or ANTHROPIC_API_KEY)", ErrNoAPIKey)
		}
		return NewAnthropicProvider(apiKey, model, cfg.BaseURL), nil
	case config.ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("%w (set upstream.api_key or GEMINI_API_KEY)", ErrNoAPIKey)
		}
		return NewGeminiProvider(context.Background(), apiKey, model, cfg.BaseURL)
	case config.ProviderMock:
		return NewMockProvider("Mock (" + model + ")"), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// emitDelta forwards non-empty deltas.
func emitDelta(emit EmitFunc, delta string) error {
	if delta == "" {
		return nil
	}
	return emit(delta)
}
