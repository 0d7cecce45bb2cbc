// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upstream

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider streams content from the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(ctx context.Context, apiKey, model, baseURL string) (*GeminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Name returns the provider and model.
func (p *GeminiProvider) Name() string {
	return fmt.Sprintf("Gemini (%s)", p.model)
}

// Stream implements Provider.
func (p *GeminiProvider) Stream(ctx context.Context, prompt Prompt, emit EmitFunc) error {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
	}
	if prompt.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(prompt.MaxTokens)
	}
	if prompt.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(prompt.Temperature))
	}

	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, genai.Text(prompt.User), cfg) {
		if err != nil {
			return fmt.Errorf("gemini streaming error: %w", err)
		}
		if err := emitDelta(emit, resp.Text()); err != nil {
			return err
		}
	}
	return nil
}
