// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upstream

import (
	"context"
	"sync"
	"time"
)

// MockTurn is one scripted response.
type MockTurn struct {
	Chunks []string      // Deltas to emit in order
	Delay  time.Duration // Pause before each delta
	Error  error         // Returned after the chunks (or before, if there are none)
}

// MockProvider replays scripted turns and records every prompt.
type MockProvider struct {
	name      string
	mu        sync.Mutex
	turns     []MockTurn
	turnIndex int
	Prompts   []Prompt
}

// NewMockProvider creates a mock provider with the given name.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name}
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	return m.name
}

// AddTurn adds a response turn and returns the provider for chaining.
func (m *MockProvider) AddTurn(t MockTurn) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, t)
	return m
}

// AddChunks is a convenience for a turn that emits chunks and succeeds.
func (m *MockProvider) AddChunks(chunks ...string) *MockProvider {
	return m.AddTurn(MockTurn{Chunks: chunks})
}

// LastPrompt returns the most recent prompt, if any.
func (m *MockProvider) LastPrompt() (Prompt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return Prompt{}, false
	}
	return m.Prompts[len(m.Prompts)-1], true
}

// Stream replays the next turn. With no turns left it echoes the user
// prompt back, which keeps the "mock" provider usable as an offline demo.
func (m *MockProvider) Stream(ctx context.Context, prompt Prompt, emit EmitFunc) error {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	var turn MockTurn
	if m.turnIndex < len(m.turns) {
		turn = m.turns[m.turnIndex]
		m.turnIndex++
	} else {
		turn = MockTurn{Chunks: []string{prompt.User}}
	}
	m.mu.Unlock()

	for _, chunk := range turn.Chunks {
		if turn.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(turn.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emitDelta(emit, chunk); err != nil {
			return err
		}
	}
	return turn.Error
}
