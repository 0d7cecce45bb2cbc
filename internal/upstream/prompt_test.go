// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upstream

import (
	"strings"
	"testing"

	"github.com/jeranaias/coderhelper/internal/translate"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name         string
		req          translate.Request
		systemHas    []string
		systemHasNot []string
		userPrefix   string
	}{
		{
			name: "natural language to code",
			req: translate.Request{
				InputLanguage: translate.NaturalLanguageLabel, OutputLanguage: "Go",
				Option: translate.ModeConvert, OutputNaturalLanguage: "English",
			},
			systemHas:  []string{"Write Go code", codeOnly},
			userPrefix: "Write Go code for this description",
		},
		{
			name: "code to code",
			req: translate.Request{
				InputLanguage: "Python", OutputLanguage: "Rust",
				Option: translate.ModeConvert, OutputNaturalLanguage: "German",
			},
			systemHas:  []string{"Translate Python code into equivalent, idiomatic Rust", "comments in German", codeOnly},
			userPrefix: "Translate this Python code to Rust",
		},
		{
			name: "code to natural language",
			req: translate.Request{
				InputLanguage: "Java", OutputLanguage: translate.NaturalLanguageLabel,
				Option: translate.ModeConvert, OutputNaturalLanguage: "Spanish",
			},
			systemHas:    []string{"plain Spanish", "Java code"},
			systemHasNot: []string{codeOnly},
			userPrefix:   "Describe this Java code",
		},
		{
			name: "explain",
			req: translate.Request{
				InputLanguage: "C", OutputLanguage: "Go",
				Option: translate.ModeExplain, OutputNaturalLanguage: "French",
			},
			systemHas:    []string{"Explain what the given C code does", "in French"},
			systemHasNot: []string{codeOnly},
			userPrefix:   "Explain this C code",
		},
		{
			name: "optimize keeps input language",
			req: translate.Request{
				InputLanguage: "JavaScript", OutputLanguage: translate.NaturalLanguageLabel,
				Option: translate.ModeOptimize, OutputNaturalLanguage: "English",
			},
			systemHas:  []string{"idiomatic JavaScript", codeOnly},
			userPrefix: "Optimize this JavaScript code",
		},
		{
			name: "prose to prose",
			req: translate.Request{
				InputLanguage: translate.NaturalLanguageLabel, OutputLanguage: translate.NaturalLanguageLabel,
				Option: translate.ModeConvert, OutputNaturalLanguage: "Japanese",
			},
			systemHas:  []string{"well structured Japanese"},
			userPrefix: "Rewrite this text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.InputCode = "INPUT-BODY"
			p := BuildPrompt(tt.req)

			for _, s := range tt.systemHas {
				if !strings.Contains(p.System, s) {
					t.Errorf("system prompt missing %q:\n%s", s, p.System)
				}
			}
			for _, s := range tt.systemHasNot {
				if strings.Contains(p.System, s) {
					t.Errorf("system prompt should not contain %q:\n%s", s, p.System)
				}
			}
			if !strings.HasPrefix(p.User, tt.userPrefix) {
				t.Errorf("user prompt %q does not start with %q", p.User, tt.userPrefix)
			}
			if !strings.HasSuffix(p.User, "INPUT-BODY") {
				t.Errorf("input must be passed through verbatim, got %q", p.User)
			}
		})
	}
}

func TestBuildPrompt_FillsDefaults(t *testing.T) {
	p := BuildPrompt(translate.Request{OutputLanguage: "Go", InputCode: "sum a list"})
	for _, want := range []string{"Write Go code", "comments in English"} {
		if !strings.Contains(p.System, want) {
			t.Errorf("system prompt missing %q:\n%s", want, p.System)
		}
	}
}

func TestPrompt_WithLimits(t *testing.T) {
	p := Prompt{System: "s", User: "u"}.WithLimits(256, 0.2)
	if p.MaxTokens != 256 || p.Temperature != 0.2 || p.User != "u" {
		t.Errorf("WithLimits = %+v", p)
	}
}
