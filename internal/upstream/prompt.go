// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upstream

import (
	"fmt"
	"strings"

	"github.com/jeranaias/coderhelper/internal/translate"
)

// Prompt is what a provider sends upstream.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// codeOnly is appended whenever the answer must be pasteable source code.
const codeOnly = "Respond with the code only. Do not wrap it in markdown fences and do not add explanations before or after it."

// BuildPrompt turns a request into system and user messages. Prose is
// always written in the request's output natural language.
func BuildPrompt(req translate.Request) Prompt {
	req = req.Normalized()
	lang := req.OutputNaturalLanguage
	from := req.InputLanguage
	to := req.OutputLanguage

	var system, user strings.Builder
	system.WriteString("You are an expert programmer fluent in every programming language. ")

	switch req.Option {
	case translate.ModeExplain:
		fmt.Fprintf(&system, "Explain what the given %s does, step by step, in %s. ", describeSource(from), lang)
		system.WriteString("Use short paragraphs and markdown lists where they help. Quote identifiers in backticks.")
		fmt.Fprintf(&user, "Explain this %s:\n\n", describeSource(from))

	case translate.ModeOptimize:
		target := req.TargetLanguage()
		fmt.Fprintf(&system, "Rewrite the given %s as optimized, idiomatic %s that behaves the same. ", describeSource(from), target)
		fmt.Fprintf(&system, "Write any code comments in %s. %s", lang, codeOnly)
		fmt.Fprintf(&user, "Optimize this %s:\n\n", describeSource(from))

	default:
		switch {
		case translate.IsNaturalLanguage(from) && translate.IsNaturalLanguage(to):
			fmt.Fprintf(&system, "Rewrite the given text as clear, well structured %s.", lang)
			user.WriteString("Rewrite this text:\n\n")
		case translate.IsNaturalLanguage(from):
			fmt.Fprintf(&system, "Write %s code that implements the description you are given. ", to)
			fmt.Fprintf(&system, "Write any code comments in %s. %s", lang, codeOnly)
			fmt.Fprintf(&user, "Write %s code for this description:\n\n", to)
		case translate.IsNaturalLanguage(to):
			fmt.Fprintf(&system, "Describe in plain %s what the given %s code does, for a reader who does not program. ", lang, from)
			system.WriteString("Do not include code in the answer.")
			fmt.Fprintf(&user, "Describe this %s code:\n\n", from)
		default:
			fmt.Fprintf(&system, "Translate %s code into equivalent, idiomatic %s code. ", from, to)
			fmt.Fprintf(&system, "Keep names and structure where the target language allows it. Write any code comments in %s. %s", lang, codeOnly)
			fmt.Fprintf(&user, "Translate this %s code to %s:\n\n", from, to)
		}
	}

	user.WriteString(req.InputCode)

	return Prompt{
		System: system.String(),
		User:   user.String(),
	}
}

func describeSource(inputLanguage string) string {
	if translate.IsNaturalLanguage(inputLanguage) {
		return "text"
	}
	return inputLanguage + " code"
}

// WithLimits returns p with the token limit and temperature applied.
func (p Prompt) WithLimits(maxTokens int, temperature float64) Prompt {
	p.MaxTokens = maxTokens
	p.Temperature = temperature
	return p
}
