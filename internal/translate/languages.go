// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package translate

import "strings"

// NaturalLanguageLabel is the input/output language label meaning prose
// rather than a programming language.
const NaturalLanguageLabel = "Natural Language"

// DefaultNaturalLanguage is the default language for prose in responses.
const DefaultNaturalLanguage = "English"

// NaturalLanguages is the fixed set of languages offered for prose output.
var NaturalLanguages = []string{
	"English",
	"Chinese (Simplified)",
	"Chinese (Traditional)",
	"Spanish",
	"French",
	"German",
	"Japanese",
	"Korean",
	"Portuguese",
	"Russian",
	"Italian",
	"Arabic",
	"Hindi",
	"Turkish",
	"Vietnamese",
	"Indonesian",
}

// ProgrammingLanguages are suggestions for the input/output language fields.
// The fields accept free-form text; this list only drives completion.
var ProgrammingLanguages = []string{
	NaturalLanguageLabel,
	"Bash",
	"C",
	"C#",
	"C++",
	"Clojure",
	"Dart",
	"Elixir",
	"Go",
	"Haskell",
	"Java",
	"JavaScript",
	"Julia",
	"Kotlin",
	"Lua",
	"Matlab",
	"Objective-C",
	"Perl",
	"PHP",
	"PowerShell",
	"Python",
	"R",
	"Ruby",
	"Rust",
	"Scala",
	"SQL",
	"Swift",
	"TypeScript",
	"Visual Basic .NET",
}

// IsNaturalLanguage reports whether label names prose rather than code.
func IsNaturalLanguage(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), NaturalLanguageLabel)
}

// IsKnownNaturalLanguage reports whether name is one of NaturalLanguages.
func IsKnownNaturalLanguage(name string) bool {
	for _, l := range NaturalLanguages {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// NextNaturalLanguage returns the language after current, wrapping around.
func NextNaturalLanguage(current string) string {
	for i, l := range NaturalLanguages {
		if strings.EqualFold(l, current) {
			return NaturalLanguages[(i+1)%len(NaturalLanguages)]
		}
	}
	return NaturalLanguages[0]
}

// PrevNaturalLanguage returns the language before current, wrapping around.
func PrevNaturalLanguage(current string) string {
	for i, l := range NaturalLanguages {
		if strings.EqualFold(l, current) {
			return NaturalLanguages[(i-1+len(NaturalLanguages))%len(NaturalLanguages)]
		}
	}
	return NaturalLanguages[0]
}
