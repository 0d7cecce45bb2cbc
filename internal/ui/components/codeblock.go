// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coderhelper/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders translated source code with highlighting and line
// numbers.
type CodeBlock struct {
	Language    string
	Code        string
	Style       string // chroma style name
	MaxWidth    int
	LineNumbers bool
}

// NewCodeBlock creates a code block with line numbers and the monokai style.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language:    language,
		Code:        code,
		Style:       "monokai",
		MaxWidth:    80,
		LineNumbers: true,
	}
}

// WithStyle returns a copy using the named chroma style.
func (c CodeBlock) WithStyle(name string) CodeBlock {
	c.Style = name
	return c
}

// WithMaxWidth returns a copy limited to width columns.
func (c CodeBlock) WithMaxWidth(width int) CodeBlock {
	c.MaxWidth = width
	return c
}

// Render renders the block. The language badge is shown only when the
// language is known to chroma.
func (c CodeBlock) Render(theme *styles.Theme) string {
	code := strings.TrimRight(c.Code, "\n")
	highlighted := Highlight(code, c.Language, c.Style)

	var b strings.Builder
	if name := LexerName(c.Language); name != "" {
		b.WriteString(theme.CodeLangBadge.Render(name))
		b.WriteString("\n")
	}

	// Some lexers append a newline to their input; keep the original count.
	lines := strings.Split(highlighted, "\n")
	if n := strings.Count(code, "\n") + 1; len(lines) > n {
		lines = lines[:n]
	}
	for i, line := range lines {
		if c.LineNumbers {
			b.WriteString(theme.CodeLineNum.Render(strconv.Itoa(i + 1)))
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	maxWidth := c.MaxWidth
	if maxWidth < 20 {
		maxWidth = 20
	}
	return lipgloss.NewStyle().MaxWidth(maxWidth).Render(b.String())
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// Highlight applies chroma highlighting for a terminal. Unknown languages
// fall back to content analysis, then to plain text.
func Highlight(code, language, style string) string {
	lexer := lexerFor(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := chromaStyles.Get(style)
	if s == nil {
		s = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, s, iterator); err != nil {
		return code
	}
	return buf.String()
}

// lexerAliases maps labels chroma does not resolve by name. An empty
// value means "no lexer".
var lexerAliases = map[string]string{
	"natural language":  "",
	"visual basic .net": "vb.net",
	"shell":             "bash",
	"golang":            "go",
}

func lexerFor(language string) chroma.Lexer {
	key := strings.ToLower(strings.TrimSpace(language))
	if key == "" {
		return nil
	}
	if alias, ok := lexerAliases[key]; ok {
		if alias == "" {
			return nil
		}
		key = alias
	}
	return lexers.Get(key)
}

// LexerName returns chroma's name for a language label, or "" when chroma
// has no lexer for it.
func LexerName(language string) string {
	lexer := lexerFor(language)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}
