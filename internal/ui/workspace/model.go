// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"errors"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coderhelper/internal/clipboard"
	"github.com/jeranaias/coderhelper/internal/session"
	"github.com/jeranaias/coderhelper/internal/stream"
	"github.com/jeranaias/coderhelper/internal/translate"
	"github.com/jeranaias/coderhelper/internal/ui/components"
	"github.com/jeranaias/coderhelper/internal/ui/styles"
)

// Title and Subtitle are shown in the header.
const (
	Title    = "Coder Helper"
	Subtitle = "Elevate your coding with AI"
)

// Translator sends a request and streams the decoded response.
// *cloud.Client implements it.
type Translator interface {
	Translate(ctx context.Context, req translate.Request, onChunk stream.ChunkFunc) (string, error)
}

// Settings configures a workspace.
type Settings struct {
	Theme          string
	Endpoint       string // shown in the status bar
	MaxInputLength int
	CopyOnComplete bool
	Options        translate.Options
}

// focusArea identifies the widget receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusSource
	focusTarget
	focusNatural
	focusMode
	focusOutput
	focusCount
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the translation workspace. The session
// is the single source of truth for input, options and output; the
// widgets mirror it.
type Model struct {
	settings   Settings
	translator Translator
	clip       clipboard.Writer
	ctx        context.Context
	logger     log.Interface

	sess    *session.Session
	request translate.Request
	cancels *cancelManager

	theme    *styles.Theme
	keys     KeyMap
	focus    focusArea
	width    int
	height   int
	ready    bool
	quitting bool

	input    textarea.Model
	source   textinput.Model
	target   textinput.Model
	natural  *components.Picker
	mode     *components.Picker
	output   viewport.Model
	spinner  components.Spinner
	toasts   *components.Toasts
	status   *components.StatusBar
	markdown *components.Markdown

	// rendered caches the final highlighted output for renderedWidth.
	rendered      string
	renderedWidth int
}

// New creates a workspace. clip may be nil to disable copying.
func New(settings Settings, translator Translator, clip clipboard.Writer) Model {
	if settings.MaxInputLength <= 0 {
		settings.MaxInputLength = translate.MaxInputLength
	}
	opts := settings.Options
	if opts == (translate.Options{}) {
		opts = translate.DefaultOptions()
	}
	if opts.Mode == "" {
		opts.Mode = translate.DefaultMode
	}
	if opts.OutputNaturalLanguage == "" {
		opts.OutputNaturalLanguage = translate.DefaultNaturalLanguage
	}
	if opts.InputLanguage == "" {
		opts.InputLanguage = translate.NaturalLanguageLabel
	}
	if clip == nil {
		clip = clipboard.NewMemory()
		settings.CopyOnComplete = false
	}

	theme := styles.NewTheme(settings.Theme)

	input := textarea.New()
	input.Placeholder = "Paste code or describe what you want..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	input.Prompt = ""
	input.Focus()

	source := newLanguageInput("Natural Language", opts.InputLanguage)
	target := newLanguageInput("e.g. Go", opts.OutputLanguage)

	natural := components.NewStringPicker("Language", translate.NaturalLanguages)
	natural.Select(opts.OutputNaturalLanguage)

	modeOpts := make([]components.PickerOption, 0, len(translate.Modes))
	for _, md := range translate.Modes {
		modeOpts = append(modeOpts, components.PickerOption{Value: md.String(), Label: md.Label()})
	}
	mode := components.NewPicker("Mode", modeOpts...)
	mode.Select(opts.Mode.String())

	m := Model{
		settings:   settings,
		translator: translator,
		clip:       clip,
		ctx:        context.Background(),
		logger:     log.Log,
		sess:       session.New().WithOptions(opts),
		cancels:    newCancelManager(),
		theme:      theme,
		keys:       DefaultKeyMap(),
		input:      input,
		source:     source,
		target:     target,
		natural:    natural,
		mode:       mode,
		output:     viewport.New(40, 10),
		spinner:    components.NewSpinner(),
		toasts:     components.NewToasts(),
		status:     components.NewStatusBar(theme),
		markdown:   components.NewMarkdown(theme.GlamourStyle(), 40),
	}
	m.status.SetEndpoint(settings.Endpoint)
	m.syncOptions()
	return m
}

// WithContext sets the parent context of every request.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// WithLogger sets the logger.
func (m Model) WithLogger(logger log.Interface) Model {
	m.logger = logger
	return m
}

// WithInput pre-fills the input text.
func (m Model) WithInput(text string) Model {
	m.input.SetValue(text)
	_ = m.sess.SetInput(text)
	return m
}

// Session returns the display state.
func (m Model) Session() *session.Session {
	return m.sess
}

// Toasts returns the visible notifications.
func (m Model) Toasts() *components.Toasts {
	return m.toasts
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func newLanguageInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 40
	ti.Width = 20
	ti.ShowSuggestions = true
	ti.SetSuggestions(translate.ProgrammingLanguages)
	// tab moves focus, so enter accepts the suggestion.
	ti.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("enter"))
	ti.SetValue(value)
	return ti
}

// =============================================================================
// OPTIONS
// =============================================================================

// currentOptions reads the option widgets.
func (m Model) currentOptions() translate.Options {
	mode, err := translate.ParseMode(m.mode.Value())
	if err != nil {
		mode = translate.DefaultMode
	}
	return translate.Options{
		InputLanguage:         m.source.Value(),
		OutputLanguage:        m.target.Value(),
		Mode:                  mode,
		OutputNaturalLanguage: m.natural.Value(),
	}
}

// syncOptions copies the option widgets into the session. It is a no-op
// while a request is in flight.
func (m Model) syncOptions() {
	if err := m.sess.SetOptions(m.currentOptions()); err != nil && !errors.Is(err, session.ErrReadOnly) {
		m.logger.WithError(err).Warn("set options")
	}
}

// syncInput copies the textarea into the session.
func (m Model) syncInput() {
	if err := m.sess.SetInput(m.input.Value()); err != nil && !errors.Is(err, session.ErrReadOnly) {
		m.logger.WithError(err).Warn("set input")
	}
}
