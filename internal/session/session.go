// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/coderhelper/internal/translate"
)

// =============================================================================
// PHASE
// =============================================================================

// Phase is the lifecycle state of the current request.
type Phase int

const (
	// Idle means no request has been made yet.
	Idle Phase = iota
	// InFlight means a request is being sent or streamed.
	InFlight
	// Done means the last request completed.
	Done
	// Failed means the last request ended with an error.
	Failed
	// Canceled means the user aborted the last request.
	Canceled
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case InFlight:
		return "in flight"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

var (
	// ErrInFlight is returned when a request is started while another one
	// is still in flight.
	ErrInFlight = errors.New("a request is already in flight")

	// ErrReadOnly is returned when the input is edited while in flight.
	ErrReadOnly = errors.New("input is read-only while a request is in flight")
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the display state of one workspace.
type Session struct {
	mu sync.Mutex

	input   string
	options translate.Options

	output    strings.Builder
	chunks    int
	phase     Phase
	requestID string
	err       error

	started  time.Time
	finished time.Time

	now func() time.Time
}

// Snapshot is a point-in-time copy of a Session.
type Snapshot struct {
	Input     string
	Options   translate.Options
	Output    string
	Chunks    int
	Phase     Phase
	RequestID string
	Err       error
	Elapsed   time.Duration
}

// New creates an idle session with default options.
func New() *Session {
	return &Session{
		options: translate.DefaultOptions(),
		now:     time.Now,
	}
}

// WithOptions sets the initial options.
func (s *Session) WithOptions(opts translate.Options) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = opts
	return s
}

// WithClock replaces the time source (used by tests).
func (s *Session) WithClock(now func() time.Time) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
	return s
}

// -----------------------------------------------------------------------------
// Input and options
// -----------------------------------------------------------------------------

// SetInput replaces the input text. It fails with ErrReadOnly while a
// request is in flight.
func (s *Session) SetInput(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == InFlight {
		return ErrReadOnly
	}
	s.input = text
	return nil
}

// Input returns the current input text.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetOptions replaces the translation options. It fails with ErrReadOnly
// while a request is in flight.
func (s *Session) SetOptions(opts translate.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == InFlight {
		return ErrReadOnly
	}
	s.options = opts
	return nil
}

// Options returns the current translation options.
func (s *Session) Options() translate.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// Compose validates the input against max and builds a request from the
// current input and options. It does not change the session.
func (s *Session) Compose(max int) (translate.Request, error) {
	s.mu.Lock()
	input, opts := s.input, s.options
	s.mu.Unlock()
	return translate.ComposeWithLimit(input, opts, max)
}

// -----------------------------------------------------------------------------
// Request lifecycle
// -----------------------------------------------------------------------------

// Begin starts a new request: it clears the output and error, marks the
// session in flight and returns a fresh request id.
func (s *Session) Begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == InFlight {
		return "", ErrInFlight
	}
	s.output.Reset()
	s.chunks = 0
	s.err = nil
	s.phase = InFlight
	s.requestID = uuid.NewString()
	s.started = s.now()
	s.finished = time.Time{}
	return s.requestID, nil
}

// Append adds a decoded chunk to the output. It reports false and drops
// the chunk if id is not the in-flight request.
func (s *Session) Append(id, chunk string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked(id) {
		return false
	}
	if chunk != "" {
		s.output.WriteString(chunk)
		s.chunks++
	}
	return true
}

// Complete ends the request successfully and returns the full output.
func (s *Session) Complete(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked(id) {
		return "", false
	}
	s.finishLocked(Done, nil)
	return s.output.String(), true
}

// Fail ends the request with err. Output received so far is kept.
func (s *Session) Fail(id string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked(id) {
		return false
	}
	s.finishLocked(Failed, err)
	return true
}

// Cancel ends the request as aborted by the user. Output received so far
// is kept.
func (s *Session) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked(id) {
		return false
	}
	s.finishLocked(Canceled, nil)
	return true
}

// Clear empties the input and output. It fails with ErrReadOnly while a
// request is in flight.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == InFlight {
		return ErrReadOnly
	}
	s.input = ""
	s.output.Reset()
	s.chunks = 0
	s.err = nil
	s.phase = Idle
	return nil
}

func (s *Session) activeLocked(id string) bool {
	return s.phase == InFlight && id != "" && id == s.requestID
}

func (s *Session) finishLocked(phase Phase, err error) {
	s.phase = phase
	s.err = err
	s.finished = s.now()
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Output returns the output received so far.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.String()
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// InFlight reports whether a request is in flight.
func (s *Session) InFlight() bool {
	return s.Phase() == InFlight
}

// Editable reports whether the input may be edited.
func (s *Session) Editable() bool {
	return !s.InFlight()
}

// RequestID returns the id of the current or most recent request.
func (s *Session) RequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestID
}

// Err returns the error of the last failed request.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Elapsed returns how long the current request has been running, or how
// long the last one took.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	if s.phase == InFlight || s.finished.IsZero() {
		return s.now().Sub(s.started)
	}
	return s.finished.Sub(s.started)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Input:     s.input,
		Options:   s.options,
		Output:    s.output.String(),
		Chunks:    s.chunks,
		Phase:     s.phase,
		RequestID: s.requestID,
		Err:       s.err,
		Elapsed:   s.elapsedLocked(),
	}
}
