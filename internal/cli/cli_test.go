// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/coderhelper/internal/clipboard"
	"github.com/jeranaias/coderhelper/internal/cloud"
	"github.com/jeranaias/coderhelper/internal/config"
	"github.com/jeranaias/coderhelper/internal/server"
	"github.com/jeranaias/coderhelper/internal/translate"
	"github.com/jeranaias/coderhelper/internal/upstream"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// isolate points the config directory at a temp dir and replaces the
// clipboard with an in-memory one.
func isolate(t *testing.T) (dir string, clip *clipboard.Memory) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("CODERHELPER_CONFIG_DIR", dir)

	clip = clipboard.NewMemory()
	orig := newClipboard
	newClipboard = func(io.Writer, bool) clipboard.Writer { return clip }
	t.Cleanup(func() { newClipboard = orig })
	return dir, clip
}

// startBackend serves the translation endpoint with provider.
func startBackend(t *testing.T, provider upstream.Provider) *httptest.Server {
	t.Helper()
	srv := server.New(config.Default(), provider).
		WithLogger(&log.Logger{Handler: discard.New()})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// run executes the root command with args and stdin.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// =============================================================================
// TRANSLATE
// =============================================================================

func TestTranslate_StreamsToStdoutAndCopies(t *testing.T) {
	_, clip := isolate(t)
	mock := upstream.NewMockProvider("mock").AddChunks("fmt.", "Println(1)")
	ts := startBackend(t, mock)

	out, _, err := run(t, "", "translate", "--url", ts.URL, "--to", "Go", "print", "1")
	require.NoError(t, err)

	assert.Equal(t, "fmt.Println(1)\n", out)
	assert.Equal(t, "fmt.Println(1)", clip.Text())

	prompt, ok := mock.LastPrompt()
	require.True(t, ok)
	assert.Contains(t, prompt.User, "print 1")
}

func TestTranslate_ReadsStdin(t *testing.T) {
	_, clip := isolate(t)
	ts := startBackend(t, upstream.NewMockProvider("mock").AddChunks("y = 1"))

	out, _, err := run(t, "x := 1\n", "translate", "--url", ts.URL, "--no-copy")
	require.NoError(t, err)

	assert.Equal(t, "y = 1\n", out)
	assert.Equal(t, 0, clip.Writes())
}

func TestTranslate_ReadsFile(t *testing.T) {
	dir, _ := isolate(t)
	mock := upstream.NewMockProvider("mock").AddChunks("ok")
	ts := startBackend(t, mock)

	path := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(path, []byte("print('hi')"), 0600))

	out, _, err := run(t, "", "translate", "--url", ts.URL, "--from", "Python", "--to", "Go", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	prompt, ok := mock.LastPrompt()
	require.True(t, ok)
	assert.Contains(t, prompt.User, "print('hi')")
}

func TestTranslate_FileAndArgsConflict(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "translate", "--file", "x.py", "text")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestTranslate_EmptyInput(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "translate")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Equal(t, "Please enter some text.", err.Error())
}

func TestTranslate_TooLong(t *testing.T) {
	isolate(t)
	t.Setenv("CODERHELPER_MAX_INPUT_LENGTH", "5")

	_, _, err := run(t, "", "translate", "abcdefg")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Contains(t, err.Error(), "less than 5 characters")
	assert.Contains(t, err.Error(), "currently at 7 characters")
}

func TestTranslate_UnknownMode(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "translate", "--mode", "summarize", "code")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Contains(t, err.Error(), "convert")
}

func TestTranslate_TransportError(t *testing.T) {
	_, clip := isolate(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	out, _, err := run(t, "", "translate", "--url", ts.URL, "code")
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, ExitCode(err))
	assert.True(t, errors.Is(err, cloud.ErrTransport))
	assert.Contains(t, err.Error(), "Please try again later.")
	assert.Empty(t, out)
	assert.Equal(t, 0, clip.Writes())
}

func TestTranslate_EmptyResponse(t *testing.T) {
	isolate(t)
	ts := startBackend(t, upstream.NewMockProvider("mock").AddTurn(upstream.MockTurn{}))

	_, _, err := run(t, "", "translate", "--url", ts.URL, "code")
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, ExitCode(err))
	assert.True(t, errors.Is(err, cloud.ErrEmptyResponse))
	assert.Contains(t, err.Error(), "Something went wrong.")
}

func TestTranslate_JSON(t *testing.T) {
	_, clip := isolate(t)
	ts := startBackend(t, upstream.NewMockProvider("mock").AddChunks("Hola ", "mundo"))

	out, _, err := run(t, "", "translate", "--url", ts.URL, "--json",
		"--mode", "explain", "--lang", "Spanish", "fmt.Println(1)")
	require.NoError(t, err)

	var resp struct {
		Success bool              `json:"success"`
		Data    TranslationResult `json:"data"`
		Error   *string           `json:"error"`
		Command string            `json:"command"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "translate", resp.Command)
	assert.Equal(t, "Hola mundo", resp.Data.Output)
	assert.Equal(t, "explain", resp.Data.Option)
	assert.Equal(t, "Spanish", resp.Data.OutputNaturalLanguage)
	assert.True(t, resp.Data.Copied)
	assert.Equal(t, "Hola mundo", clip.Text())
}

func TestTranslate_MidStreamFailureKeepsPartial(t *testing.T) {
	_, clip := isolate(t)
	mock := upstream.NewMockProvider("mock").AddTurn(upstream.MockTurn{
		Chunks: []string{"partial"},
		Error:  errors.New("upstream dropped"),
	})
	ts := startBackend(t, mock)

	out, _, err := run(t, "", "translate", "--url", ts.URL, "code")
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, ExitCode(err))
	assert.Equal(t, "partial\n", out)
	assert.Equal(t, 0, clip.Writes())
}

// closedPipe fails every write like a reader that went away.
type closedPipe struct {
	writes int
}

func (p *closedPipe) Write(b []byte) (int, error) {
	p.writes++
	return 0, errors.New("broken pipe")
}

// holdingProvider emits one delta and then waits for the request to end.
type holdingProvider struct {
	released chan struct{}
}

func (p *holdingProvider) Name() string { return "holding" }

func (p *holdingProvider) Stream(ctx context.Context, _ upstream.Prompt, emit upstream.EmitFunc) error {
	defer close(p.released)
	if err := emit("first "); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestTranslate_StopsWhenStdoutCloses(t *testing.T) {
	_, clip := isolate(t)
	provider := &holdingProvider{released: make(chan struct{})}
	ts := startBackend(t, provider)

	out := &closedPipe{}
	root := NewRootCommand()
	root.SetArgs([]string{"translate", "--url", ts.URL, "--no-copy", "code"})
	root.SetIn(strings.NewReader(""))
	root.SetOut(out)
	root.SetErr(io.Discard)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not write output")
	assert.Equal(t, ExitGeneralError, ExitCode(err))
	assert.Equal(t, 1, out.writes, "no writes after the first failure")
	assert.Equal(t, 0, clip.Writes())

	select {
	case <-provider.released:
	case <-time.After(5 * time.Second):
		t.Fatal("upstream request was not canceled")
	}
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_SetThenGet(t *testing.T) {
	dir, _ := isolate(t)

	out, _, err := run(t, "", "config", "set", "ui.natural_language", "Spanish")
	require.NoError(t, err)
	assert.Contains(t, out, "Set ui.natural_language = Spanish")
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	out, _, err = run(t, "", "config", "get", "ui.natural_language")
	require.NoError(t, err)
	assert.Equal(t, "Spanish\n", out)
}

func TestConfig_SetRejectsInvalidValue(t *testing.T) {
	dir, _ := isolate(t)

	_, _, err := run(t, "", "config", "set", "ui.theme", "neon")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Contains(t, err.Error(), "ui.theme")
	assert.NoFileExists(t, filepath.Join(dir, "config.toml"))
}

func TestConfig_SetUnknownKey(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "config", "set", "ui.colour", "red")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestConfig_SecretsAreMasked(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "", "config", "set", "upstream.api_key", "sk-secret")
	require.NoError(t, err)

	out, _, err := run(t, "", "config", "get", "upstream.api_key")
	require.NoError(t, err)
	assert.Equal(t, redacted+"\n", out)

	out, _, err = run(t, "", "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "sk-secret")
}

func TestConfig_ShowJSON(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "", "config", "show", "--json")
	require.NoError(t, err)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			UI struct {
				Theme string `json:"theme"`
			} `json:"ui"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "auto", resp.Data.UI.Theme)
}

func TestConfig_InitAndPath(t *testing.T) {
	dir, _ := isolate(t)
	want := filepath.Join(dir, "config.toml")

	out, _, err := run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	_, _, err = run(t, "", "config", "init")
	require.NoError(t, err)
	cfg, err := config.LoadFromPath(want)
	require.NoError(t, err)
	assert.Equal(t, config.Default().UI.Mode, cfg.UI.Mode)

	_, _, err = run(t, "", "config", "init")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	_, _, err = run(t, "", "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigFlagSelectsFile(t *testing.T) {
	dir, _ := isolate(t)
	path := filepath.Join(dir, "custom.json")

	_, _, err := run(t, "", "--config", path, "config", "set", "ui.mode", "optimize")
	require.NoError(t, err)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "optimize", cfg.UI.Mode)
}

// =============================================================================
// VERSION AND EXIT CODES
// =============================================================================

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)

	out, _, err = run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "coderhelper "+Version))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"explicit", withCode(ExitConfigError, errors.New("bad")), ExitConfigError},
		{"validation", &translate.ValidationError{Reason: translate.ReasonEmpty}, ExitUsageError},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), ExitInterrupted},
		{"transport", &cloud.TransportError{Status: 502}, ExitNetworkError},
		{"empty", cloud.ErrEmptyResponse, ExitNetworkError},
		{"no key", upstream.ErrNoAPIKey, ExitConfigError},
		{"other", errors.New("other"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

// =============================================================================
// WORKSPACE CLIPBOARD
// =============================================================================

type ttyBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *ttyBuffer) Close() error {
	b.closed = true
	return nil
}

func stubTTY(t *testing.T, tty io.WriteCloser, err error) *int {
	t.Helper()
	opened := 0
	orig := openTTY
	openTTY = func() (io.WriteCloser, error) {
		opened++
		return tty, err
	}
	t.Cleanup(func() { openTTY = orig })
	return &opened
}

func TestWorkspaceClipboard_OSC52GoesToTerminal(t *testing.T) {
	tty := &ttyBuffer{}
	stubTTY(t, tty, nil)

	clip, release := workspaceClipboard(true)
	require.NoError(t, clip.WithNative(nil).WriteAll("fmt.Println(1)"))

	assert.Contains(t, tty.String(), "\x1b]52;c;")
	assert.Equal(t, clipboard.MethodOSC52, clip.LastMethod())

	release()
	assert.True(t, tty.closed)
}

func TestWorkspaceClipboard_NoTerminalDisablesFallback(t *testing.T) {
	stubTTY(t, nil, errors.New("no such device"))

	clip, release := workspaceClipboard(true)
	defer release()

	err := clip.WithNative(nil).WriteAll("text")
	assert.ErrorIs(t, err, clipboard.ErrUnavailable)
}

func TestWorkspaceClipboard_FallbackOff(t *testing.T) {
	opened := stubTTY(t, &ttyBuffer{}, nil)

	clip, release := workspaceClipboard(false)
	defer release()

	assert.Zero(t, *opened, "terminal is not opened when OSC 52 is off")
	assert.ErrorIs(t, clip.WithNative(nil).WriteAll("text"), clipboard.ErrUnavailable)
}
