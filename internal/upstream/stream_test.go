// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// scriptedServer answers every request with one status and body, and keeps
// the last request for inspection.
type scriptedServer struct {
	*httptest.Server

	mu   sync.Mutex
	path string
	body map[string]interface{}
}

func newScriptedServer(t *testing.T, status int, contentType, body string) *scriptedServer {
	t.Helper()
	s := &scriptedServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var decoded map[string]interface{}
		_ = json.Unmarshal(raw, &decoded)

		s.mu.Lock()
		s.path = r.URL.Path
		s.body = decoded
		s.mu.Unlock()

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *scriptedServer) lastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *scriptedServer) lastBody() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

func sseData(events ...string) string {
	var sb strings.Builder
	for _, e := range events {
		fmt.Fprintf(&sb, "data: %s\n\n", e)
	}
	return sb.String()
}

func sseEvents(pairs ...[2]string) string {
	var sb strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&sb, "event: %s\ndata: %s\n\n", p[0], p[1])
	}
	return sb.String()
}

var testPrompt = Prompt{System: "be terse", User: "print 1 in Go", MaxTokens: 64}

// streamAll runs p and returns every delta it emitted.
func streamAll(p Provider) ([]string, error) {
	var deltas []string
	err := p.Stream(context.Background(), testPrompt, func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	return deltas, err
}

// streamUntilStopped fails the first emit and reports how many deltas were seen.
func streamUntilStopped(p Provider) (int, error) {
	stop := errors.New("client went away")
	seen := 0
	err := p.Stream(context.Background(), testPrompt, func(string) error {
		seen++
		return stop
	})
	if !errors.Is(err, stop) {
		return seen, fmt.Errorf("emit error not returned: %v", err)
	}
	return seen, nil
}

// =============================================================================
// OPENAI
// =============================================================================

func openAIChunk(content string) string {
	return fmt.Sprintf(`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-test","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`, content)
}

func TestOpenAIProvider_StreamsDeltas(t *testing.T) {
	body := sseData(
		`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-test","choices":[{"index":0,"delta":{"role":"assistant","content":""},"finish_reason":null}]}`,
		openAIChunk("fmt."),
		openAIChunk("Println(1)"),
		`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-test","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		"[DONE]",
	)
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream", body)

	p := NewOpenAIProvider("test-key", "gpt-test", srv.URL+"/v1/")
	deltas, err := streamAll(p)

	require.NoError(t, err)
	assert.Equal(t, []string{"fmt.", "Println(1)"}, deltas, "empty deltas are skipped")
	assert.True(t, strings.HasSuffix(srv.lastPath(), "/chat/completions"), srv.lastPath())

	sent := srv.lastBody()
	assert.Equal(t, "gpt-test", sent["model"])
	assert.Equal(t, true, sent["stream"])
	assert.Contains(t, fmt.Sprint(sent["messages"]), "print 1 in Go")
}

func TestOpenAIProvider_EmitErrorStops(t *testing.T) {
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream",
		sseData(openAIChunk("one"), openAIChunk("two"), "[DONE]"))

	seen, err := streamUntilStopped(NewOpenAIProvider("test-key", "gpt-test", srv.URL+"/v1/"))
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestOpenAIProvider_UpstreamErrorWrapped(t *testing.T) {
	srv := newScriptedServer(t, http.StatusBadRequest, "application/json",
		`{"error":{"message":"model not found","type":"invalid_request_error","param":null,"code":null}}`)

	_, err := streamAll(NewOpenAIProvider("test-key", "gpt-test", srv.URL+"/v1/"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai streaming error")

	var apiErr *openai.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestOpenAIProvider_ErrorEventMidStream(t *testing.T) {
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream",
		sseData(openAIChunk("partial"), `{"error":{"message":"overloaded"}}`))

	deltas, err := streamAll(NewOpenAIProvider("test-key", "gpt-test", srv.URL+"/v1/"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai streaming error")
	assert.Contains(t, err.Error(), "overloaded")
	assert.Equal(t, []string{"partial"}, deltas)
}

// =============================================================================
// ANTHROPIC
// =============================================================================

func anthropicDelta(text string) [2]string {
	return [2]string{"content_block_delta", fmt.Sprintf(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":%q}}`, text)}
}

func anthropicStream(deltas ...[2]string) string {
	events := [][2]string{
		{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-test","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":5,"output_tokens":1}}}`},
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`},
		{"ping", `{"type":"ping"}`},
	}
	events = append(events, deltas...)
	events = append(events,
		[2]string{"content_block_stop", `{"type":"content_block_stop","index":0}`},
		[2]string{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":4}}`},
		[2]string{"message_stop", `{"type":"message_stop"}`},
	)
	return sseEvents(events...)
}

func TestAnthropicProvider_StreamsTextDeltas(t *testing.T) {
	body := anthropicStream(
		anthropicDelta("fmt."),
		// Non-text deltas are ignored.
		[2]string{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"{}"}}`},
		anthropicDelta("Println(1)"),
	)
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream", body)

	deltas, err := streamAll(NewAnthropicProvider("test-key", "claude-test", srv.URL))

	require.NoError(t, err)
	assert.Equal(t, []string{"fmt.", "Println(1)"}, deltas)
	assert.Equal(t, "/v1/messages", srv.lastPath())

	sent := srv.lastBody()
	assert.Equal(t, "claude-test", sent["model"])
	assert.Equal(t, float64(64), sent["max_tokens"])
	assert.Equal(t, true, sent["stream"])
}

func TestAnthropicProvider_DefaultMaxTokens(t *testing.T) {
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream", anthropicStream(anthropicDelta("ok")))

	p := NewAnthropicProvider("test-key", "claude-test", srv.URL)
	err := p.Stream(context.Background(), Prompt{System: "s", User: "u"}, func(string) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, float64(defaultAnthropicMaxTokens), srv.lastBody()["max_tokens"])
}

func TestAnthropicProvider_EmitErrorStops(t *testing.T) {
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream",
		anthropicStream(anthropicDelta("one"), anthropicDelta("two")))

	seen, err := streamUntilStopped(NewAnthropicProvider("test-key", "claude-test", srv.URL))
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestAnthropicProvider_UpstreamErrorWrapped(t *testing.T) {
	srv := newScriptedServer(t, http.StatusBadRequest, "application/json",
		`{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`)

	_, err := streamAll(NewAnthropicProvider("test-key", "claude-test", srv.URL))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic streaming error")

	var apiErr *anthropic.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestAnthropicProvider_ErrorEventMidStream(t *testing.T) {
	body := sseEvents(
		anthropicDelta("partial"),
		[2]string{"error", `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`},
	)
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream", body)

	deltas, err := streamAll(NewAnthropicProvider("test-key", "claude-test", srv.URL))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic streaming error")
	assert.Contains(t, err.Error(), "Overloaded")
	assert.Equal(t, []string{"partial"}, deltas)
}

// =============================================================================
// GEMINI
// =============================================================================

func geminiChunk(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]},"index":0}]}`, text)
}

func newTestGemini(t *testing.T, url string) *GeminiProvider {
	t.Helper()
	p, err := NewGeminiProvider(context.Background(), "test-key", "gemini-test", url)
	require.NoError(t, err)
	return p
}

func TestGeminiProvider_StreamsText(t *testing.T) {
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream",
		sseData(geminiChunk("fmt."), geminiChunk("Println(1)")))

	deltas, err := streamAll(newTestGemini(t, srv.URL))

	require.NoError(t, err)
	assert.Equal(t, []string{"fmt.", "Println(1)"}, deltas)
	assert.Contains(t, srv.lastPath(), "gemini-test:streamGenerateContent")
	assert.Contains(t, fmt.Sprint(srv.lastBody()["contents"]), "print 1 in Go")
}

func TestGeminiProvider_EmitErrorStops(t *testing.T) {
	srv := newScriptedServer(t, http.StatusOK, "text/event-stream",
		sseData(geminiChunk("one"), geminiChunk("two")))

	seen, err := streamUntilStopped(newTestGemini(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestGeminiProvider_UpstreamErrorWrapped(t *testing.T) {
	srv := newScriptedServer(t, http.StatusBadRequest, "application/json",
		`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)

	_, err := streamAll(newTestGemini(t, srv.URL))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini streaming error")

	var apiErr genai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	assert.Equal(t, "API key not valid", apiErr.Message)
}
