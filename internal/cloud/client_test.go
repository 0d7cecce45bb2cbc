// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/coderhelper/internal/stream"
	"github.com/jeranaias/coderhelper/internal/translate"
)

func quietLogger() log.Interface {
	return &log.Logger{Handler: discard.New(), Level: log.DebugLevel}
}

func newTestClient(url string) *Client {
	return NewClient(url).WithLogger(quietLogger())
}

func composeRequest(t *testing.T, input string) translate.Request {
	t.Helper()
	req, err := translate.Compose(input, translate.DefaultOptions())
	require.NoError(t, err)
	return req
}

// =============================================================================
// REQUEST SHAPE TESTS
// =============================================================================

func TestSend_PostsJSONToEndpoint(t *testing.T) {
	var calls atomic.Int32
	var gotBody map[string]any
	var gotHeader http.Header
	var gotPath, gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotHeader = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	input := "  print('hi')\n"
	resp, err := newTestClient(server.URL).Send(context.Background(), composeRequest(t, input))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, DefaultEndpoint, gotPath)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.NotEmpty(t, gotHeader.Get(RequestIDHeader))
	assert.Equal(t, resp.RequestID, gotHeader.Get(RequestIDHeader))

	assert.Equal(t, input, gotBody["inputCode"], "payload text must equal the input exactly")
	assert.Equal(t, "Natural Language", gotBody["inputLanguage"])
	assert.Equal(t, "Python", gotBody["outputLanguage"])
	assert.Equal(t, "convert", gotBody["option"])
	assert.Equal(t, "English", gotBody["outputNaturalLanguage"])
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.ContentType, "text/plain")
}

func TestWithEndpoint(t *testing.T) {
	c := NewClient("http://example.test/").WithEndpoint("v2/translate")
	assert.Equal(t, "http://example.test/v2/translate", c.URL())

	c = NewClient("").WithEndpoint("")
	assert.Equal(t, DefaultBaseURL+DefaultEndpoint, c.URL())
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestSend_NonSuccessStatus(t *testing.T) {
	statuses := []int{http.StatusBadRequest, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				http.Error(w, `{"error":"upstream unavailable"}`, status)
			}))
			defer server.Close()

			resp, err := newTestClient(server.URL).Send(context.Background(), composeRequest(t, "x"))
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, int32(1), calls.Load(), "the client must not retry")

			var terr *TransportError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, status, terr.Status)
			assert.Contains(t, terr.Body, "upstream unavailable")
			assert.True(t, errors.Is(err, ErrTransport))
			assert.Equal(t, "Please try again later.", UserMessage(err))
		})
	}
}

func TestTransportError_Temporary(t *testing.T) {
	assert.True(t, (&TransportError{Status: 503}).Temporary())
	assert.True(t, (&TransportError{Status: 429}).Temporary())
	assert.False(t, (&TransportError{Status: 400}).Temporary())
}

func TestTransportError_BodyIsCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("e", 10000)))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Send(context.Background(), composeRequest(t, "x"))
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.LessOrEqual(t, len([]rune(terr.Body)), maxErrorBody)
}

func TestSend_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Send(context.Background(), composeRequest(t, "x"))
	assert.Nil(t, resp)
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, "Something went wrong.", UserMessage(err))
}

func TestSend_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Send(context.Background(), composeRequest(t, "x"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTransport))
	assert.Empty(t, UserMessage(err))
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestTranslate_StreamsChunksInOrder(t *testing.T) {
	parts := []string{"def add(a, b):\n", "    return ", "a + b\n"}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, p := range parts {
			_, _ = io.WriteString(w, p)
			flusher.Flush()
		}
	}))
	defer server.Close()

	var display strings.Builder
	text, err := newTestClient(server.URL).Translate(context.Background(), composeRequest(t, "add two numbers"), func(chunk string) {
		display.WriteString(chunk)
	})

	require.NoError(t, err)
	assert.Equal(t, strings.Join(parts, ""), text)
	assert.Equal(t, text, display.String())
}

func TestTranslate_MultiByteAcrossFlushes(t *testing.T) {
	raw := []byte("// 你好，世界\n")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, b := range raw {
			_, _ = w.Write([]byte{b})
			flusher.Flush()
		}
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Translate(context.Background(), composeRequest(t, "x"), nil)
	require.NoError(t, err)
	assert.Equal(t, string(raw), text)
}

func TestTranslate_Cancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "first ")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan struct{}, 1)
	req := composeRequest(t, "x")

	done := make(chan error, 1)
	go func() {
		_, err := newTestClient(server.URL).Translate(ctx, req, func(string) {
			select {
			case first <- struct{}{}:
			default:
			}
		})
		done <- err
	}()

	select {
	case <-first:
	case <-time.After(5 * time.Second):
		t.Fatal("first chunk never arrived")
	}
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		var serr *stream.StreamError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, "first ", serr.Partial)
	case <-time.After(5 * time.Second):
		t.Fatal("Translate did not return after cancel")
	}
}
