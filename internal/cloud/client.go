// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/jeranaias/coderhelper/internal/stream"
	"github.com/jeranaias/coderhelper/internal/translate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is where `coderhelper serve` listens by default.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultEndpoint is the fixed translation endpoint path.
	DefaultEndpoint = "/api/translate"

	// RequestIDHeader carries the client generated request id.
	RequestIDHeader = "X-Request-ID"

	userAgent = "coderhelper/1.0"
)

// sharedStreamingClient has no overall timeout; lifetime is controlled by
// the request context so long streams are not cut off.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 2 * time.Minute,
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// Client sends translation requests to a single endpoint.
type Client struct {
	baseURL    string
	endpoint   string
	httpClient *http.Client
	consumer   *stream.Consumer
	logger     log.Interface
}

// Response is an open streaming response. The caller owns Body and must
// close it.
type Response struct {
	Body        io.ReadCloser
	Status      int
	ContentType string
	RequestID   string
}

// NewClient creates a client for baseURL using the default endpoint path.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoint:   DefaultEndpoint,
		httpClient: sharedStreamingClient,
		consumer:   stream.NewConsumer(),
		logger:     log.Log,
	}
}

// WithEndpoint overrides the endpoint path.
func (c *Client) WithEndpoint(path string) *Client {
	if path != "" {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		c.endpoint = path
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithConsumer replaces the stream consumer used by Translate.
func (c *Client) WithConsumer(consumer *stream.Consumer) *Client {
	if consumer != nil {
		c.consumer = consumer
	}
	return c
}

// WithLogger sets the logger for request/response lines.
func (c *Client) WithLogger(l log.Interface) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// URL returns the full endpoint URL.
func (c *Client) URL() string {
	return c.baseURL + c.endpoint
}

// Send issues exactly one POST for req and returns the open response.
//
// A non-2xx status yields a *TransportError and a 2xx response without a
// body yields ErrEmptyResponse. In both cases the body is already closed.
func (c *Client) Send(ctx context.Context, req translate.Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/plain")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set(RequestIDHeader, requestID)

	// Bodies are never logged; they hold the user's source text.
	logger := c.logger.WithFields(log.Fields{
		"request_id": requestID,
		"method":     httpReq.Method,
		"path":       httpReq.URL.Path,
		"mode":       req.Option,
	})
	logger.Debug("sending translation request")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.WithError(err).Warn("translation request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	logger = logger.WithFields(log.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody*4))
		resp.Body.Close()
		logger.Warn("translation endpoint returned an error status")
		return nil, newTransportError(resp.StatusCode, body)
	}

	if resp.Body == nil || resp.Body == http.NoBody || resp.ContentLength == 0 {
		if resp.Body != nil {
			resp.Body.Close()
		}
		logger.Warn("translation endpoint returned no body")
		return nil, ErrEmptyResponse
	}

	logger.Debug("translation stream opened")
	return &Response{
		Body:        resp.Body,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		RequestID:   requestID,
	}, nil
}

// Translate sends req and consumes the whole streamed response, calling
// onChunk with each decoded piece in arrival order. It returns the full
// text; on a mid-stream failure the error is a *stream.StreamError holding
// the partial text.
func (c *Client) Translate(ctx context.Context, req translate.Request, onChunk stream.ChunkFunc) (string, error) {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := c.consumer.Consume(ctx, resp.Body, onChunk)
	if err != nil {
		c.logger.WithFields(log.Fields{
			"request_id": resp.RequestID,
			"received":   len(text),
		}).WithError(err).Warn("translation stream interrupted")
		return text, err
	}
	return text, nil
}
