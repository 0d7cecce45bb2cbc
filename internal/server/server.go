// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/jeranaias/coderhelper/internal/config"
	"github.com/jeranaias/coderhelper/internal/translate"
	"github.com/jeranaias/coderhelper/internal/upstream"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// TranslatePath is the streaming translation endpoint.
	TranslatePath = "/api/translate"

	// LanguagesPath lists the selectable languages and modes.
	LanguagesPath = "/api/languages"

	// HealthPath reports liveness and the active provider.
	HealthPath = "/health"

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// Version is reported by /health. The CLI overwrites it at startup.
var Version = "dev"

const (
	msgInternal   = "internal server error"
	msgTooLarge   = "request body too large"
	msgBadRequest = "invalid request body"
	msgBadMode    = "unknown option"
	msgUpstream   = "upstream provider failed"
	msgNoProvider = "no upstream provider configured"
)

// ============================================================================
// TYPES
// ============================================================================

// ErrorResponse is the JSON body of every non-streaming error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// ModeInfo describes one selectable mode.
type ModeInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LanguagesResponse is the body of GET /api/languages.
type LanguagesResponse struct {
	NaturalLanguages       []string   `json:"naturalLanguages"`
	DefaultNaturalLanguage string     `json:"defaultNaturalLanguage"`
	ProgrammingLanguages   []string   `json:"programmingLanguages"`
	NaturalLanguageLabel   string     `json:"naturalLanguageLabel"`
	Modes                  []ModeInfo `json:"modes"`
	MaxInputLength         int        `json:"maxInputLength"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string  `json:"status"`
	Version  string  `json:"version"`
	Provider string  `json:"provider"`
	Uptime   float64 `json:"uptime_seconds"`
}

// Server is the translation backend. It validates requests with the same
// rules as the client, builds a prompt and streams the provider's text.
type Server struct {
	mu          sync.RWMutex
	addr        string
	bodyLimit   int64
	maxInput    int
	maxTokens   int
	temperature float64
	provider    upstream.Provider

	engine     *gin.Engine
	httpServer *http.Server
	logger     log.Interface
	started    time.Time
	now        func() time.Time
}

// ============================================================================
// CONSTRUCTION
// ============================================================================

// New creates a server from cfg. The provider may be nil and set later
// with WithProvider; requests fail with 503 until one is set.
func New(cfg *config.Config, provider upstream.Provider) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		addr:        cfg.Server.Addr,
		bodyLimit:   cfg.Server.MaxBodyBytes,
		maxInput:    cfg.Client.MaxInputLength,
		maxTokens:   cfg.Upstream.MaxTokens,
		temperature: cfg.Upstream.Temperature,
		provider:    provider,
		logger:      log.Log,
		now:         time.Now,
	}
	if s.maxInput <= 0 {
		s.maxInput = translate.MaxInputLength
	}
	s.started = s.now()
	s.engine = s.buildEngine()
	return s
}

// WithProvider replaces the upstream provider.
func (s *Server) WithProvider(p upstream.Provider) *Server {
	s.mu.Lock()
	s.provider = p
	s.mu.Unlock()
	return s
}

// WithLogger sets the logger used by the server and its middleware.
// It rebuilds the engine, so call it before serving.
func (s *Server) WithLogger(logger log.Interface) *Server {
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	bodyLimit := s.bodyLimit
	if bodyLimit <= 0 {
		bodyLimit = config.Default().Server.MaxBodyBytes
	}

	engine := gin.New()
	_ = engine.SetTrustedProxies(trustedProxies)
	engine.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(s.logger),
		BodyLimitMiddleware(bodyLimit),
	)

	engine.POST(TranslatePath, s.handleTranslate)
	engine.GET(LanguagesPath, s.handleLanguages)
	engine.GET(HealthPath, s.handleHealth)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	})
	return engine
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Provider returns the current upstream provider.
func (s *Server) Provider() upstream.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

// ============================================================================
// RELOAD
// ============================================================================

// Reload applies limits and the upstream selection from cfg. A provider
// that cannot be built leaves the previous one in place.
func (s *Server) Reload(cfg *config.Config) error {
	provider, err := upstream.New(cfg.Upstream, cfg.UpstreamAPIKey())
	if err != nil {
		s.logger.WithError(err).Warn("config reload: keeping previous provider")
		return err
	}

	s.mu.Lock()
	if cfg.Client.MaxInputLength > 0 {
		s.maxInput = cfg.Client.MaxInputLength
	}
	s.maxTokens = cfg.Upstream.MaxTokens
	s.temperature = cfg.Upstream.Temperature
	s.provider = provider
	s.mu.Unlock()

	s.logger.WithField("provider", provider.Name()).Info("config reloaded")
	return nil
}

// WatchConfig reloads the server whenever the file at path changes.
func (s *Server) WatchConfig(path string) (*config.Watcher, error) {
	return config.Watch(path, func(cfg *config.Config, err error) {
		if err != nil {
			s.logger.WithError(err).Warn("config reload failed")
			return
		}
		_ = s.Reload(cfg)
	})
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleTranslate(c *gin.Context) {
	var req translate.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: msgTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgBadRequest})
		return
	}

	s.mu.RLock()
	provider := s.provider
	maxInput := s.maxInput
	maxTokens := s.maxTokens
	temperature := s.temperature
	s.mu.RUnlock()

	req = req.Normalized()
	if !req.Option.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgBadMode, Reason: string(req.Option)})
		return
	}
	if err := req.Validate(maxInput); err != nil {
		resp := ErrorResponse{Error: err.Error()}
		var ve *translate.ValidationError
		if errors.As(err, &ve) {
			resp.Error = ve.UserMessage()
			resp.Reason = ve.Reason.String()
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	if provider == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: msgNoProvider})
		return
	}

	prompt := upstream.BuildPrompt(req).WithLimits(maxTokens, temperature)
	logger := s.logger.WithFields(log.Fields{
		"request_id": RequestID(c),
		"provider":   provider.Name(),
		"option":     req.Option,
		"chars":      translate.InputLength(req.InputCode),
	})

	started := false
	err := provider.Stream(c.Request.Context(), prompt, func(delta string) error {
		if !started {
			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
			started = true
		}
		if _, err := c.Writer.WriteString(delta); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})

	switch {
	case err == nil && !started:
		logger.Warn("upstream returned no text")
		c.Status(http.StatusOK)
	case err == nil:
		logger.Debug("translation streamed")
	case !started:
		_ = c.Error(err)
		logger.WithError(err).Error("upstream failed before first byte")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: msgUpstream})
	default:
		// Headers are gone. Dropping the connection leaves the body
		// without its terminating chunk, so the client sees a truncated
		// stream rather than a complete one.
		_ = c.Error(err)
		logger.WithError(err).Error("upstream failed mid-stream")
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleLanguages(c *gin.Context) {
	s.mu.RLock()
	maxInput := s.maxInput
	s.mu.RUnlock()

	modes := make([]ModeInfo, 0, len(translate.Modes))
	for _, m := range translate.Modes {
		modes = append(modes, ModeInfo{Value: m.String(), Label: m.Label()})
	}

	c.JSON(http.StatusOK, LanguagesResponse{
		NaturalLanguages:       translate.NaturalLanguages,
		DefaultNaturalLanguage: translate.DefaultNaturalLanguage,
		ProgrammingLanguages:   translate.ProgrammingLanguages,
		NaturalLanguageLabel:   translate.NaturalLanguageLabel,
		Modes:                  modes,
		MaxInputLength:         maxInput,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	health := HealthResponse{
		Status:   "ok",
		Version:  Version,
		Provider: "none",
		Uptime:   s.now().Sub(s.started).Seconds(),
	}
	if p := s.Provider(); p != nil {
		health.Provider = p.Name()
	} else {
		health.Status = "degraded"
	}
	c.JSON(http.StatusOK, health)
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Run serves until ctx is canceled, then shuts down gracefully.
// No write timeout is set because translations stream for as long as the
// provider keeps producing text.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{
		"addr":     s.addr,
		"version":  Version,
		"provider": providerName(s.Provider()),
	}).Info("server starting")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func providerName(p upstream.Provider) string {
	if p == nil {
		return "none"
	}
	return p.Name()
}
