// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/apex/log"

	"github.com/jeranaias/coderhelper/internal/translate"
	"github.com/jeranaias/coderhelper/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete coderhelper configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Client is the transport side used by the TUI and `translate`.
	Client ClientConfig `toml:"client" json:"client"`

	// UI holds initial workspace selections.
	UI UIConfig `toml:"ui" json:"ui"`

	// Server configures `coderhelper serve`.
	Server ServerConfig `toml:"server" json:"server"`

	// Upstream selects the AI completion service behind the server.
	Upstream UpstreamConfig `toml:"upstream" json:"upstream"`

	Log LogConfig `toml:"log" json:"log"`
}

// ClientConfig locates the translation endpoint.
type ClientConfig struct {
	BaseURL        string `toml:"base_url" json:"base_url"`
	Endpoint       string `toml:"endpoint" json:"endpoint"`
	MaxInputLength int    `toml:"max_input_length" json:"max_input_length"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme           string `toml:"theme" json:"theme"`
	InputLanguage   string `toml:"input_language" json:"input_language"`
	OutputLanguage  string `toml:"output_language" json:"output_language"`
	NaturalLanguage string `toml:"natural_language" json:"natural_language"`
	Mode            string `toml:"mode" json:"mode"`
	// CopyOnComplete copies finished output to the clipboard
	CopyOnComplete bool `toml:"copy_on_complete" json:"copy_on_complete"`
	// OSC52 allows the terminal escape fallback when no native clipboard exists
	OSC52 bool `toml:"osc52" json:"osc52"`
}

// ServerConfig configures the translation backend.
type ServerConfig struct {
	Addr         string `toml:"addr" json:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes" json:"max_body_bytes"`
	// Debug runs gin in debug mode
	Debug bool `toml:"debug" json:"debug"`
}

// UpstreamConfig selects and configures the AI provider.
type UpstreamConfig struct {
	// Provider is "openai", "anthropic", "gemini" or "mock"
	Provider    string  `toml:"provider" json:"provider"`
	Model       string  `toml:"model" json:"model"`
	APIKey      string  `toml:"api_key" json:"api_key"`
	BaseURL     string  `toml:"base_url" json:"base_url"`
	MaxTokens   int     `toml:"max_tokens" json:"max_tokens"`
	Temperature float64 `toml:"temperature" json:"temperature"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error, fatal
	Level string `toml:"level" json:"level"`
	// File receives TUI logs; empty discards them while the TUI runs
	File string `toml:"file" json:"file"`
}

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	// ProviderMock echoes the prompt back; useful offline and in demos.
	ProviderMock = "mock"
)

// DefaultModels maps each provider to the model used when none is configured.
var DefaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.0-flash",
	ProviderMock:      "echo",
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with default values.
func Default() *Config {
	opts := translate.DefaultOptions()
	return &Config{
		Version: "1.0.0",
		Client: ClientConfig{
			BaseURL:        "http://localhost:3000",
			Endpoint:       "/api/translate",
			MaxInputLength: translate.MaxInputLength,
		},
		UI: UIConfig{
			Theme:           "auto",
			InputLanguage:   opts.InputLanguage,
			OutputLanguage:  opts.OutputLanguage,
			NaturalLanguage: opts.OutputNaturalLanguage,
			Mode:            string(opts.Mode),
			CopyOnComplete:  true,
			OSC52:           true,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:3000",
			MaxBodyBytes: 1 << 20,
		},
		Upstream: UpstreamConfig{
			Provider:    ProviderOpenAI,
			MaxTokens:   4096,
			Temperature: 0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the configuration directory. CODERHELPER_CONFIG_DIR
// overrides the default ~/.coderhelper.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CODERHELPER_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".coderhelper"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ActivePath returns the config file Load would read, or the TOML path if
// neither file exists.
func ActivePath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// ensureSecurePermissions tightens config files to 0600; they may hold API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the TOML file, then the JSON file, then falls back to
// defaults. Environment overrides are applied last. When a file exists but
// cannot be parsed, defaults are returned together with the parse error.
func Load() (*Config, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		if loadErr == nil {
			loadErr = err
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		log.WithField("path", path).WithError(err).Warn("could not ensure secure permissions")
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON decodes a JSON file on top of cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		log.WithField("path", path).WithError(err).Warn("could not ensure secure permissions")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file with env overrides
// and validation. Files ending in .json are read as JSON, anything else as
// TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in values a file left empty.
func fillDefaults(cfg *Config) error {
	d := Default()

	if cfg.Version == "" {
		cfg.Version = d.Version
	}

	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = d.Client.BaseURL
	}
	if cfg.Client.Endpoint == "" {
		cfg.Client.Endpoint = d.Client.Endpoint
	}
	if cfg.Client.MaxInputLength == 0 {
		cfg.Client.MaxInputLength = d.Client.MaxInputLength
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = d.UI.Theme
	}
	if cfg.UI.InputLanguage == "" {
		cfg.UI.InputLanguage = d.UI.InputLanguage
	}
	if cfg.UI.OutputLanguage == "" {
		cfg.UI.OutputLanguage = d.UI.OutputLanguage
	}
	if cfg.UI.NaturalLanguage == "" {
		cfg.UI.NaturalLanguage = d.UI.NaturalLanguage
	}
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = d.UI.Mode
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = d.Server.Addr
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = d.Server.MaxBodyBytes
	}

	if cfg.Upstream.Provider == "" {
		cfg.Upstream.Provider = d.Upstream.Provider
	}
	cfg.Upstream.Provider = strings.ToLower(cfg.Upstream.Provider)
	if cfg.Upstream.MaxTokens == 0 {
		cfg.Upstream.MaxTokens = d.Upstream.MaxTokens
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# coderhelper configuration file\n")
	sb.WriteString("# Environment variables (CODERHELPER_*) override these values.\n\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg to path as indented JSON with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// TranslateOptions returns the initial workspace options.
func (c *Config) TranslateOptions() translate.Options {
	mode, err := translate.ParseMode(c.UI.Mode)
	if err != nil {
		mode = translate.DefaultMode
	}
	return translate.Options{
		InputLanguage:         c.UI.InputLanguage,
		OutputLanguage:        c.UI.OutputLanguage,
		Mode:                  mode,
		OutputNaturalLanguage: c.UI.NaturalLanguage,
	}
}

// ResolvedModel returns the configured model or the provider's default.
// The default is resolved late so that a provider chosen through the
// environment gets its own model.
func (u UpstreamConfig) ResolvedModel() string {
	if u.Model != "" {
		return u.Model
	}
	return DefaultModels[u.Provider]
}

// providerKeyEnv lists the conventional API key variables per provider.
var providerKeyEnv = map[string][]string{
	ProviderOpenAI:    {"OPENAI_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// UpstreamAPIKey returns the configured key or the provider's conventional
// environment variable.
func (c *Config) UpstreamAPIKey() string {
	if c.Upstream.APIKey != "" {
		return c.Upstream.APIKey
	}
	for _, name := range providerKeyEnv[c.Upstream.Provider] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Upstream.APIKey != "" {
		safe.Upstream.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration, loading it on first access.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.WithError(err).Warn("using default configuration")
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal replaces the global configuration.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
