// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/veritas-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete veritas configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API configuration
	API APIConfig `toml:"api" json:"api"`

	// Realtime channel configuration
	Realtime RealtimeConfig `toml:"realtime" json:"realtime"`

	// Chat configuration
	Chat ChatConfig `toml:"chat" json:"chat"`

	// News feed configuration
	News NewsConfig `toml:"news" json:"news"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains backend REST settings.
type APIConfig struct {
	// BaseURL is the backend API root, e.g. "https://api.veritas.example".
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the attempt count for transient failures.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
}

// RealtimeConfig contains the pub/sub channel settings.
type RealtimeConfig struct {
	// URL is the realtime service endpoint.
	URL string `toml:"url" json:"url"`
	// Key is the public (anon) key sent on the socket handshake.
	Key string `toml:"key" json:"key"`
	// HeartbeatSecs is the socket keepalive interval in seconds.
	HeartbeatSecs int `toml:"heartbeat_secs" json:"heartbeat_secs"`
}

// ChatConfig contains conversation settings.
type ChatConfig struct {
	// DefaultMode is the startup chat mode: "fact-check", "summarize",
	// or "general".
	DefaultMode string `toml:"default_mode" json:"default_mode"`
	// ContextTurns is how many finalized turns accompany a send.
	ContextTurns int `toml:"context_turns" json:"context_turns"`
	// StreamIdleTimeoutSecs discards a stalled streaming reply after this
	// many seconds without a chunk. 0 disables the sweep.
	StreamIdleTimeoutSecs int `toml:"stream_idle_timeout_secs" json:"stream_idle_timeout_secs"`
}

// NewsConfig contains feed settings.
type NewsConfig struct {
	// PageSize is the number of articles per feed page.
	PageSize int `toml:"page_size" json:"page_size"`
	// DefaultCategory preselects a feed category ("" = all).
	DefaultCategory string `toml:"default_category" json:"default_category"`
	// CacheTTLHours is the article cache time-to-live in hours.
	CacheTTLHours int `toml:"cache_ttl_hours" json:"cache_ttl_hours"`
	// CacheEnabled controls the local article cache.
	CacheEnabled bool `toml:"cache_enabled" json:"cache_enabled"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact transcript layout.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowTimestamps displays per-turn timestamps in the transcript.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
			MaxRetries:  3,
		},
		Realtime: RealtimeConfig{
			URL:           "ws://localhost:4000/socket",
			HeartbeatSecs: 30,
		},
		Chat: ChatConfig{
			DefaultMode:           "fact-check",
			ContextTurns:          5,
			StreamIdleTimeoutSecs: 120,
		},
		News: NewsConfig{
			PageSize:      20,
			CacheTTLHours: 6,
			CacheEnabled:  true,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the veritas configuration directory (~/.veritas).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".veritas"), nil
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

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration, trying TOML first, then JSON, then
// defaults. Env overrides apply last, and the result is validated.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, err
			}
			cfg.ApplyEnvOverrides()
			return cfg, cfg.Validate()
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, err
			}
			cfg.ApplyEnvOverrides()
			return cfg, cfg.Validate()
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg, cfg.Validate()
}

// LoadTOML merges a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadJSON merges a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadFromPath loads a config from an explicit path, picking the format
// from the extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	return cfg, cfg.Validate()
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default TOML path atomically.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML to path with restrictive permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, []byte(buf.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validModes are the accepted chat modes.
var validModes = map[string]bool{
	"fact-check": true,
	"summarize":  true,
	"general":    true,
}

// validThemes are the accepted UI themes.
var validThemes = map[string]bool{
	"dark":  true,
	"light": true,
	"auto":  true,
}

// Validate checks field constraints and normalizes bounded values.
func (c *Config) Validate() error {
	if c.API.BaseURL != "" {
		if err := validateURL(c.API.BaseURL, "http", "https"); err != nil {
			return ValidationError{Field: "api.base_url", Message: err.Error()}
		}
	}
	if c.Realtime.URL != "" {
		if err := validateURL(c.Realtime.URL, "ws", "wss", "http", "https"); err != nil {
			return ValidationError{Field: "realtime.url", Message: err.Error()}
		}
	}
	if !validModes[c.Chat.DefaultMode] {
		return ValidationError{Field: "chat.default_mode",
			Message: fmt.Sprintf("unknown mode %q", c.Chat.DefaultMode)}
	}
	if !validThemes[c.UI.Theme] {
		return ValidationError{Field: "ui.theme",
			Message: fmt.Sprintf("unknown theme %q", c.UI.Theme)}
	}

	// Bounded values clamp rather than fail.
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = 30
	}
	if c.API.MaxRetries <= 0 {
		c.API.MaxRetries = 3
	}
	if c.Chat.ContextTurns <= 0 {
		c.Chat.ContextTurns = 5
	}
	if c.Chat.StreamIdleTimeoutSecs < 0 {
		c.Chat.StreamIdleTimeoutSecs = 120
	}
	if c.Realtime.HeartbeatSecs <= 0 {
		c.Realtime.HeartbeatSecs = 30
	}
	if c.News.PageSize <= 0 || c.News.PageSize > 100 {
		c.News.PageSize = 20
	}
	return nil
}

func validateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return fmt.Errorf("missing host")
			}
			return nil
		}
	}
	return fmt.Errorf("scheme must be one of %s", strings.Join(schemes, ", "))
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - VERITAS_API_URL: overrides api.base_url
//   - VERITAS_REALTIME_URL: overrides realtime.url
//   - VERITAS_REALTIME_KEY: overrides realtime.key
//   - VERITAS_MODE: overrides chat.default_mode
//   - VERITAS_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("VERITAS_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("VERITAS_REALTIME_URL"); v != "" {
		c.Realtime.URL = v
	}
	if v := os.Getenv("VERITAS_REALTIME_KEY"); v != "" {
		c.Realtime.Key = v
	}
	if v := os.Getenv("VERITAS_MODE"); v != "" {
		c.Chat.DefaultMode = v
	}
	if v := os.Getenv("VERITAS_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults so the UI can still start and show
// the problem.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	cfg, err := Load()
	if err != nil {
		cfg = Default()
	}
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
	return cfg
}

// ReloadGlobal re-reads the configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
	return nil
}

// SetGlobal replaces the global configuration (tests, explicit --config).
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}
