// Package config handles configuration for transcribechat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/diogo/transcribechat/internal/models"
)

// Environment variables that override the config file
const (
	EnvServerURL = "TRANSCRIBECHAT_SERVER_URL"
	EnvLocale    = "TRANSCRIBECHAT_LOCALE"
	EnvLogFile   = "TRANSCRIBECHAT_LOG_FILE"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" yaml:"style"`                           // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" yaml:"enable_emoji"`             // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines" yaml:"preserve_newlines"`   // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap" yaml:"table_wrap"`                 // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links" yaml:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// ServerURL is the base URL of the transcription server (/transcribe and /stop live under it).
	ServerURL string `json:"server_url" yaml:"server_url"`
	// Locale selects the bubble texts ("pt" or "en").
	Locale string `json:"locale" yaml:"locale"`
	// TypewriterDelayMS is the delay between two revealed words.
	TypewriterDelayMS int `json:"typewriter_delay_ms" yaml:"typewriter_delay_ms"`
	// RequestTimeoutSeconds bounds a single /transcribe request.
	RequestTimeoutSeconds int `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	// Verbose enables debug logging.
	Verbose         bool           `json:"verbose" yaml:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard" yaml:"copy_to_clipboard"`
	LogFile         string         `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	TUITheme        string         `json:"tui_theme,omitempty" yaml:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty" yaml:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      false,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:             models.DefaultServerURL,
		Locale:                models.DefaultLocale,
		TypewriterDelayMS:     int(models.TypewriterDelay / time.Millisecond),
		RequestTimeoutSeconds: int(models.DefaultRequestTimeout / time.Second),
		Verbose:               false,
		CopyToClipboard:       false,
		TUITheme:              "tokyonight",
		Markdown:              DefaultMarkdownConfig(),
	}
}

// TypewriterDelay returns the configured word delay
func (c Config) TypewriterDelay() time.Duration {
	if c.TypewriterDelayMS <= 0 {
		return models.TypewriterDelay
	}
	return time.Duration(c.TypewriterDelayMS) * time.Millisecond
}

// RequestTimeout returns the configured request timeout
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return models.DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Strings returns the bubble texts for the configured locale
func (c Config) Strings() models.Strings {
	return models.StringsFor(c.Locale)
}

// Validate checks the values a user can set by hand
func (c Config) Validate() error {
	if err := ValidateServerURL(c.ServerURL); err != nil {
		return err
	}
	if !models.IsSupportedLocale(c.Locale) {
		return fmt.Errorf("unsupported locale %q (available: %s)", c.Locale, strings.Join(models.AvailableLocales(), ", "))
	}
	if c.TypewriterDelayMS < 0 {
		return fmt.Errorf("typewriter_delay_ms must not be negative")
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds must not be negative")
	}
	return nil
}

// ValidateServerURL checks that raw is an absolute http(s) URL
func ValidateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server URL %q: missing host", raw)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".transcribechat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path, honoring the config override
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "transcribechat.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	cfg, err := LoadConfigFile(configPath)
	if err != nil {
		return cfg, err
	}
	return ApplyEnv(cfg), nil
}

// LoadConfigFile reads the config file at path on top of the defaults.
// A missing file yields the defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFiles loads variables from .env files into the process environment.
// Missing files are not an error; already-set variables are kept.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat env file %s: %w", p, err)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with values from the environment
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvServerURL)); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLocale)); v != "" {
		cfg.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.LogFile = v
	}
	return cfg
}

// Keys returns the config keys that can be changed with Set
func Keys() []string {
	return []string{
		"server_url",
		"locale",
		"typewriter_delay_ms",
		"request_timeout_seconds",
		"verbose",
		"copy_to_clipboard",
		"log_file",
		"tui_theme",
		"markdown.style",
	}
}

// Set assigns a single config value from its string form
func (c *Config) Set(key, value string) error {
	switch key {
	case "server_url":
		if err := ValidateServerURL(value); err != nil {
			return err
		}
		c.ServerURL = strings.TrimRight(value, "/")
	case "locale":
		if !models.IsSupportedLocale(value) {
			return fmt.Errorf("unsupported locale %q (available: %s)", value, strings.Join(models.AvailableLocales(), ", "))
		}
		c.Locale = value
	case "typewriter_delay_ms":
		return setNonNegativeInt(&c.TypewriterDelayMS, key, value)
	case "request_timeout_seconds":
		return setNonNegativeInt(&c.RequestTimeoutSeconds, key, value)
	case "verbose":
		return setBool(&c.Verbose, key, value)
	case "copy_to_clipboard":
		return setBool(&c.CopyToClipboard, key, value)
	case "log_file":
		c.LogFile = value
	case "tui_theme":
		c.TUITheme = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func setNonNegativeInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if n < 0 {
		return fmt.Errorf("%s must not be negative", key)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be true or false: %w", key, err)
	}
	*dst = b
	return nil
}
