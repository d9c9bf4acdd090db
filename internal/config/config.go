// Package config provides configuration management for the Reply application.
// It handles application settings, environment variables, and default values.
// Settings are resolved as defaults, then <vault>/config.json, then environment
// variables (optionally seeded from <vault>/.env).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/VarunSharma3520/Reply/internal/style"
)

// UI color constants for the TUI (Terminal User Interface)
const (
	// MainColorForeground is the primary text color (ANSI color code)
	MainColorForeground = "205"
	// MainColorBackground is the primary background color (ANSI color code)
	MainColorBackground = "16"
	// MainColorBackgroundMute is a muted background color (ANSI color code)
	MainColorBackgroundMute = "241"
	// ErrorColor is used for error lines under the main view
	ErrorColor = "196"
)

// Default configuration values
const (
	// Default directory name for storing application data
	defaultVaultDir = ".reply"
	// Default URL for the Ollama API server
	defaultAPIURL = "http://localhost:11434"
	// Default model to use for replies
	defaultModel = "gemma3:1b"
	// Default model used to embed stored replies
	defaultEmbedModel = "mxbai-embed-large"
	// Default temperature for replies
	defaultTemp = 0.7
	// Default Qdrant collection for reply history
	defaultCollection = "reply_history"

	configFile = "config.json"
	envFile    = ".env"
)

// Config represents the application's configuration that can be saved and loaded
type Config struct {
	ModelName   string  `json:"model_name"`
	Temperature float64 `json:"temperature"`
	APIURL      string  `json:"api_url,omitempty"`
	Style       string  `json:"style,omitempty"`
	EmbedModel  string  `json:"embed_model,omitempty"`
	QdrantAddr  string  `json:"qdrant_addr,omitempty"`
	Collection  string  `json:"collection,omitempty"`
	// Disabled turns generation off without removing the rest of the settings.
	Disabled bool `json:"disabled,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		ModelName:   defaultModel,
		Temperature: defaultTemp,
		APIURL:      defaultAPIURL,
		Style:       style.Default.Label(),
		EmbedModel:  defaultEmbedModel,
		Collection:  defaultCollection,
	}
}

// DefaultStyle returns the configured style, falling back to style.Default
// when the stored value is unknown.
func (c *Config) DefaultStyle() style.Style {
	s, err := style.Parse(c.Style)
	if err != nil {
		return style.Default
	}
	return s
}

// HistoryIndexEnabled reports whether replies should be indexed in Qdrant.
func (c *Config) HistoryIndexEnabled() bool {
	return c.QdrantAddr != ""
}

// getDefaultVaultPath returns the default path for the vault directory.
// It uses the user's home directory if available, otherwise falls back to the current directory.
func getDefaultVaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./" + defaultVaultDir
	}
	return filepath.Join(home, defaultVaultDir)
}

// VaultPath returns the path to the application's data directory.
// It checks the REPLY_VAULT environment variable first, then falls back to the default.
func VaultPath() string {
	if v := os.Getenv("REPLY_VAULT"); v != "" {
		return v
	}
	return getDefaultVaultPath()
}

// ConfigPath returns the location of config.json inside the vault.
func ConfigPath() string {
	return filepath.Join(VaultPath(), configFile)
}

// LogPath returns the location of the application log inside the vault.
func LogPath() string {
	return filepath.Join(VaultPath(), "reply.log")
}

// LoadEnv loads <vault>/.env into the process environment. Variables that are
// already set win over the file. A missing file is not an error.
func LoadEnv() error {
	path := filepath.Join(VaultPath(), envFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads config.json from the vault (if present) on top of the defaults
// and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// LoadFile reads config.json without environment overrides. Use it when the
// result is going to be saved back.
func LoadFile() (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Handle missing values in older config files
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = defaultEmbedModel
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultCollection
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OLLAMA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.ModelName = v
	}
	if v := os.Getenv("REPLY_STYLE"); v != "" {
		cfg.Style = v
	}
	if v := os.Getenv("QDRANT_ADDR"); v != "" {
		cfg.QdrantAddr = v
	}
}

// Save writes the configuration to config.json in the vault directory.
func Save(cfg *Config) error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Keys lists the settings accepted by Set.
func Keys() []string {
	return []string{"model", "temperature", "api_url", "style", "embed_model", "qdrant_addr", "collection", "disabled"}
}

// Set updates a single setting by key, validating the value.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "model":
		if value == "" {
			return fmt.Errorf("model name cannot be empty")
		}
		c.ModelName = value
	case "temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", value, err)
		}
		if t < 0 || t > 2 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %.2f", t)
		}
		c.Temperature = t
	case "api_url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("api_url must start with http:// or https://")
		}
		c.APIURL = strings.TrimRight(value, "/")
	case "style":
		s, err := style.Parse(value)
		if err != nil {
			return err
		}
		c.Style = s.Label()
	case "embed_model":
		c.EmbedModel = value
	case "qdrant_addr":
		c.QdrantAddr = value
	case "collection":
		if value == "" {
			return fmt.Errorf("collection cannot be empty")
		}
		c.Collection = value
	case "disabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q: %w", value, err)
		}
		c.Disabled = b
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
