// Package config loads and saves viewer settings.
//
// Settings live at $XDG_CONFIG_HOME/spyglass/config.toml (falling back
// to ~/.config). A missing file yields defaults; unknown keys are
// ignored so older builds can read newer files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the persisted viewer settings.
type Config struct {
	// ServerURL is the base URL of the agent-session API.
	ServerURL string `toml:"server_url"`
	// Theme is the chroma style used for diff line highlighting.
	Theme string `toml:"theme"`
	// Layout is "horizontal" (list | timeline) or "vertical".
	Layout string `toml:"layout"`
	// PollSeconds is the session-list refresh interval.
	PollSeconds int `toml:"poll_seconds"`
	// DiffMaxLines caps either side of a diff; larger edits render as a
	// truncation notice instead of blocking the event loop.
	DiffMaxLines int `toml:"diff_max_lines"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ServerURL:    "http://localhost:8787",
		Theme:        "dracula",
		Layout:       "horizontal",
		PollSeconds:  10,
		DiffMaxLines: 5000,
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "spyglass", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config path: %w", err)
	}
	return filepath.Join(home, ".config", "spyglass", "config.toml"), nil
}

// Load reads the config at path, applying defaults for a missing file
// or missing keys, then validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfg.validate()
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// validate clamps out-of-range values back to defaults.
func (c *Config) validate() {
	def := Default()
	if c.ServerURL == "" {
		c.ServerURL = def.ServerURL
	}
	if c.Layout != "horizontal" && c.Layout != "vertical" {
		c.Layout = def.Layout
	}
	if c.PollSeconds < 1 {
		c.PollSeconds = def.PollSeconds
	}
	if c.DiffMaxLines < 1 {
		c.DiffMaxLines = def.DiffMaxLines
	}
}
