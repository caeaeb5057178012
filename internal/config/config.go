// ABOUTME: gymlog configuration management with backend selection.
// ABOUTME: Handles settings, env overrides, rest timer preferences and the storage factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/gymlog/internal/charm"
	"github.com/harperreed/gymlog/internal/storage"
	"github.com/harperreed/gymlog/internal/timer"
)

// Config stores gymlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts gymlog.db here. Supports ~ expansion for home directory.
	// Defaults to ~/.local/share/gymlog.
	DataDir string `json:"data_dir,omitempty"`

	// CharmHost is the Charm server used by the charm backend.
	CharmHost string `json:"charm_host,omitempty"`

	// RestSeconds is the default rest period. Zero means 120.
	RestSeconds int `json:"rest_seconds,omitempty"`

	// TimerVariant is "full" (default) or "simple".
	TimerVariant string `json:"timer_variant,omitempty"`

	// Sound enables the end-of-rest beep. Nil means enabled.
	Sound *bool `json:"sound,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// RestDuration returns the default rest period.
func (c *Config) RestDuration() time.Duration {
	if c.RestSeconds <= 0 {
		return timer.DefaultDuration
	}
	return time.Duration(c.RestSeconds) * time.Second
}

// Variant returns the configured rest timer variant.
func (c *Config) Variant() timer.Variant {
	return timer.ParseVariant(c.TimerVariant)
}

// SoundEnabled reports whether the rest timer should beep.
func (c *Config) SoundEnabled() bool {
	return c.Sound == nil || *c.Sound
}

// StateDir returns where the in-progress workout file lives.
func (c *Config) StateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, _ := os.UserHomeDir()
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "gymlog")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(logger *log.Logger) (storage.Repository, error) {
	switch backend := c.GetBackend(); backend {
	case "sqlite":
		return storage.Open(filepath.Join(c.GetDataDir(), "gymlog.db"))
	case "charm":
		return charm.InitClient(c.CharmHost, logger)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "gymlog", "config.json")
}

// Load reads config from path, or the default location when path is empty.
// A missing file yields defaults. Environment overrides apply last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GYMLOG_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("GYMLOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
}

func (c *Config) validate() error {
	switch c.GetBackend() {
	case "sqlite", "charm":
	default:
		return fmt.Errorf("backend must be sqlite or charm, got %q", c.Backend)
	}
	if c.RestSeconds < 0 {
		return fmt.Errorf("rest_seconds must not be negative")
	}
	switch c.TimerVariant {
	case "", "full", "simple":
	default:
		return fmt.Errorf("timer_variant must be full or simple, got %q", c.TimerVariant)
	}
	return nil
}

// Save writes config to path, or the default location when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = GetConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
