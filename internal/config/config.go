// ABOUTME: Configuration management with backend selection
// ABOUTME: Loads JSON settings, applies environment overrides, builds collaborators

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"

	"github.com/harper/trackedit/internal/charm"
	"github.com/harper/trackedit/internal/elevation"
	"github.com/harper/trackedit/internal/storage"
)

// Backends.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// dbFilename is the SQLite database filename inside the data directory.
const dbFilename = "trackedit.db"

// Config stores trackedit configuration. Every field can be overridden by
// the environment variable named in its env tag.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty" env:"TRACKEDIT_BACKEND"`

	// DataDir is the root directory for the SQLite database.
	// Supports ~ expansion. Defaults to ~/.local/share/trackedit.
	DataDir string `json:"data_dir,omitempty" env:"TRACKEDIT_DATA_DIR"`

	// ElevationURL is the elevation lookup endpoint. Empty disables lookups.
	ElevationURL string `json:"elevation_url,omitempty" env:"TRACKEDIT_ELEVATION_URL"`

	// ElevationKey is sent as the key parameter of elevation lookups.
	ElevationKey string `json:"elevation_key,omitempty" env:"TRACKEDIT_ELEVATION_KEY"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" env:"TRACKEDIT_LOG_LEVEL"`

	// CharmHost is the Charm server used by the charm backend.
	CharmHost string `json:"charm_host,omitempty" env:"CHARM_HOST"`
}

// GetBackend returns the configured backend, defaulting to sqlite.
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel parses LogLevel, defaulting to info.
func (c *Config) GetLogLevel() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(c.LogLevel)
}

func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "trackedit")
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

// DBPath returns the SQLite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), dbFilename)
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	switch backend := c.GetBackend(); backend {
	case BackendSQLite:
		return storage.NewSQLiteDB(c.DBPath())
	case BackendCharm:
		cfg := charm.DefaultConfig()
		if c.CharmHost != "" {
			cfg.CharmHost = c.CharmHost
		}
		return charm.NewClient(cfg)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// ElevationLookup returns the configured elevation service, or nil when
// lookups are disabled.
func (c *Config) ElevationLookup(logger *log.Logger) elevation.Lookup {
	if c.ElevationURL == "" {
		return nil
	}
	return elevation.NewClient(c.ElevationURL, c.ElevationKey, logger)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "trackedit", "config.json")
}

// Load reads config from disk and applies environment overrides. A missing
// file is created with defaults.
func Load() (*Config, error) {
	cfg, err := readFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{Backend: BackendSQLite}
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(GetConfigPath(), data)
}

// atomicWrite replaces path through a temp file in the same directory.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // user config directory
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
