package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

// Backend names accepted in the config file.
const (
	BackendJSON   = "json"
	BackendKV     = "kv"
	BackendSQLite = "sqlite"
)

const (
	appDir     = "shelf"
	configFile = "config.json"
	jsonFile   = "bookmarks.json"
	sqliteFile = "bookmarks.db"
	kvDir      = "kv"

	// ConfigEnv overrides the config file location.
	ConfigEnv = "SHELF_CONFIG"
)

const defaultIconTimeout = 3 * time.Second

// Config holds application configuration.
type Config struct {
	// Backend is one of json, kv or sqlite. Empty picks SQLite when a
	// database already exists and JSON otherwise.
	Backend string `json:"backend"`
	// DataDir holds the bookmark document. Defaults to the config directory.
	DataDir            string   `json:"dataDir,omitempty"`
	IconFetch          bool     `json:"iconFetch"`
	IconTimeout        string   `json:"iconTimeout"`
	CullExcludeDomains []string `json:"cullExcludeDomains"`
	LogFile            string   `json:"logFile,omitempty"`

	dir string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		IconFetch:          true,
		IconTimeout:        defaultIconTimeout.String(),
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
	}
}

// LoadConfig reads config from the file at path. Comments and trailing
// commas are accepted. Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	config.dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Non-fatal: defaults still apply when the file can't be written.
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: invalid JSONC: %w", path, err)
	}
	// Fields missing from the file keep their defaults.
	if err := json.Unmarshal(standardized, &config); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if config.IconTimeout == "" {
		config.IconTimeout = defaultIconTimeout.String()
	}
	if _, err := time.ParseDuration(config.IconTimeout); err != nil {
		return nil, fmt.Errorf("config %s: iconTimeout: %w", path, err)
	}
	if config.CullExcludeDomains == nil {
		config.CullExcludeDomains = []string{}
	}
	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IconTimeoutDuration returns the per-source icon fetch timeout.
func (c *Config) IconTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.IconTimeout)
	if err != nil || d <= 0 {
		return defaultIconTimeout
	}
	return d
}

// ResolveDataDir returns DataDir, falling back to the directory of the
// config file and then to the default config directory.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return expandHome(c.DataDir)
	}
	if c.dir != "" {
		return c.dir, nil
	}
	return DefaultConfigDir()
}

// DefaultConfigDir returns ~/.config/shelf.
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appDir), nil
}

// DefaultConfigFilePath returns $SHELF_CONFIG or ~/.config/shelf/config.json.
func DefaultConfigFilePath() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !hasHomePrefix(p) {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, p[1:]), nil
}

func hasHomePrefix(p string) bool {
	return len(p) >= 2 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator)
}
