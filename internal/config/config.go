// Package config holds the YAML-backed application configuration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ICSSourceConfig describes a single directly subscribed ICS feed. Each feed
// acts as its own planning on the rendered view.
type ICSSourceConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID identifies the source internally; it doubles as the planning id.
	ID string `yaml:"id" json:"id"`
	// Name is the planning display name.
	Name string `yaml:"name" json:"name"`
	// Color is the planning display color as #RRGGBB. Empty or malformed
	// values fall back to the default planning color at render time.
	Color string `yaml:"color" json:"color"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA display timezone for all rendered views
	// (e.g. "Europe/Paris").
	Timezone string `yaml:"timezone" json:"timezone"`

	// BackendURL is the base URL of the CalenDO backend API.
	BackendURL string `yaml:"backend_url" json:"backend_url"`

	// RefreshCron is a cron-style schedule (e.g. "*/15 * * * *") for
	// pre-rendering today's view to the preview file.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Width and Height are the default canvas dimensions in pixels.
	// Height is a minimum; the canvas grows to fit the time window.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// CacheDir holds the ICS fetch cache and the rendered preview file.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// ICS is the list of directly subscribed ICS sources.
	ICS []ICSSourceConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8090",
		Timezone:    "Europe/Paris",
		BackendURL:  "http://localhost:8080",
		RefreshCron: "*/15 * * * *",
		Width:       800,
		Height:      1000,
		CacheDir:    "./cache",
		ICS:         []ICSSourceConfig{},
		BasicAuth:   nil,
	}
}

// Normalize fills missing or zero values with defaults so partially filled
// configs from older versions still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8090"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Paris"
	}
	if c.BackendURL == "" {
		c.BackendURL = "http://localhost:8080"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 1000
	}
	if c.CacheDir == "" {
		c.CacheDir = "./cache"
	}
	if c.ICS == nil {
		c.ICS = []ICSSourceConfig{}
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (creating
// the parent directory) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".dayview-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
