// Package config loads pomgrid settings from TOML files.
//
// Settings are looked up in order:
//  1. an explicit --config path
//  2. pomgrid.toml in the working directory
//  3. $XDG_CONFIG_HOME/pomgrid/config.toml (or ~/.config/pomgrid/config.toml)
//
// Every field has a default, so a missing config file is not an error.
// Command-line flags take precedence over config values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in the working directory.
const FileName = "pomgrid.toml"

// Duration wraps time.Duration so TTLs can be written as "24h" in TOML.
type Duration time.Duration

// UnmarshalText parses a Go duration string such as "90m" or "24h".
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the underlying time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all pomgrid settings.
type Config struct {
	// Scan defaults, overridden by analyze flags when set.
	Pattern   string   `toml:"pattern"`
	Excludes  []string `toml:"excludes"`
	OutputDir string   `toml:"output_dir"`
	Output    string   `toml:"output"`

	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig controls descriptor caching.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	TTL     Duration `toml:"ttl"`
	// Redis is a host:port address. Empty selects the local file cache.
	Redis string `toml:"redis"`
}

// StoreConfig controls snapshot persistence.
type StoreConfig struct {
	// URI is a MongoDB connection string. Empty selects the file store.
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServeConfig controls the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Default returns a config with every field set to its default.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled: true,
			TTL:     Duration(24 * time.Hour),
		},
		Store: StoreConfig{
			Database: "pomgrid",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// Load reads configuration from path, or from the standard locations
// when path is empty. A missing file in the standard locations yields
// the defaults; an explicit path that cannot be read is an error.
// Returns the config and the path it was loaded from ("" when none).
func Load(path string) (*Config, string, error) {
	cfg := Default()

	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, path, nil
}

// findConfig returns the first standard config path that exists.
func findConfig() string {
	candidates := []string{FileName}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		candidates = append(candidates, filepath.Join(configHome, "pomgrid", "config.toml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "pomgrid", "config.toml"))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
