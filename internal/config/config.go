/*
Package config handles loading, saving, and overriding site-search configuration.

Configuration is stored in ~/.site-search.json. A path ending in .toml is read
and written as TOML instead. Values can be overridden with SITE_SEARCH_*
environment variables and filled from a Jekyll _config.yml.

Schema:
  {
    "site": {
      "title": "Blogi",
      "baseUrl": "/Blogi",
      "indexPath": "/search.json",
      "indexLocation": "_site/search.json",
      "sourceDir": ".",
      "permalink": "/:categories/:year/:month/:day/:title.html"
    },
    "server": {
      "addr": ":8080",
      "rateLimit": 10,
      "burst": 20
    },
    "history": {
      "disabled": false,
      "path": "~/.site-search/history.db",
      "retentionDays": 90
    },
    "settings": {
      "timeoutSeconds": 10,
      "disableSuggestions": false,
      "logLevel": "info",
      "logFormat": "json"
    }
  }
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults applied to missing values.
const (
	DefaultIndexPath     = "/search.json"
	DefaultAddr          = ":8080"
	DefaultRateLimit     = 10
	DefaultBurst         = 20
	DefaultRetentionDays = 90
	DefaultTimeout       = 10
	DefaultLogLevel      = "info"
)

// Config represents the root configuration structure.
type Config struct {
	Site     *SiteConfig    `json:"site" toml:"site"`
	Server   *ServerConfig  `json:"server,omitempty" toml:"server"`
	History  *HistoryConfig `json:"history,omitempty" toml:"history"`
	Settings *Settings      `json:"settings,omitempty" toml:"settings"`
}

// SiteConfig describes the site being searched.
type SiteConfig struct {
	// Title is shown on the search page.
	Title string `json:"title,omitempty" toml:"title,omitempty"`

	// BaseURL is the site's path prefix, e.g. "/Blogi".
	BaseURL string `json:"baseUrl,omitempty" toml:"baseUrl,omitempty"`

	// IndexPath is where the index is served below BaseURL.
	IndexPath string `json:"indexPath,omitempty" toml:"indexPath,omitempty"`

	// IndexLocation is the URL or file the index is loaded from.
	IndexLocation string `json:"indexLocation,omitempty" toml:"indexLocation,omitempty"`

	// SourceDir is the Jekyll source tree used by index build.
	SourceDir string `json:"sourceDir,omitempty" toml:"sourceDir,omitempty"`

	// Permalink is the post URL pattern.
	Permalink string `json:"permalink,omitempty" toml:"permalink,omitempty"`
}

// ServerConfig configures the web host.
type ServerConfig struct {
	Addr      string  `json:"addr,omitempty" toml:"addr,omitempty"`
	RateLimit float64 `json:"rateLimit,omitempty" toml:"rateLimit,omitempty"`
	Burst     int     `json:"burst,omitempty" toml:"burst,omitempty"`
}

// HistoryConfig configures search history storage.
type HistoryConfig struct {
	Disabled      bool   `json:"disabled,omitempty" toml:"disabled,omitempty"`
	Path          string `json:"path,omitempty" toml:"path,omitempty"`
	RetentionDays int    `json:"retentionDays,omitempty" toml:"retentionDays,omitempty"`
}

// Settings contains global configuration options.
type Settings struct {
	// TimeoutSeconds bounds the index fetch.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty" toml:"timeoutSeconds,omitempty"`

	// DisableSuggestions turns off "did you mean" on empty results.
	DisableSuggestions bool `json:"disableSuggestions,omitempty" toml:"disableSuggestions,omitempty"`

	LogLevel string `json:"logLevel,omitempty" toml:"logLevel,omitempty"`

	// LogFormat is "text" or "json". Empty picks json for servers and text
	// for interactive commands.
	LogFormat string `json:"logFormat,omitempty" toml:"logFormat,omitempty"`
}

// NewConfig creates a configuration with every default filled in.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills nil sections and zero values.
func (c *Config) applyDefaults() {
	if c.Site == nil {
		c.Site = &SiteConfig{}
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.History == nil {
		c.History = &HistoryConfig{}
	}
	if c.Settings == nil {
		c.Settings = &Settings{}
	}

	if c.Site.IndexPath == "" {
		c.Site.IndexPath = DefaultIndexPath
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = DefaultRateLimit
	}
	if c.Server.Burst == 0 {
		c.Server.Burst = DefaultBurst
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = DefaultRetentionDays
	}
	if c.Settings.TimeoutSeconds == 0 {
		c.Settings.TimeoutSeconds = DefaultTimeout
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = DefaultLogLevel
	}
}

// Timeout returns the index fetch timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Settings.TimeoutSeconds) * time.Second
}

// Retention returns how long search history is kept.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}

// GetDefaultConfigPath returns the path to ~/.site-search.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".site-search.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// isTOML reports whether path should be read and written as TOML.
func isTOML(path string) bool {
	return filepath.Ext(path) == ".toml"
}
