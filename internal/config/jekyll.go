package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// JekyllSite holds the _config.yml values site-search uses.
type JekyllSite struct {
	Title     string `yaml:"title"`
	URL       string `yaml:"url"`
	BaseURL   string `yaml:"baseurl"`
	Permalink string `yaml:"permalink"`
	Source    string `yaml:"source"`
}

// ReadJekyllSite reads dir/_config.yml.
func ReadJekyllSite(dir string) (*JekyllSite, error) {
	path := filepath.Join(dir, "_config.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jekyll config: %w", err)
	}

	var site JekyllSite
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("YAML parse error: %v", err),
			Err:     err,
		}
	}
	return &site, nil
}

// ApplyJekyll fills empty site values from a Jekyll config. Values already
// set in cfg win.
func ApplyJekyll(cfg *Config, site *JekyllSite, dir string) {
	cfg.applyDefaults()
	if site == nil {
		return
	}

	if cfg.Site.Title == "" {
		cfg.Site.Title = site.Title
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = strings.TrimSuffix(site.BaseURL, "/")
	}
	if cfg.Site.Permalink == "" {
		cfg.Site.Permalink = expandPermalinkStyle(site.Permalink)
	}
	if cfg.Site.SourceDir == "" {
		cfg.Site.SourceDir = dir
		if site.Source != "" {
			cfg.Site.SourceDir = filepath.Join(dir, site.Source)
		}
	}
}

// expandPermalinkStyle maps Jekyll's built-in permalink styles to patterns.
func expandPermalinkStyle(style string) string {
	switch style {
	case "date":
		return "/:categories/:year/:month/:day/:title.html"
	case "pretty":
		return "/:categories/:year/:month/:day/:title/"
	case "none":
		return "/:categories/:title.html"
	default:
		return style
	}
}
