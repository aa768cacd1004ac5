package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.Site == nil || cfg.Server == nil || cfg.History == nil || cfg.Settings == nil {
		t.Fatal("NewConfig should initialize every section")
	}
	if cfg.Site.IndexPath != "/search.json" {
		t.Errorf("expected default index path, got %q", cfg.Site.IndexPath)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.Timeout())
	}
	if cfg.Retention() != 90*24*time.Hour {
		t.Errorf("expected 90 day retention, got %v", cfg.Retention())
	}
	if cfg.Settings.LogLevel != "info" || cfg.Settings.LogFormat != "" {
		t.Errorf("unexpected log settings: %+v", cfg.Settings)
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		t.Fatalf("GetDefaultConfigPath failed: %v", err)
	}
	if !strings.HasSuffix(path, ".site-search.json") {
		t.Errorf("unexpected default path %s", path)
	}
}

func TestReadJekyllSite(t *testing.T) {
	dir := t.TempDir()
	data := "title: Blogi\nurl: https://example.github.io\nbaseurl: /Blogi/\npermalink: pretty\n"
	if err := os.WriteFile(filepath.Join(dir, "_config.yml"), []byte(data), 0644); err != nil {
		t.Fatalf("failed to write _config.yml: %v", err)
	}

	site, err := ReadJekyllSite(dir)
	if err != nil {
		t.Fatalf("ReadJekyllSite failed: %v", err)
	}
	if site.Title != "Blogi" || site.URL != "https://example.github.io" {
		t.Errorf("unexpected site: %+v", site)
	}

	cfg := NewConfig()
	cfg.Site.Title = "Custom"
	ApplyJekyll(cfg, site, dir)

	if cfg.Site.Title != "Custom" {
		t.Error("configured title should win over _config.yml")
	}
	if cfg.Site.BaseURL != "/Blogi" {
		t.Errorf("expected trimmed baseurl, got %q", cfg.Site.BaseURL)
	}
	if cfg.Site.Permalink != "/:categories/:year/:month/:day/:title/" {
		t.Errorf("expected pretty permalink, got %q", cfg.Site.Permalink)
	}
	if cfg.Site.SourceDir != dir {
		t.Errorf("expected source dir %s, got %s", dir, cfg.Site.SourceDir)
	}
}

func TestReadJekyllSiteErrors(t *testing.T) {
	if _, err := ReadJekyllSite(t.TempDir()); err == nil {
		t.Error("expected error for missing _config.yml")
	}

	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "_config.yml"), []byte("title: [broken"), 0644)
	if _, err := ReadJekyllSite(dir); err == nil || !strings.Contains(err.Error(), "YAML parse error") {
		t.Errorf("expected YAML parse error, got %v", err)
	}
}

func TestExpandPermalinkStyle(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"date":          "/:categories/:year/:month/:day/:title.html",
		"none":          "/:categories/:title.html",
		"/blog/:title/": "/blog/:title/",
	}
	for style, want := range tests {
		if got := expandPermalinkStyle(style); got != want {
			t.Errorf("expandPermalinkStyle(%q) = %q, want %q", style, got, want)
		}
	}
}
