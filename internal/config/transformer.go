package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SITE_SEARCH_"

// splitWords splits a string into words based on separators and case changes.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		case unicode.IsUpper(r):
			if i > 0 && current.Len() > 0 && unicode.IsLower(runes[i-1]) {
				words = append(words, current.String())
				current.Reset()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// ToEnvVarCase converts a key to SCREAMING_SNAKE_CASE for environment variables.
//
// Examples:
//   - "baseUrl" → "BASE_URL"
//   - "server.rateLimit" → "SERVER_RATE_LIMIT"
//   - "index-path" → "INDEX_PATH"
func ToEnvVarCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word)
	}
	return strings.Join(words, "_")
}

// EnvName returns the environment variable that overrides a config key.
func EnvName(key string) string {
	return EnvPrefix + ToEnvVarCase(key)
}

// envOverride binds one config key to its setter.
type envOverride struct {
	key string
	set func(c *Config, value string) error
}

var envOverrides = []envOverride{
	{"site.title", func(c *Config, v string) error { c.Site.Title = v; return nil }},
	{"site.baseUrl", func(c *Config, v string) error { c.Site.BaseURL = v; return nil }},
	{"site.indexPath", func(c *Config, v string) error { c.Site.IndexPath = v; return nil }},
	{"site.indexLocation", func(c *Config, v string) error { c.Site.IndexLocation = v; return nil }},
	{"site.sourceDir", func(c *Config, v string) error { c.Site.SourceDir = v; return nil }},
	{"server.addr", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"server.rateLimit", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		c.Server.RateLimit = f
		return err
	}},
	{"server.burst", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Server.Burst = n
		return err
	}},
	{"history.disabled", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.History.Disabled = b
		return err
	}},
	{"history.path", func(c *Config, v string) error { c.History.Path = v; return nil }},
	{"settings.timeoutSeconds", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Settings.TimeoutSeconds = n
		return err
	}},
	{"settings.logLevel", func(c *Config, v string) error { c.Settings.LogLevel = v; return nil }},
	{"settings.logFormat", func(c *Config, v string) error { c.Settings.LogFormat = v; return nil }},
}

// ApplyEnv overrides config values from SITE_SEARCH_* variables, e.g.
// SITE_SEARCH_SERVER_ADDR for server.addr.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	cfg.applyDefaults()

	for _, o := range envOverrides {
		name := EnvName(o.key)
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := o.set(cfg, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}
