package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks a config for values the hosts cannot use.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if cfg.Site != nil && cfg.Site.IndexPath != "" && !strings.HasPrefix(cfg.Site.IndexPath, "/") {
		return fmt.Errorf("site.indexPath %q must start with /", cfg.Site.IndexPath)
	}

	if s := cfg.Server; s != nil {
		if s.Addr != "" {
			if _, _, err := net.SplitHostPort(s.Addr); err != nil {
				return fmt.Errorf("server.addr %q: %w", s.Addr, err)
			}
		}
		if s.RateLimit < 0 {
			return fmt.Errorf("server.rateLimit must not be negative")
		}
		if s.Burst < 0 {
			return fmt.Errorf("server.burst must not be negative")
		}
	}

	if h := cfg.History; h != nil && h.RetentionDays < 0 {
		return fmt.Errorf("history.retentionDays must not be negative")
	}

	if s := cfg.Settings; s != nil {
		if s.TimeoutSeconds < 0 {
			return fmt.Errorf("settings.timeoutSeconds must not be negative")
		}
		switch strings.ToLower(s.LogLevel) {
		case "", "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("settings.logLevel %q is not one of debug, info, warn, error", s.LogLevel)
		}
		switch s.LogFormat {
		case "", "text", "json":
		default:
			return fmt.Errorf("settings.logFormat %q must be text or json", s.LogFormat)
		}
	}

	return nil
}
