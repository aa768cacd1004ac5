package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name                  string
		version, commit, date string
		want                  string
	}{
		{"dev build", "dev", "none", "unknown", "dev (development build)"},
		{"release", "v1.2.0", "abc1234", "2024-05-01", "v1.2.0 (commit: abc1234, built: 2024-05-01)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVersion(tt.version, tt.commit, tt.date); got != tt.want {
				t.Errorf("FormatVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetWithLdflags(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v9.9.9"
	info := Get()

	if info.Version != "v9.9.9" {
		t.Errorf("expected ldflags version, got %s", info.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("expected go version %s, got %s", runtime.Version(), info.GoVersion)
	}
	if !strings.HasPrefix(GetVersion(), "v9.9.9 (commit:") {
		t.Errorf("unexpected GetVersion: %s", GetVersion())
	}
}

func TestGetDev(t *testing.T) {
	info := Get()
	if info.Version == "" {
		t.Error("version should never be empty")
	}
	if info.String() == "" {
		t.Error("String should never be empty")
	}
}
