/*
Package version provides build metadata for site-search.

Values are set via ldflags during build:

	go build -ldflags "-X github.com/blogi/site-search/internal/version.Version=v1.2.0 \
	  -X github.com/blogi/site-search/internal/version.Commit=abc1234 \
	  -X github.com/blogi/site-search/internal/version.Date=2024-05-01"

Without ldflags the module version recorded by the Go toolchain is used,
falling back to "dev".
*/
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion"`
}

// Get returns the build metadata, consulting the embedded build info when
// ldflags were not set.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	if info.Version != "dev" {
		return info
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) > 7 {
				info.Commit = s.Value[:7]
			} else {
				info.Commit = s.Value
			}
		case "vcs.time":
			if len(s.Value) >= 10 {
				info.Date = s.Value[:10]
			}
		}
	}
	return info
}

// String formats the metadata for display.
func (i Info) String() string {
	return FormatVersion(i.Version, i.Commit, i.Date)
}

// GetVersion returns version information as a formatted string.
func GetVersion() string {
	return Get().String()
}

// FormatVersion formats version components into a display string.
func FormatVersion(version, commit, date string) string {
	if version == "dev" {
		return version + " (development build)"
	}
	return version + " (commit: " + commit + ", built: " + date + ")"
}
