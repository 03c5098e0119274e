package requestspro

import (
	"fmt"
	"runtime"
)

// Build metadata. Version is the release tag; GitCommit and BuildDate are
// meant to be injected through -ldflags:
//
//	-X github.com/cirleamihai/requests-pro.GitCommit=$(git rev-parse --short HEAD)
var (
	Version   = "v1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

// GetVersion renders the build metadata as a single human-readable line.
func GetVersion() string {
	return fmt.Sprintf("requests-pro %s (commit: %s, built: %s, go: %s)",
		Version, GitCommit, BuildDate, GoVersion)
}

// GetVersionInfo returns the build metadata keyed for structured logging.
func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"build_date": BuildDate,
		"go_version": GoVersion,
	}
}
