package geometa

import "runtime"

// Version is the semantic version of the geometa library.
const Version = "0.3.0"

// VersionInfo contains build and version information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "0.3.0")
	Version string `json:"version"`
	// GitCommit is the git commit hash (set via ldflags at build time)
	GitCommit string `json:"git_commit"`
	// BuildTime is the build timestamp (set via ldflags at build time)
	BuildTime string `json:"build_time"`
	// GoVersion is the Go version used to build
	GoVersion string `json:"go_version"`
}

// GetVersionInfo returns build and library version information.
//
// GitCommit and BuildTime are populated at build time via -ldflags and
// read "unknown" otherwise:
//
//	go build -ldflags="-X github.com/simonhull/geometa.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/geometa.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/geometa
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// Variables populated at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)
