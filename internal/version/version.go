// Package version carries the build identity stamped into beamctl
// releases.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version and Commit are stamped by the release build:
//
//	go build -ldflags="-X github.com/muurk/beamctl/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/beamctl/internal/version.Commit=abc123"
//
// Unstamped binaries fall back to whatever VCS info the Go toolchain
// embedded, and finally to a dev placeholder.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo()
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills Version and Commit from the VCS settings the
// toolchain records when building inside a checkout.
func fromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	var revision, modified, stamp string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			stamp = setting.Value
		}
	}

	if Commit == "" && revision != "" {
		Commit = revision
		if len(Commit) > 7 {
			Commit = Commit[:7]
		}
		if modified == "true" {
			Commit += "-dirty"
		}
	}

	// Build info has no tags, so an unstamped version is dated by the
	// commit time instead.
	if Version == "" && stamp != "" {
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

// Full renders the version with its commit, as shown by 'beamctl version'.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
