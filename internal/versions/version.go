// Package versions parses and orders release version strings and carries the
// build information of the release version API itself.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

const (
	unknownStr = "unknown"
	devVersion = "dev"

	buildDateLayout = "2006-01-02 15:04:05 MST"
)

// Build information, overridden with -ldflags "-X .../internal/versions.BinaryVersion=..."
var (
	// BinaryVersion is the released version of this binary, "dev" for local builds
	BinaryVersion = devVersion
	// Commit is the git commit hash of the build
	Commit = unknownStr
	// BuildDate is the RFC 3339 time the binary was built
	BuildDate = unknownStr
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the build information of the running binary
func GetVersionInfo() VersionInfo {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	return buildVersionInfo(BinaryVersion, Commit, BuildDate, settings)
}

// buildVersionInfo fills the commit and build date of dev builds from the VCS
// stamp of the Go toolchain, and names such builds after their commit.
func buildVersionInfo(version, commit, buildDate string, settings []debug.BuildSetting) VersionInfo {
	if version == devVersion {
		for _, setting := range settings {
			switch {
			case setting.Key == "vcs.revision" && commit == unknownStr:
				commit = setting.Value
			case setting.Key == "vcs.time" && buildDate == unknownStr:
				buildDate = setting.Value
			}
		}
		version = fmt.Sprintf("build-%.8s", commit)
	}

	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format(buildDateLayout)
	}

	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// UserAgent returns the User-Agent string sent to upstream release sources
func UserAgent() string {
	return "release-version-api/" + GetVersionInfo().Version
}
