// Package version provides version information for the crateplan CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/opmodel/crateplan/internal/platform"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = devVersion

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

const devVersion = "v0.0.0-dev"

// Info contains version information.
type Info struct {
	// Version is the CLI version.
	Version string `json:"version" yaml:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate" yaml:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion" yaml:"goVersion"`

	// Platforms is the number of platform triples plans can target.
	Platforms int `json:"platforms" yaml:"platforms"`

	// RulesWorkspace is the default rules_rust workspace name used in
	// platform labels.
	RulesWorkspace string `json:"rulesWorkspace" yaml:"rulesWorkspace"`
}

// Get returns the current version information. Binaries installed with
// `go install` carry no ldflags, so their module version and VCS stamp are
// read from the embedded build info.
func Get() Info {
	info := Info{
		Version:        Version,
		GitCommit:      GitCommit,
		BuildDate:      BuildDate,
		GoVersion:      runtime.Version(),
		Platforms:      len(platform.SupportedTriples),
		RulesWorkspace: platform.DefaultRulesWorkspace,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(&info, bi)
	}
	return info
}

func applyBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == devVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("crateplan:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n\nPlatforms:\n  Supported triples: %d\n  Rules workspace:   %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion, i.Platforms, i.RulesWorkspace)
}
