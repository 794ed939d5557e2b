// Package version provides version information for abinspect.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// uiModule is reported alongside the CLI version.
const uiModule = "github.com/charmbracelet/bubbletea"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// Platform is GOOS/GOARCH.
	Platform string `json:"platform"`

	// UIVersion is the bubbletea version linked into the binary.
	UIVersion string `json:"uiVersion,omitempty"`
}

// Get returns the current version information. Values not set via ldflags
// fall back to the module build info when available.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	applyBuildInfo(&info, bi)
	return info
}

func applyBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "v0.0.0-dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = shortCommit(s.Value)
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
	for _, dep := range bi.Deps {
		if dep.Path == uiModule {
			info.UIVersion = dep.Version
		}
	}
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// String returns a human-readable version string.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "abinspect version %s\n", i.Version)
	fmt.Fprintf(&b, "  Commit:    %s\n", i.GitCommit)
	fmt.Fprintf(&b, "  Built:     %s\n", i.BuildDate)
	fmt.Fprintf(&b, "  Go:        %s (%s)\n", i.GoVersion, i.Platform)
	if i.UIVersion != "" {
		fmt.Fprintf(&b, "  Bubbletea: %s\n", i.UIVersion)
	}
	return strings.TrimRight(b.String(), "\n")
}
