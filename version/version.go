package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Package is the module name reported by GetInfo.
const Package = "toolbelt"

const unknown = "unknown"

// Overridden at link time with -X; see the package doc.
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// Info is the build metadata printed by "toolbelt version" and embedded in
// archive summaries.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Package   string `json:"package"`
	GoVersion string `json:"go_version"`
}

// stamped returns the linker value when one was injected, otherwise the
// VCS setting key recorded by the go command, otherwise "unknown".
func stamped(linked, placeholder, key string) string {
	if linked != "" && linked != placeholder {
		return linked
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == key && s.Value != "" {
				return s.Value
			}
		}
	}
	return unknown
}

// GetVersion prefers the linker value, then the module version from
// `go install`, and reports "development" for local builds.
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "development"
}

// GetInfo collects every field of Info.
func GetInfo() Info {
	return Info{
		Version:   GetVersion(),
		Commit:    stamped(Commit, unknown, "vcs.revision"),
		Date:      stamped(Date, unknown, "vcs.time"),
		Package:   Package,
		GoVersion: runtime.Version(),
	}
}

// String renders the version with a seven character commit and the build
// date when they are known, e.g. "v0.4.0 (0123456, built 2024-05-01)".
func (i Info) String() string {
	if i.Commit == unknown || len(i.Commit) <= 7 {
		return i.Version
	}
	if i.Date == unknown {
		return fmt.Sprintf("%s (%s)", i.Version, i.Commit[:7])
	}
	return fmt.Sprintf("%s (%s, built %s)", i.Version, i.Commit[:7], i.Date)
}

// GetFullVersion is GetInfo().String().
func GetFullVersion() string {
	return GetInfo().String()
}

// PrintVersion writes the multi-line report used by the version command.
func PrintVersion(w io.Writer, appName string) {
	info := GetInfo()
	fmt.Fprintf(w, "%s version %s\n", appName, info)
	fmt.Fprintf(w, "Package: %s\n", info.Package)
	fmt.Fprintf(w, "Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "Build Date: %s\n", info.Date)
	fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
}
