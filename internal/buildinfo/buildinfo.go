// Package buildinfo carries the version stamped in by the linker.
package buildinfo

import "fmt"

// Stamped with -ldflags "-X fbsplash/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short names the build in the preview window title: the release tag when
// there is one, else the commit.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String is the full -version line.
func String() string {
	return fmt.Sprintf("fbsplash %s (commit %s, built %s)", Version, Commit, Date)
}
