package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Placeholders left in Commit and BuildTime when no ldflags were given.
const (
	unsetCommit    = "none"
	unsetBuildTime = "unknown"

	// shortCommitLength is how many hex digits of a VCS revision are shown.
	shortCommitLength = 7
)

var (
	// Version is the semantic version of the packager. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time.
	Commit = unsetCommit
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = unsetBuildTime
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full renders the line printed by `zxp-packager version`.
// Missing ldflags values fall back to the VCS stamp of the go build.
func Full() string {
	commit, built := Commit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		commit, built = fromBuildInfo(info, commit, built)
	}

	return fmt.Sprintf("zxp-packager %s (commit %s, built %s, %s %s/%s)",
		Version, commit, built, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// fromBuildInfo fills the placeholder commit and build time from vcs.* settings.
func fromBuildInfo(info *debug.BuildInfo, commit, built string) (string, string) {
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == unsetCommit && s.Value != "":
			commit = s.Value
			if len(commit) > shortCommitLength {
				commit = commit[:shortCommitLength]
			}
		case s.Key == "vcs.time" && built == unsetBuildTime && s.Value != "":
			built = s.Value
		}
	}

	return commit, built
}
