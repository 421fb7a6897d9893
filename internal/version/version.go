package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time. Falls back to the VCS stamp of the binary.
	Commit = ""
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = ""
)

// shortCommitLength matches `git rev-parse --short`.
const shortCommitLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full renders the version line printed by the `version` subcommands.
func Full(binary string) string {
	commit, built := stamp()

	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", binary, Version, commit, built, runtime.Version())
}

// stamp prefers ldflags values and falls back to the VCS settings recorded by the toolchain.
func stamp() (string, string) {
	commit, built := Commit, BuildTime

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if commit == "" {
					commit = setting.Value
				}
			case "vcs.time":
				if built == "" {
					built = setting.Value
				}
			}
		}
	}

	if len(commit) > shortCommitLength {
		commit = commit[:shortCommitLength]
	}

	if commit == "" {
		commit = "none"
	}

	if built == "" {
		built = "unknown"
	}

	return commit, built
}
