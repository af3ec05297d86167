package version

import "fmt"

var (
	// Version is the release tag of the binary, overridden via ldflags.
	Version = "1.0.0"
	// Commit is the short git SHA the binary was built from (or "none").
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns only the release tag.
func Short() string {
	return Version
}

// Full renders the tag together with the commit and build timestamp.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
