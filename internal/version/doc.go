// Package version carries the build metadata of the bundler binary.
//
// Version, Commit, and BuildTime are stamped through ldflags by the release
// pipeline and fall back to placeholders for local builds. Short and Full
// format them for the CLI and for log lines.
package version
