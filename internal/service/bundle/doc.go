// Package bundle generates the on-disk structure of a macOS application
// bundle: directory skeleton, Info.plist manifest, launch script, optional
// selection-menu script and the copied Wine prefix.
//
// Scripts are rendered from templates with per-context escaping, never
// assembled by string concatenation, so labels and guest-OS paths with
// backslashes or quotes embed safely.
package bundle
