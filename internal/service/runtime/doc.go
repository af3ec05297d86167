// Package runtime downloads and installs versioned Wine distributions.
//
// Archives are cached process-wide, keyed by version, and unpacked once per
// bundle build into the bundle's own resource area. Layout normalization
// moves the payload out of the archive's application wrapper so the installed
// tree always has the runtime under usr/ next to a version marker file.
package runtime
