// Package config defines the bundle specification resolved once per build
// and provides helpers to load, validate and save it in YAML format.
//
// The Spec type covers everything one assembly run needs: bundle identity
// (name, icon, locale, architecture), the Wine prefix and entry points to
// package, and machine-level knobs (cache directory, catalog URL) that can
// also be overridden through environment variables.
package config
