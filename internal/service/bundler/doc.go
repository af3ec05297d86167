// Package bundler orchestrates one bundle assembly run.
//
// It validates the specification before any filesystem mutation, resolves the
// runtime version, then drives the builder components through a fixed ordered
// sequence of named steps. Every failure is fatal: the run aborts on the
// first failed step without cleaning up the partially written bundle.
package bundler
