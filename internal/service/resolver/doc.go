// Package resolver picks the concrete runtime version to install.
//
// A locally cached distribution takes precedence over the remote catalog,
// which keeps repeated builds on the same machine network-independent.
package resolver
