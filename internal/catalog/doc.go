// Package catalog is a read-only client for the runtime release listing API.
//
// The catalog is GitHub-release shaped: an ordered list of releases, newest
// first, each carrying named downloadable assets. The resolver matches asset
// names against a version selector; the fetcher asks for download URLs.
package catalog
