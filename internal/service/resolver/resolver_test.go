package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/wine-bundler/internal/catalog"
)

const listingBody = `[
	{
		"tag_name": "v8.0",
		"assets": [
			{"name": "runtime-stable-8.0-osx64.tar.gz", "browser_download_url": "https://dl.local/8.0"},
			{"name": "runtime-devel-8.5-osx64.tar.gz", "browser_download_url": "https://dl.local/8.5"}
		]
	},
	{
		"tag_name": "v7.0",
		"assets": [
			{"name": "runtime-stable-7.0-osx64.tar.gz", "browser_download_url": "https://dl.local/7.0"}
		]
	}
]`

// TestResolvePrefersCache returns the lexicographically last cached version
// without touching the network.
func TestResolvePrefersCache(t *testing.T) {
	t.Parallel()

	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write([]byte(listingBody))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	for _, name := range []string{
		"runtime-stable-7.0-osx64.tar.gz",
		"runtime-stable-8.0-osx64.tar.gz",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(cacheDir, name), []byte("archive"), 0o644))
	}

	r := New(cacheDir, catalog.NewClient(server.URL, time.Second))

	version, err := r.Resolve(context.Background(), "^stable-.*-osx64$")
	require.NoError(t, err)
	require.Equal(t, "stable-8.0-osx64", version)
	require.Zero(t, requests)

	// Unchanged cache resolves identically, still without network access.
	version, err = r.Resolve(context.Background(), "^stable-.*-osx64$")
	require.NoError(t, err)
	require.Equal(t, "stable-8.0-osx64", version)
	require.Zero(t, requests)
}

// TestResolveFromCatalog picks the first selector match in native order.
func TestResolveFromCatalog(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listingBody))
	}))
	defer server.Close()

	r := New(t.TempDir(), catalog.NewClient(server.URL, time.Second))

	version, err := r.Resolve(context.Background(), "^stable-.*-osx64$")
	require.NoError(t, err)
	require.Equal(t, "stable-8.0-osx64", version)

	// Selector narrowing to the older release finds it in the second release.
	version, err = r.Resolve(context.Background(), "^stable-7.*$")
	require.NoError(t, err)
	require.Equal(t, "stable-7.0-osx64", version)
}

// TestResolveNoMatch fails with the dedicated sentinel error.
func TestResolveNoMatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listingBody))
	}))
	defer server.Close()

	r := New(t.TempDir(), catalog.NewClient(server.URL, time.Second))

	_, err := r.Resolve(context.Background(), "^nothing-matches$")
	require.ErrorIs(t, err, ErrNoMatchingVersion)
}

// TestResolveCatalogUnreachable fails when the cache is empty and the catalog is down.
func TestResolveCatalogUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := New(t.TempDir(), catalog.NewClient(server.URL, time.Second))

	_, err := r.Resolve(context.Background(), ".*")
	require.Error(t, err)
}

// TestResolveBadSelector rejects invalid regular expressions.
func TestResolveBadSelector(t *testing.T) {
	t.Parallel()

	r := New(t.TempDir(), nil)

	_, err := r.Resolve(context.Background(), "(")
	require.Error(t, err)
}
