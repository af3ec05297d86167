package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const listingBody = `[
	{
		"tag_name": "v8.0",
		"assets": [
			{"name": "runtime-stable-8.0-osx64.tar.gz", "browser_download_url": "https://dl.local/8.0"}
		]
	},
	{
		"tag_name": "v7.0",
		"assets": [
			{"name": "runtime-stable-7.0-osx64.tar.gz", "browser_download_url": "https://dl.local/7.0"}
		]
	}
]`

// TestReleases verifies decoding and native ordering of the listing.
func TestReleases(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listingBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	releases, err := client.Releases(context.Background())
	require.NoError(t, err)
	require.Len(t, releases, 2)
	require.Equal(t, "v8.0", releases[0].TagName)

	names, err := client.AssetNames(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"runtime-stable-8.0-osx64.tar.gz",
		"runtime-stable-7.0-osx64.tar.gz",
	}, names)
}

// TestAssetURL verifies lookup by asset name and the not-found path.
func TestAssetURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listingBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	url, err := client.AssetURL(context.Background(), "runtime-stable-7.0-osx64.tar.gz")
	require.NoError(t, err)
	require.Equal(t, "https://dl.local/7.0", url)

	_, err = client.AssetURL(context.Background(), "runtime-unknown.tar.gz")
	require.ErrorIs(t, err, ErrAssetNotFound)
}

// TestReleasesBadStatus verifies a non-OK listing response is an error.
func TestReleasesBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	_, err := client.Releases(context.Background())
	require.Error(t, err)
}
