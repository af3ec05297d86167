package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Release is one published runtime release as listed by the catalog.
// Releases arrive in the catalog's native order, newest first.
type Release struct {
	// TagName is the release tag, e.g. "v8.0".
	TagName string `json:"tag_name"`
	// Assets are the downloadable files attached to the release.
	Assets []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release.
type Asset struct {
	// Name is the filename, e.g. "runtime-stable-8.0-osx64.tar.gz".
	Name string `json:"name"`
	// DownloadURL is where the asset's bytes are served from.
	DownloadURL string `json:"browser_download_url"`
}

// Client lists releases from a GitHub-style release API.
type Client struct {
	// baseURL is the release listing endpoint.
	baseURL string
	// httpClient performs the listing requests.
	httpClient *http.Client
}

var (
	// ErrAssetNotFound is returned when no release carries the requested asset.
	ErrAssetNotFound = errors.New("asset not found in catalog")
	// errBadHTTPStatus is returned on a non-OK catalog response.
	errBadHTTPStatus = errors.New("unexpected http status")
)

// NewClient creates a catalog client for the provided listing URL.
// A non-positive timeout leaves the HTTP client unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Releases fetches the full release listing in the catalog's native order.
func (c *Client) Releases(ctx context.Context) ([]Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", c.baseURL, response.Status, errBadHTTPStatus)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	var releases []Release
	if err = json.Unmarshal(data, &releases); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	return releases, nil
}

// AssetNames returns every asset name across all releases, newest release first,
// preserving the per-release asset order.
func (c *Client) AssetNames(ctx context.Context) ([]string, error) {
	releases, err := c.Releases(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, release := range releases {
		for _, asset := range release.Assets {
			names = append(names, asset.Name)
		}
	}

	return names, nil
}

// AssetURL returns the download URL of the first asset with the given name,
// scanning releases in the catalog's native order.
func (c *Client) AssetURL(ctx context.Context, name string) (string, error) {
	releases, err := c.Releases(ctx)
	if err != nil {
		return "", err
	}

	for _, release := range releases {
		for _, asset := range release.Assets {
			if asset.Name == name {
				return asset.DownloadURL, nil
			}
		}
	}

	return "", fmt.Errorf("%s: %w", name, ErrAssetNotFound)
}
