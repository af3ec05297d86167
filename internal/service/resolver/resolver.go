package resolver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/oshokin/wine-bundler/internal/catalog"
	"github.com/oshokin/wine-bundler/internal/logger"
	"github.com/oshokin/wine-bundler/internal/service/runtime"
)

// Resolver turns a version selector into one concrete runtime version.
type Resolver struct {
	// cacheDir is the shared archive cache scanned before any network access.
	cacheDir string
	// catalog lists published runtime releases.
	catalog *catalog.Client
}

var (
	// ErrNoMatchingVersion is returned when no published version matches the selector.
	ErrNoMatchingVersion = errors.New("no runtime version matches selector")
	// errBadSelector is returned when the selector is not a valid regular expression.
	errBadSelector = errors.New("invalid version selector")
)

// New creates a resolver over the provided cache directory and catalog.
func New(cacheDir string, cat *catalog.Client) *Resolver {
	return &Resolver{
		cacheDir: cacheDir,
		catalog:  cat,
	}
}

// Resolve produces exactly one runtime version for the selector.
//
// A cached archive always wins: the lexicographically last cached version is
// returned without touching the network, so repeated builds on one machine
// work offline. Only an empty cache falls through to the catalog, where the
// first selector match in the listing's native (newest-first) order is taken.
func (r *Resolver) Resolve(ctx context.Context, selector string) (string, error) {
	if version, found := r.cachedVersion(); found {
		logger.InfoKV(ctx, "Using cached runtime version", "version", version)
		return version, nil
	}

	re, err := regexp.Compile(selector)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", errBadSelector, selector, err)
	}

	names, err := r.catalog.AssetNames(ctx)
	if err != nil {
		return "", fmt.Errorf("list catalog versions: %w", err)
	}

	for _, name := range names {
		version, ok := runtime.VersionFromArchiveName(name)
		if !ok {
			continue
		}

		if re.MatchString(version) {
			logger.InfoKV(ctx, "Resolved runtime version from catalog", "version", version)
			return version, nil
		}
	}

	return "", fmt.Errorf("%q: %w", selector, ErrNoMatchingVersion)
}

// cachedVersion returns the lexicographically last cached version, if any.
// Glob results arrive sorted by name, so the last entry is the newest by
// the archives' naming convention.
func (r *Resolver) cachedVersion() (string, bool) {
	matches, err := filepath.Glob(filepath.Join(r.cacheDir, runtime.ArchiveName("*")))
	if err != nil || len(matches) == 0 {
		return "", false
	}

	version, ok := runtime.VersionFromArchiveName(filepath.Base(matches[len(matches)-1]))

	return version, ok
}
