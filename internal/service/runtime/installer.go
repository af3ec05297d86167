package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/grab/v3"
	"github.com/codeclysm/extract/v4"

	"github.com/oshokin/wine-bundler/internal/catalog"
	"github.com/oshokin/wine-bundler/internal/logger"
)

// Installer fetches runtime distributions into the shared cache and installs
// them into per-bundle target directories.
type Installer struct {
	// cacheDir holds one archive per version, shared across builds.
	cacheDir string
	// catalog resolves asset download URLs.
	catalog *catalog.Client
}

// errPayloadNotFound is returned when the extracted archive does not contain
// the expected runtime payload.
var errPayloadNotFound = errors.New("runtime payload not found in archive")

// NewInstaller creates an installer over the provided cache directory and catalog.
func NewInstaller(cacheDir string, cat *catalog.Client) *Installer {
	return &Installer{
		cacheDir: cacheDir,
		catalog:  cat,
	}
}

// Fetch ensures the version's archive is present in the cache and returns its path.
//
// Downloads go through grab, which resumes a partial file left by an
// interrupted run instead of starting over.
func (i *Installer) Fetch(ctx context.Context, version string) (string, error) {
	archivePath := filepath.Join(i.cacheDir, ArchiveName(version))

	if _, err := os.Stat(archivePath); err == nil {
		logger.InfoKV(ctx, "Runtime archive found in cache", "path", archivePath)
		return archivePath, nil
	}

	if err := os.MkdirAll(i.cacheDir, DefaultDirMode); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	downloadURL, err := i.catalog.AssetURL(ctx, ArchiveName(version))
	if err != nil {
		return "", fmt.Errorf("resolve download URL for %s: %w", version, err)
	}

	logger.InfoKV(ctx, "Downloading runtime archive", "url", downloadURL, "path", archivePath)

	request, err := grab.NewRequest(archivePath, downloadURL)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}

	request = request.WithContext(ctx)

	response := grab.NewClient().Do(request)
	if err = response.Err(); err != nil {
		return "", fmt.Errorf("download %s: %w", downloadURL, err)
	}

	logger.InfoKV(ctx, "Runtime archive downloaded",
		"path", response.Filename, "bytes", response.BytesComplete())

	return archivePath, nil
}

// Install ensures targetDir contains a normalized runtime layout for version:
// the payload under the fixed "usr" subpath and a plain-text version marker.
func (i *Installer) Install(ctx context.Context, targetDir, version string) error {
	archivePath, err := i.Fetch(ctx, version)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(targetDir, DefaultDirMode); err != nil {
		return fmt.Errorf("create runtime directory: %w", err)
	}

	logger.InfoKV(ctx, "Unpacking runtime archive", "target", targetDir)

	archive, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return fmt.Errorf("open runtime archive: %w", err)
	}

	defer func() {
		_ = archive.Close()
	}()

	if err = extract.Archive(ctx, archive, targetDir, nil); err != nil {
		return fmt.Errorf("extract runtime archive: %w", err)
	}

	if err = normalizeLayout(targetDir); err != nil {
		return err
	}

	marker := filepath.Join(targetDir, VersionMarkerFilename)
	if err = os.WriteFile(marker, []byte(version), DefaultFileMode); err != nil {
		return fmt.Errorf("write version marker: %w", err)
	}

	logger.InfoKV(ctx, "Runtime installed", "version", version, "target", targetDir)

	return nil
}

// normalizeLayout relocates the runtime payload from the archive's application
// wrapper to the target root and discards the emptied wrapper.
func normalizeLayout(targetDir string) error {
	payload := filepath.Join(targetDir, PayloadSubdirectory)
	if _, err := os.Stat(payload); err == nil {
		// Archive without a wrapper, already in final shape.
		return nil
	}

	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return fmt.Errorf("inspect extracted archive: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		wrapped := filepath.Join(targetDir, entry.Name(), PayloadSubdirectory)
		if _, err = os.Stat(wrapped); err != nil {
			continue
		}

		if err = os.Rename(wrapped, payload); err != nil {
			return fmt.Errorf("relocate runtime payload: %w", err)
		}

		if err = os.RemoveAll(filepath.Join(targetDir, entry.Name())); err != nil {
			return fmt.Errorf("remove archive wrapper: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%s: %w", targetDir, errPayloadNotFound)
}
