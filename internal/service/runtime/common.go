package runtime

import (
	"os"
	"strings"
)

const (
	// archivePrefix and ArchiveExtension frame the version inside asset names:
	// runtime-<version>.tar.gz.
	archivePrefix = "runtime-"
	// ArchiveExtension is the archive format of runtime distributions.
	ArchiveExtension = ".tar.gz"

	// VersionMarkerFilename records the installed version inside the target
	// directory for later inspection.
	VersionMarkerFilename = "version"

	// PayloadSubdirectory is the fixed subpath holding the runtime payload
	// after layout normalization.
	PayloadSubdirectory = "usr"

	// DefaultDirMode is used for directories created during installation.
	DefaultDirMode os.FileMode = 0o755

	// DefaultFileMode is used for the version marker file.
	DefaultFileMode os.FileMode = 0o644
)

// ArchiveName returns the asset filename for a runtime version.
func ArchiveName(version string) string {
	return archivePrefix + version + ArchiveExtension
}

// VersionFromArchiveName extracts the version from an asset filename.
// It reports false for names outside the runtime-<version>.tar.gz convention.
func VersionFromArchiveName(name string) (string, bool) {
	if !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, ArchiveExtension) {
		return "", false
	}

	version := strings.TrimSuffix(strings.TrimPrefix(name, archivePrefix), ArchiveExtension)

	return version, version != ""
}
