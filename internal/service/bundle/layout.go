package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// contentsDir is the top-level container mandated by the bundle layout.
	contentsDir = "Contents"
	// macOSDir holds the launch script, the bundle's "executable".
	macOSDir = "Contents/MacOS"
	// resourcesDir holds everything else: icon, runtime, prefix, menu script.
	resourcesDir = "Contents/Resources"

	// ManifestFilename is the bundle metadata descriptor read by macOS.
	ManifestFilename = "Info.plist"
	// MenuScriptFilename is the optional entry-point selection script.
	MenuScriptFilename = "launcher.scpt"
	// RuntimeDirname holds the installed Wine distribution.
	RuntimeDirname = "wine-home"
	// PrefixDirname holds the copied Wine prefix.
	PrefixDirname = "wine-prefix"
	// IconExtension is the canonical icon format of the bundle.
	IconExtension = ".icns"

	// directoryMode is used for created bundle directories.
	directoryMode os.FileMode = 0o755
	// executableMode is used for the launch script.
	executableMode os.FileMode = 0o755
	// regularMode is used for generated non-executable files.
	regularMode os.FileMode = 0o644
)

// CreateSkeleton creates the bundle's fixed directory skeleton.
func CreateSkeleton(root string) error {
	for _, dir := range []string{macOSDir, resourcesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), directoryMode); err != nil {
			return fmt.Errorf("create bundle skeleton: %w", err)
		}
	}

	return nil
}

// Touch updates the bundle root's modification timestamp, the final commit
// signal that makes Finder re-read the bundle's metadata.
func Touch(root string) error {
	now := time.Now()
	if err := os.Chtimes(root, now, now); err != nil {
		return fmt.Errorf("touch bundle root: %w", err)
	}

	return nil
}

// LaunchScriptPath returns the path of the launch script for a bundle name.
func LaunchScriptPath(root, name string) string {
	return filepath.Join(root, macOSDir, name)
}

// ManifestPath returns the path of the bundle manifest.
func ManifestPath(root string) string {
	return filepath.Join(root, contentsDir, ManifestFilename)
}

// IconPath returns the path of the normalized icon for a bundle name.
func IconPath(root, name string) string {
	return filepath.Join(root, resourcesDir, name+IconExtension)
}

// MenuScriptPath returns the path of the selection-menu script.
func MenuScriptPath(root string) string {
	return filepath.Join(root, resourcesDir, MenuScriptFilename)
}

// RuntimePath returns the directory receiving the installed runtime.
func RuntimePath(root string) string {
	return filepath.Join(root, resourcesDir, RuntimeDirname)
}

// PrefixPath returns the directory receiving the copied Wine prefix.
func PrefixPath(root string) string {
	return filepath.Join(root, resourcesDir, PrefixDirname)
}
