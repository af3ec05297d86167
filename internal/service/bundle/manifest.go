package bundle

import (
	"fmt"
	"os"

	"howett.net/plist"
)

// manifest is the Info.plist payload. The display name doubles as bundle
// identifier, executable name and icon reference.
type manifest struct {
	BundleName            string `plist:"CFBundleName"`
	BundleIdentifier      string `plist:"CFBundleIdentifier"`
	BundleExecutable      string `plist:"CFBundleExecutable"`
	BundleIconFile        string `plist:"CFBundleIconFile"`
	BundlePackageType     string `plist:"CFBundlePackageType"`
	InfoDictionaryVersion string `plist:"CFBundleInfoDictionaryVersion"`
	HighResolutionCapable bool   `plist:"NSHighResolutionCapable"`
}

// WriteManifest generates the bundle manifest for the given display name.
func WriteManifest(root, name string) error {
	data, err := plist.MarshalIndent(manifest{
		BundleName:            name,
		BundleIdentifier:      name,
		BundleExecutable:      name,
		BundleIconFile:        name,
		BundlePackageType:     "APPL",
		InfoDictionaryVersion: "6.0",
		HighResolutionCapable: true,
	}, plist.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = os.WriteFile(ManifestPath(root), data, regularMode); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}
