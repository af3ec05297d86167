package bundle

import (
	"fmt"
	"os"

	cp "github.com/otiai10/copy"
)

// deviceMapDirname is the prefix subdirectory holding host-specific device
// mappings. It must not be duplicated into the bundle; Wine regenerates it
// on first launch.
const deviceMapDirname = "dosdevices"

// CopyPrefix copies the source Wine prefix tree into the bundle's resource
// area, excluding the device-mapping subdirectory.
func CopyPrefix(sourceDir, root string) error {
	options := cp.Options{
		Skip: func(srcinfo os.FileInfo, _, _ string) (bool, error) {
			return srcinfo.IsDir() && srcinfo.Name() == deviceMapDirname, nil
		},
	}

	if err := cp.Copy(sourceDir, PrefixPath(root), options); err != nil {
		return fmt.Errorf("copy prefix: %w", err)
	}

	return nil
}
