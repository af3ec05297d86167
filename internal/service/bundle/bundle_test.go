package bundle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"github.com/oshokin/wine-bundler/internal/config"
)

// TestCreateSkeletonAndPaths verifies the fixed directory layout.
func TestCreateSkeletonAndPaths(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "Heroes III.app")
	require.NoError(t, CreateSkeleton(root))

	require.DirExists(t, filepath.Join(root, "Contents", "MacOS"))
	require.DirExists(t, filepath.Join(root, "Contents", "Resources"))

	require.Equal(t, filepath.Join(root, "Contents", "MacOS", "Heroes III"), LaunchScriptPath(root, "Heroes III"))
	require.Equal(t, filepath.Join(root, "Contents", "Info.plist"), ManifestPath(root))
	require.Equal(t, filepath.Join(root, "Contents", "Resources", "Heroes III.icns"), IconPath(root, "Heroes III"))
	require.Equal(t, filepath.Join(root, "Contents", "Resources", "launcher.scpt"), MenuScriptPath(root))
	require.Equal(t, filepath.Join(root, "Contents", "Resources", "wine-home"), RuntimePath(root))
	require.Equal(t, filepath.Join(root, "Contents", "Resources", "wine-prefix"), PrefixPath(root))
}

// TestWriteManifest checks the generated Info.plist decodes with expected keys.
func TestWriteManifest(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "Game.app")
	require.NoError(t, CreateSkeleton(root))
	require.NoError(t, WriteManifest(root, "Game"))

	data, err := os.ReadFile(ManifestPath(root))
	require.NoError(t, err)

	var decoded map[string]any
	_, err = plist.Unmarshal(data, &decoded)
	require.NoError(t, err)

	require.Equal(t, "Game", decoded["CFBundleName"])
	require.Equal(t, "Game", decoded["CFBundleIdentifier"])
	require.Equal(t, "Game", decoded["CFBundleExecutable"])
	require.Equal(t, "Game", decoded["CFBundleIconFile"])
	require.Equal(t, "APPL", decoded["CFBundlePackageType"])
	require.Equal(t, true, decoded["NSHighResolutionCapable"])
}

// TestWriteLaunchScript covers environment exports and path dispatch branches.
func TestWriteLaunchScript(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "Game.app")
	require.NoError(t, CreateSkeleton(root))

	spec := &config.Spec{
		Name:       "Game",
		Arch:       "win32",
		Locale:     "ru_RU.UTF-8",
		EntryPoint: `C:\Games\x.exe`,
	}
	require.NoError(t, WriteLaunchScript(root, spec))

	path := LaunchScriptPath(root, "Game")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0o111, "launch script must be executable")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	script := string(data)

	require.True(t, strings.HasPrefix(script, "#!/bin/bash"))
	require.Contains(t, script, `export WINEPREFIX="${RESOURCES}/wine-prefix"`)
	require.Contains(t, script, `export WINEARCH="win32"`)
	require.Contains(t, script, `export LC_ALL="ru_RU.UTF-8"`)

	// Backslashes in the entry point are escaped for the shell context.
	require.Contains(t, script, `TARGET="C:\\Games\\x.exe"`)

	// Dispatch: translate-and-cd branch for guest paths, verbatim branch otherwise,
	// silent no-op for an empty resolved target.
	require.Contains(t, script, `winepath" -u "${TARGET}"`)
	require.Contains(t, script, `cd "$(dirname "${UNIX_TARGET}")"`)
	require.Contains(t, script, `exec "${WINE_HOME}/usr/bin/wine" "${TARGET}"`)
	require.Contains(t, script, "if [ -z \"${TARGET}\" ]; then\n    exit 0\nfi")

	// The menu script is consulted only when present.
	require.Contains(t, script, `if [ -f "${RESOURCES}/launcher.scpt" ]; then`)
}

// TestWriteMenuScript covers parallel lists, default selection and escaping.
func TestWriteMenuScript(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "Game.app")
	require.NoError(t, CreateSkeleton(root))

	spec := &config.Spec{
		Name:       "Game",
		MenuPrompt: `Pick "one"`,
		MenuEntries: []config.MenuEntry{
			{Label: "Game", Target: `C:\Games\h3\h3.exe`},
			{Label: "Editor", Target: `C:\Games\h3\editor.exe`},
		},
	}
	require.NoError(t, WriteMenuScript(root, spec))

	data, err := os.ReadFile(MenuScriptPath(root))
	require.NoError(t, err)
	script := string(data)

	require.Contains(t, script, `set menuLabels to {"Game", "Editor"}`)
	require.Contains(t, script, `set menuTargets to {"C:\\Games\\h3\\h3.exe", "C:\\Games\\h3\\editor.exe"}`)

	// First label is the pre-selected default.
	require.Contains(t, script, "default items {item 1 of menuLabels}")

	// Quotes in the prompt are escaped for the AppleScript context.
	require.Contains(t, script, `with prompt "Pick \"one\""`)

	// Cancellation returns an empty string.
	require.Contains(t, script, "if chosen is false then\n\treturn \"\"\nend if")
}

// TestCopyPrefixExcludesDeviceMappings verifies the dosdevices exclusion.
func TestCopyPrefixExcludesDeviceMappings(t *testing.T) {
	t.Parallel()

	source := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "drive_c", "windows"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(source, "dosdevices"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "system.reg"), []byte("WINE REGISTRY"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "dosdevices", "c:"), []byte("link"), 0o644))

	root := filepath.Join(t.TempDir(), "Game.app")
	require.NoError(t, CreateSkeleton(root))
	require.NoError(t, CopyPrefix(source, root))

	require.DirExists(t, filepath.Join(PrefixPath(root), "drive_c", "windows"))
	require.FileExists(t, filepath.Join(PrefixPath(root), "system.reg"))

	_, err := os.Stat(filepath.Join(PrefixPath(root), "dosdevices"))
	require.True(t, os.IsNotExist(err))
}
