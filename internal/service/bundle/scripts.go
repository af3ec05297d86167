package bundle

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/oshokin/wine-bundler/internal/config"
)

// launchScriptTemplate is the bundle's executable. At launch time it locates
// its own install path, publishes the Wine environment, consults the optional
// selection menu and dispatches on the entry-point's path convention:
// Windows-style paths are translated through winepath and launched from their
// directory by basename, host paths are launched verbatim, an empty entry
// point is a silent no-op.
var launchScriptTemplate = template.Must(template.New("launch").
	Funcs(template.FuncMap{"shell": shellEscape}).
	Parse(`#!/bin/bash

CONTENTS="$(cd "$(dirname "$0")/.." && pwd)"
RESOURCES="${CONTENTS}/Resources"
WINE_HOME="${RESOURCES}/wine-home"

export WINEPREFIX="${RESOURCES}/wine-prefix"
export WINEARCH="{{shell .Arch}}"
export LC_ALL="{{shell .Locale}}"

TARGET="{{shell .EntryPoint}}"
if [ -f "${RESOURCES}/launcher.scpt" ]; then
    TARGET="$(osascript "${RESOURCES}/launcher.scpt")"
fi

if [ -z "${TARGET}" ]; then
    exit 0
fi

case "${TARGET}" in
*\\*)
    UNIX_TARGET="$("${WINE_HOME}/usr/bin/winepath" -u "${TARGET}")"
    cd "$(dirname "${UNIX_TARGET}")" || exit 1
    exec "${WINE_HOME}/usr/bin/wine" "$(basename "${UNIX_TARGET}")"
    ;;
*)
    exec "${WINE_HOME}/usr/bin/wine" "${TARGET}"
    ;;
esac
`))

// menuScriptTemplate is the native selection dialog executed by the launch
// script. Labels and targets live in two parallel lists; the first label is
// pre-selected, cancellation returns an empty string.
var menuScriptTemplate = template.Must(template.New("menu").
	Funcs(template.FuncMap{"as": applescriptEscape}).
	Parse(`set menuLabels to { {{- range $i, $e := .Entries}}{{if $i}}, {{end}}"{{as $e.Label}}"{{end}}}
set menuTargets to { {{- range $i, $e := .Entries}}{{if $i}}, {{end}}"{{as $e.Target}}"{{end}}}

set chosen to choose from list menuLabels with prompt "{{as .Prompt}}" default items {item 1 of menuLabels}
if chosen is false then
	return ""
end if

set chosenLabel to item 1 of chosen
repeat with i from 1 to count of menuLabels
	if item i of menuLabels is equal to chosenLabel then
		return item i of menuTargets
	end if
end repeat

return ""
`))

// launchScriptData feeds launchScriptTemplate.
type launchScriptData struct {
	Arch       string
	Locale     string
	EntryPoint string
}

// menuScriptData feeds menuScriptTemplate.
type menuScriptData struct {
	Prompt  string
	Entries []config.MenuEntry
}

// WriteLaunchScript generates the bundle's launch script with the executable
// bit set.
func WriteLaunchScript(root string, spec *config.Spec) error {
	var buf bytes.Buffer

	err := launchScriptTemplate.Execute(&buf, launchScriptData{
		Arch:       spec.Arch,
		Locale:     spec.Locale,
		EntryPoint: spec.EntryPoint,
	})
	if err != nil {
		return fmt.Errorf("render launch script: %w", err)
	}

	path := LaunchScriptPath(root, spec.Name)
	if err = os.WriteFile(path, buf.Bytes(), executableMode); err != nil {
		return fmt.Errorf("write launch script: %w", err)
	}

	return nil
}

// WriteMenuScript generates the selection-menu script from the configured
// entries. Callers must skip it when no entries are configured; the launch
// script's presence check handles the rest at launch time.
func WriteMenuScript(root string, spec *config.Spec) error {
	var buf bytes.Buffer

	err := menuScriptTemplate.Execute(&buf, menuScriptData{
		Prompt:  spec.MenuPrompt,
		Entries: spec.MenuEntries,
	})
	if err != nil {
		return fmt.Errorf("render menu script: %w", err)
	}

	if err = os.WriteFile(MenuScriptPath(root), buf.Bytes(), regularMode); err != nil {
		return fmt.Errorf("write menu script: %w", err)
	}

	return nil
}

// shellEscape makes a string safe for embedding between double quotes
// in the generated shell script.
func shellEscape(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"$", `\$`,
		"`", "\\`",
	)

	return replacer.Replace(s)
}

// applescriptEscape makes a string safe for embedding between double quotes
// in the generated AppleScript. Backslashes come first so guest-OS paths
// survive the round trip.
func applescriptEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
