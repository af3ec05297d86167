package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// MenuEntry is one selectable entry point of the bundle.
// Order matters: the first configured entry is the default selection.
type MenuEntry struct {
	// Label is the human-readable text shown in the selection dialog.
	Label string `yaml:"label"`
	// Target is the path launched when the label is chosen.
	// Windows-style paths (with backslashes) are translated at launch time.
	Target string `yaml:"target"`
}

// Spec holds the full configuration of one bundle assembly run.
// It is resolved once from flags, an optional YAML file and the environment,
// and treated as immutable afterwards.
type Spec struct {
	// Name is the display name of the bundle; it doubles as the bundle
	// identifier, executable name and icon name inside the bundle.
	Name string `yaml:"name"`
	// IconPath points to the source icon (.icns, .ico or a raster image).
	IconPath string `yaml:"icon"`
	// PrefixDir is the Wine prefix directory copied into the bundle.
	PrefixDir string `yaml:"prefix"`
	// EntryPoint is the statically configured program to launch.
	// It may be empty when menu entries are configured.
	EntryPoint string `yaml:"entry_point"`
	// MenuEntries lists the selectable entry points, in presentation order.
	MenuEntries []MenuEntry `yaml:"menu,omitempty"`
	// MenuPrompt is the text shown above the selection dialog.
	MenuPrompt string `yaml:"menu_prompt"`
	// Locale is exported as LC_ALL when the bundle launches.
	Locale string `yaml:"locale"`
	// Arch is exported as WINEARCH when the bundle launches (win32 or win64).
	Arch string `yaml:"arch"`
	// VersionSelector is a regular expression over runtime asset names
	// selecting which published Wine build to install.
	VersionSelector string `yaml:"version_selector"`
	// OutputDir is where the .app directory is created.
	OutputDir string `yaml:"output_dir"`
	// CacheDir stores downloaded runtime archives, shared across builds.
	CacheDir string `yaml:"cache_dir" env:"WINE_BUNDLER_CACHE_DIR"`
	// CatalogURL is the release listing API queried for runtime builds.
	CatalogURL string `yaml:"catalog_url" env:"WINE_BUNDLER_CATALOG_URL"`
	// Timeout bounds individual catalog requests.
	Timeout time.Duration `yaml:"timeout" env:"WINE_BUNDLER_TIMEOUT"`
}

const (
	// DefaultConfigFilename is the default filename for bundle settings.
	DefaultConfigFilename = "wine-bundler-settings.yaml"

	// DefaultCatalogURL is the release listing queried for Wine builds.
	DefaultCatalogURL = "https://api.github.com/repos/oshokin/wine-runtime/releases"

	// DefaultVersionSelector matches stable macOS Wine builds.
	DefaultVersionSelector = "^stable-.*-osx64$"

	// DefaultMenuPrompt is shown when menu entries are configured
	// without an explicit prompt.
	DefaultMenuPrompt = "What do you want to run?"

	// DefaultArch is the Wine architecture used when none is requested.
	DefaultArch = "win32"

	// DefaultLocale is exported at launch time when none is requested.
	DefaultLocale = "en_US.UTF-8"

	// DefaultTimeout is the default duration for catalog requests.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600

	// cacheSubdirectory is appended to the user cache directory.
	cacheSubdirectory = "wine-bundler"
)

var (
	// ErrSpecNotSet is returned when a nil specification is provided.
	ErrSpecNotSet = errors.New("specification is not set")
	// ErrNameRequired is returned when the bundle name is missing.
	ErrNameRequired = errors.New("bundle name must be provided")
	// ErrArchRequired is returned when the architecture is missing.
	ErrArchRequired = errors.New("architecture must be provided")
	// ErrLocaleRequired is returned when the locale is missing.
	ErrLocaleRequired = errors.New("locale must be provided")
	// ErrPrefixRequired is returned when the Wine prefix directory is missing.
	ErrPrefixRequired = errors.New("prefix directory must be provided")
	// errBadMenuEntry is returned when a menu entry flag is not label=path.
	errBadMenuEntry = errors.New("menu entry must have the form label=path")
)

// Load reads a specification from the provided path and validates it.
func Load(path string) (*Spec, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(contents, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

// Save writes the specification to the provided path.
func Save(path string, spec *Spec) error {
	if spec == nil {
		return ErrSpecNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(spec); err != nil {
		return err
	}

	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// ApplyEnvironment overlays environment overrides onto the specification.
// Only machine-level knobs (cache directory, catalog URL, timeout) are
// read from the environment; bundle identity always comes from flags or YAML.
func ApplyEnvironment(spec *Spec) error {
	if spec == nil {
		return ErrSpecNotSet
	}

	if err := env.Parse(spec); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	return nil
}

// Validate checks required fields and fills omitted ones with defaults.
func Validate(spec *Spec) error {
	if spec == nil {
		return ErrSpecNotSet
	}

	if strings.TrimSpace(spec.Name) == "" {
		return ErrNameRequired
	}

	if strings.TrimSpace(spec.PrefixDir) == "" {
		return ErrPrefixRequired
	}

	// Fill defaults before checking the rest.
	if spec.Arch == "" {
		spec.Arch = DefaultArch
	}

	if spec.Locale == "" {
		spec.Locale = DefaultLocale
	}

	if spec.VersionSelector == "" {
		spec.VersionSelector = DefaultVersionSelector
	}

	if spec.MenuPrompt == "" {
		spec.MenuPrompt = DefaultMenuPrompt
	}

	if spec.OutputDir == "" {
		spec.OutputDir = "."
	}

	if spec.Timeout <= 0 {
		spec.Timeout = DefaultTimeout
	}

	if spec.CacheDir == "" {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("resolve cache directory: %w", err)
		}

		spec.CacheDir = filepath.Join(userCache, cacheSubdirectory)
	}

	if spec.CatalogURL == "" {
		spec.CatalogURL = DefaultCatalogURL
	}

	if strings.TrimSpace(spec.Arch) == "" {
		return ErrArchRequired
	}

	if strings.TrimSpace(spec.Locale) == "" {
		return ErrLocaleRequired
	}

	if _, err := url.ParseRequestURI(spec.CatalogURL); err != nil {
		return fmt.Errorf("invalid catalog URL: %w", err)
	}

	for _, entry := range spec.MenuEntries {
		if entry.Label == "" || entry.Target == "" {
			return fmt.Errorf("%w: %q=%q", errBadMenuEntry, entry.Label, entry.Target)
		}
	}

	return nil
}

// ParseMenuEntries converts repeatable label=path flag values into entries,
// preserving the order in which they were given.
func ParseMenuEntries(values []string) ([]MenuEntry, error) {
	if len(values) == 0 {
		return nil, nil
	}

	entries := make([]MenuEntry, 0, len(values))

	for _, value := range values {
		label, target, found := strings.Cut(value, "=")
		if !found || label == "" || target == "" {
			return nil, fmt.Errorf("%w: %q", errBadMenuEntry, value)
		}

		entries = append(entries, MenuEntry{Label: label, Target: target})
	}

	return entries, nil
}

// BundlePath returns the bundle root directory for the specification.
func (s *Spec) BundlePath() string {
	return filepath.Join(s.OutputDir, s.Name+".app")
}
