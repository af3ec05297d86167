package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/wine-bundler/internal/config"
	"github.com/oshokin/wine-bundler/internal/logger"
	"github.com/oshokin/wine-bundler/internal/service/bundler"
	"github.com/oshokin/wine-bundler/internal/version"
)

var (
	// configPath to an optional YAML file seeding the bundle specification.
	configPath string
	// logLevel for the console logger.
	logLevel string

	// Bundle specification axes; explicit flags override YAML values.
	bundleName      string
	iconPath        string
	prefixDir       string
	entryPoint      string
	menuEntries     []string
	menuPrompt      string
	locale          string
	arch            string
	versionSelector string
	outputDir       string

	// rootCmd represents the base command assembling one application bundle.
	rootCmd = &cobra.Command{
		Use:   "wine-bundler",
		Short: "Package a Wine prefix into a self-contained macOS application bundle.",
		Long: `Assembles a double-clickable .app bundle from a configured Wine prefix.

The bundle carries its own Wine runtime, resolved from a version selector and
cached locally, a normalized .icns icon, a launch script and an optional
selection menu for choosing among several packaged programs.
A single forward assembly run is performed; an existing bundle directory is
never overwritten and a failed run leaves its partial output in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			spec, err := buildSpec()
			if err != nil {
				return err
			}

			return bundler.Run(ctx, &bundler.Options{Spec: spec})
		},
	}
)

// Execute runs the wine-bundler CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildSpec assembles the specification from the optional YAML file and flags.
// Flags win over YAML; omitted values fall back to defaults during validation.
func buildSpec() (*config.Spec, error) {
	spec := new(config.Spec)

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}

		spec = loaded
	}

	overlay := map[*string]string{
		&spec.Name:            bundleName,
		&spec.IconPath:        iconPath,
		&spec.PrefixDir:       prefixDir,
		&spec.EntryPoint:      entryPoint,
		&spec.MenuPrompt:      menuPrompt,
		&spec.Locale:          locale,
		&spec.Arch:            arch,
		&spec.VersionSelector: versionSelector,
		&spec.OutputDir:       outputDir,
	}
	for field, value := range overlay {
		if value != "" {
			*field = value
		}
	}

	if len(menuEntries) > 0 {
		entries, err := config.ParseMenuEntries(menuEntries)
		if err != nil {
			return nil, err
		}

		spec.MenuEntries = entries
	}

	return spec, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to YAML file seeding the bundle specification")
	flags.StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")
	flags.StringVarP(&bundleName, "name", "n", "", "display name of the bundle")
	flags.StringVarP(&iconPath, "icon", "i", "", "path to the source icon (.icns, .ico or raster image)")
	flags.StringVarP(&prefixDir, "prefix", "p", "", "path to the Wine prefix directory to package")
	flags.StringVarP(&entryPoint, "entry-point", "e", "", "program launched by the bundle (Windows or host path)")
	flags.StringArrayVarP(&menuEntries, "menu", "m", nil, "selectable entry point as label=path, repeatable")
	flags.StringVar(&menuPrompt, "menu-prompt", "", "prompt text of the selection menu")
	flags.StringVarP(&locale, "locale", "l", "", "locale exported at launch time (default "+config.DefaultLocale+")")
	flags.StringVarP(&arch, "arch", "a", "", "Wine architecture, win32 or win64 (default "+config.DefaultArch+")")
	flags.StringVarP(&versionSelector, "selector", "s", "",
		"regular expression selecting the runtime version (default "+config.DefaultVersionSelector+")")
	flags.StringVarP(&outputDir, "output", "o", "", "directory receiving the .app bundle (default current directory)")
}
