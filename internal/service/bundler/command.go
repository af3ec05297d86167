package bundler

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/wine-bundler/internal/catalog"
	"github.com/oshokin/wine-bundler/internal/config"
	"github.com/oshokin/wine-bundler/internal/logger"
	"github.com/oshokin/wine-bundler/internal/service/bundle"
	"github.com/oshokin/wine-bundler/internal/service/icon"
	"github.com/oshokin/wine-bundler/internal/service/resolver"
	"github.com/oshokin/wine-bundler/internal/service/runtime"
)

// Options contains inputs for the bundler entry point.
type Options struct {
	// Spec is the fully-populated bundle specification.
	Spec *config.Spec
}

// builder drives one bundle assembly run.
// It is unexported—callers should use Run, which encapsulates validation.
type builder struct {
	// spec is the validated configuration of this run.
	spec *config.Spec
	// root is the bundle directory under construction.
	root string
	// version is the resolved runtime version.
	version string
	// installer fetches and installs the runtime distribution.
	installer *runtime.Installer
}

// step is one named stage of the fixed assembly sequence.
type step struct {
	name string
	run  func(ctx context.Context) error
}

var (
	// ErrBundleExists is returned when the bundle root already exists;
	// a previous (possibly failed) bundle must be removed manually.
	ErrBundleExists = errors.New("bundle directory already exists")
	// ErrVersionRequired is returned when version resolution yields nothing.
	ErrVersionRequired = errors.New("runtime version must resolve to a known value")
	// errPrefixNotFound is returned when the source prefix directory is absent.
	errPrefixNotFound = errors.New("prefix directory does not exist")
)

// Run executes one full bundle assembly.
// Validation happens before any filesystem mutation; afterwards the builder
// steps run in fixed order and the first failure aborts the whole run,
// leaving whatever was written so far in place.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "wine-bundler")

	b, err := newBuilder(ctx, opts.Spec)
	if err != nil {
		return err
	}

	for _, s := range b.steps() {
		logger.InfoKV(ctx, "Running assembly step", "step", s.name)

		if err = s.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	logger.InfoKV(ctx, "Bundle assembled", "path", b.root, "runtime_version", b.version)

	return nil
}

// newBuilder validates preconditions and resolves the runtime version.
func newBuilder(ctx context.Context, spec *config.Spec) (*builder, error) {
	if err := config.ApplyEnvironment(spec); err != nil {
		return nil, err
	}

	if err := config.Validate(spec); err != nil {
		return nil, err
	}

	info, err := os.Stat(spec.PrefixDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", spec.PrefixDir, errPrefixNotFound)
	}

	root := spec.BundlePath()
	if _, err = os.Stat(root); err == nil {
		return nil, fmt.Errorf("%s: %w", root, ErrBundleExists)
	}

	cat := catalog.NewClient(spec.CatalogURL, spec.Timeout)

	version, err := resolver.New(spec.CacheDir, cat).Resolve(ctx, spec.VersionSelector)
	if err != nil {
		return nil, err
	}

	if version == "" {
		return nil, ErrVersionRequired
	}

	return &builder{
		spec:      spec,
		root:      root,
		version:   version,
		installer: runtime.NewInstaller(spec.CacheDir, cat),
	}, nil
}

// steps returns the fixed assembly sequence. The menu step is present only
// when menu entries are configured; the launch script's own presence check
// covers the absent case at launch time.
func (b *builder) steps() []step {
	steps := []step{
		{"create skeleton", func(context.Context) error {
			return bundle.CreateSkeleton(b.root)
		}},
		{"write manifest", func(context.Context) error {
			return bundle.WriteManifest(b.root, b.spec.Name)
		}},
		{"write launch script", func(context.Context) error {
			return bundle.WriteLaunchScript(b.root, b.spec)
		}},
	}

	if len(b.spec.MenuEntries) > 0 {
		steps = append(steps, step{"write menu script", func(context.Context) error {
			return bundle.WriteMenuScript(b.root, b.spec)
		}})
	}

	steps = append(steps,
		step{"install icon", func(context.Context) error {
			return icon.Normalize(b.spec.IconPath, bundle.IconPath(b.root, b.spec.Name))
		}},
		step{"install runtime", func(ctx context.Context) error {
			return b.installer.Install(ctx, bundle.RuntimePath(b.root), b.version)
		}},
		step{"copy prefix", func(context.Context) error {
			return bundle.CopyPrefix(b.spec.PrefixDir, b.root)
		}},
		step{"finalize", func(context.Context) error {
			return bundle.Touch(b.root)
		}},
	)

	return steps
}
