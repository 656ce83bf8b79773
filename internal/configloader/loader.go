// Package configloader discovers and resolves configuration for documents.
// Per-directory files apply from the working-tree root down to a document's
// directory; an explicit file, MDCHECK_* environment variables and
// command-line overrides follow, in that order.
package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/yaklabco/mdcheck/internal/logging"
	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

// DefaultCacheSize is the number of directories whose configuration is kept.
const DefaultCacheSize = 256

// CLISource labels the command-line fragment in sources and warnings.
const CLISource = "command line"

// Options controls configuration resolution.
type Options struct {
	// Root is the working-tree root. When empty, the VCS root above the
	// working directory is used, else the working directory itself.
	Root string

	// ExplicitPath is an explicit config file path (from --config flag).
	// It applies to every document, after the directory files.
	ExplicitPath string

	// IgnoreEnv skips MDCHECK_* environment variables.
	IgnoreEnv bool

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config

	// Registry resolves rule keys. Defaults to the built-in rules.
	Registry *lint.Registry

	// CacheSize bounds the directory cache. Zero means DefaultCacheSize.
	CacheSize int
}

// Resolved is the effective configuration for one directory.
// It is shared between callers and must not be modified.
type Resolved struct {
	// Config is the merged configuration.
	Config *config.Config

	// Sources lists the merged fragments, lowest precedence first.
	Sources []string

	// Warnings are unknown rule keys and skipped files, from every source
	// that contributed.
	Warnings []lint.Warning
}

// dirLayer holds the directory fragments from the root down to one
// directory, and the effective configuration built from them.
type dirLayer struct {
	fragments []Fragment
	warnings  []lint.Warning
	resolved  *Resolved
}

// Resolver computes effective configurations and caches them per directory.
// It is safe for concurrent use.
type Resolver struct {
	root             string
	registry         *lint.Registry
	overrides        []Fragment
	overrideWarnings []lint.Warning
	layers           *lru.Cache[string, *dirLayer]
	inflight         singleflight.Group
}

// NewResolver loads the explicit file and the environment and CLI
// fragments once. Directory files are loaded lazily.
func NewResolver(ctx context.Context, opts Options) (*Resolver, error) {
	resolver := &Resolver{registry: opts.Registry}
	if resolver.registry == nil {
		resolver.registry = rules.DefaultRegistry()
	}

	root := opts.Root
	if root == "" {
		found, err := FindRoot(ctx, "")
		if err != nil {
			return nil, err
		}
		root = found
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	resolver.root = absRoot

	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	resolver.layers, err = lru.New[string, *dirLayer](size)
	if err != nil {
		return nil, fmt.Errorf("create config cache: %w", err)
	}

	if err := resolver.loadOverrides(ctx, opts); err != nil {
		return nil, err
	}

	return resolver, nil
}

func (r *Resolver) loadOverrides(ctx context.Context, opts Options) error {
	var fragments []Fragment

	if opts.ExplicitPath != "" {
		loaded, err := LoadFile(opts.ExplicitPath)
		if err != nil {
			return fmt.Errorf("load explicit config: %w", err)
		}
		fragments = append(fragments, loaded...)
	}

	if !opts.IgnoreEnv {
		lookup := opts.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		envCfg, err := FromEnv(lookup)
		if err != nil {
			return fmt.Errorf("load environment: %w", err)
		}
		if envCfg != nil {
			fragments = append(fragments, Fragment{Source: EnvSource, Config: envCfg})
		}
	}

	if opts.CLIConfig != nil {
		fragments = append(fragments, Fragment{Source: CLISource, Config: opts.CLIConfig})
	}

	for _, fragment := range fragments {
		normalized, warnings, err := r.prepare(fragment)
		if err != nil {
			return err
		}
		r.overrides = append(r.overrides, normalized)
		r.overrideWarnings = append(r.overrideWarnings, warnings...)
		logging.FromContext(ctx).Debug("loaded config", logging.FieldPath, fragment.Source)
	}

	return nil
}

// Root returns the absolute working-tree root.
func (r *Resolver) Root() string {
	return r.root
}

// Registry returns the registry rule keys are resolved against.
func (r *Resolver) Registry() *lint.Registry {
	return r.registry
}

// ForFile returns the effective configuration for the document at path.
func (r *Resolver) ForFile(ctx context.Context, path string) (*Resolved, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	return r.ForDir(ctx, filepath.Dir(abs))
}

// ForDir returns the effective configuration for documents in dir.
func (r *Resolver) ForDir(ctx context.Context, dir string) (*Resolved, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	layer, err := r.layer(ctx, abs)
	if err != nil {
		return nil, err
	}
	return layer.resolved, nil
}

func (r *Resolver) layer(ctx context.Context, dir string) (*dirLayer, error) {
	if cached, ok := r.layers.Get(dir); ok {
		return cached, nil
	}

	value, err, _ := r.inflight.Do(dir, func() (any, error) {
		if cached, ok := r.layers.Get(dir); ok {
			return cached, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		built := &dirLayer{}
		if chain := Chain(r.root, dir); len(chain) > 1 {
			parent, err := r.layer(ctx, chain[len(chain)-2])
			if err != nil {
				return nil, err
			}
			built.fragments = slices.Clone(parent.fragments)
			built.warnings = slices.Clone(parent.warnings)
		}

		own, warnings, err := r.loadDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		built.fragments = append(built.fragments, own...)
		built.warnings = append(built.warnings, warnings...)
		built.resolved = r.resolve(built)

		r.layers.Add(dir, built)
		return built, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*dirLayer), nil //nolint:forcetypeassert // Do only returns *dirLayer.
}

// loadDir loads the configuration files found directly in dir.
func (r *Resolver) loadDir(ctx context.Context, dir string) ([]Fragment, []lint.Warning, error) {
	found := FindInDir(dir)

	var warnings []lint.Warning
	for _, path := range found.Unsupported {
		warnings = append(warnings, lint.Warning{
			Source:  path,
			Message: "JavaScript configuration is not supported; file skipped",
		})
	}

	var fragments []Fragment
	for _, path := range found.Files() {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}

		for _, fragment := range loaded {
			normalized, fragmentWarnings, err := r.prepare(fragment)
			if err != nil {
				return nil, nil, err
			}
			fragments = append(fragments, normalized)
			warnings = append(warnings, fragmentWarnings...)
			logging.FromContext(ctx).Debug("loaded config", logging.FieldPath, fragment.Source)
		}
	}

	return fragments, warnings, nil
}

// prepare validates a fragment and rewrites its rule keys to canonical IDs.
func (r *Resolver) prepare(fragment Fragment) (Fragment, []lint.Warning, error) {
	if err := ValidateWithFile(fragment.Config, fragment.Source).Err(); err != nil {
		return Fragment{}, nil, err
	}

	cfg := fragment.Config.Clone()
	normalized, warnings := lint.Normalize(r.registry, cfg.Rules, fragment.Source)
	cfg.Rules = normalized

	return Fragment{Source: fragment.Source, Config: cfg}, warnings, nil
}

func (r *Resolver) resolve(layer *dirLayer) *Resolved {
	fragments := make([]Fragment, 0, len(layer.fragments)+len(r.overrides))
	fragments = append(fragments, layer.fragments...)
	fragments = append(fragments, r.overrides...)

	configs := make([]*config.Config, len(fragments))
	sources := make([]string, len(fragments))
	for i, fragment := range fragments {
		configs[i] = fragment.Config
		sources[i] = fragment.Source
	}

	warnings := make([]lint.Warning, 0, len(layer.warnings)+len(r.overrideWarnings))
	warnings = append(warnings, layer.warnings...)
	warnings = append(warnings, r.overrideWarnings...)

	return &Resolved{
		Config:   config.Merge(configs...),
		Sources:  sources,
		Warnings: warnings,
	}
}

// ConfigFor returns the effective configuration for the document at path
// and the warnings raised while loading it.
func (r *Resolver) ConfigFor(ctx context.Context, path string) (*config.Config, []lint.Warning, error) {
	resolved, err := r.ForFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return resolved.Config, resolved.Warnings, nil
}
