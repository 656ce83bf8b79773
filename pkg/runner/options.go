// Package runner provides multi-file linting orchestration.
package runner

import (
	"context"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
)

// ConfigResolver supplies the effective configuration for a document.
type ConfigResolver interface {
	ConfigFor(ctx context.Context, path string) (*config.Config, []lint.Warning, error)
}

// StaticConfig applies one configuration to every document.
type StaticConfig struct {
	Config *config.Config
}

// ConfigFor returns the static configuration.
func (s StaticConfig) ConfigFor(context.Context, string) (*config.Config, []lint.Warning, error) {
	if s.Config == nil {
		return config.Default(), nil, nil
	}
	return s.Config, nil, nil
}

// Options controls multi-file linting behavior.
type Options struct {
	// Paths are files, directories or glob patterns to process.
	// If empty, defaults to the working directory.
	Paths []string

	// WorkingDir is the base directory for relative Paths and for patterns.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered Markdown. Defaults to DefaultExtensions().
	Extensions []string

	// Globs restrict discovery to matching paths, relative to WorkingDir.
	// A leading "!" turns a pattern into an exclusion.
	Globs []string

	// Ignores are glob patterns for files and directories to skip.
	Ignores []string

	// Gitignore skips paths matched by the .gitignore in WorkingDir.
	Gitignore bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Config resolves the configuration of each document.
	// Nil means the default configuration everywhere.
	Config ConfigResolver

	// Fix, when set, overrides the fix setting of every document.
	Fix *bool

	// DryRun computes diffs instead of writing fixed files.
	DryRun bool

	// MaxFixPasses limits fix passes per document; 0 means the default.
	MaxFixPasses int
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) resolver() ConfigResolver {
	if o.Config == nil {
		return StaticConfig{}
	}
	return o.Config
}

// pipelineOptions combines per-document settings with run-wide overrides.
func (o Options) pipelineOptions(cfg *config.Config) lint.PipelineOptions {
	opts := lint.PipelineOptionsFromConfig(cfg)
	if o.Fix != nil {
		opts.Fix = *o.Fix
	}
	opts.DryRun = o.DryRun
	opts.MaxFixPasses = o.MaxFixPasses
	return opts
}
