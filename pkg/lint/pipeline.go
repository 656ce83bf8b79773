package lint

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/fsutil"
)

// DefaultMaxFixPasses is the maximum number of fix passes to prevent infinite loops.
// A later pass picks up fixes dropped for conflicts and issues a fix uncovered.
const DefaultMaxFixPasses = 10

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates a parsing error.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// FileResult holds the violations of the FINAL pass: after fixing, only
	// what the fixes left behind.
	*FileResult

	// Path is the file path that was processed.
	Path string

	// Modified is true if fixing changed the content.
	Modified bool

	// FixedContent is the content after all passes (nil if not modified).
	FixedContent []byte

	// Diff shows the changes instead of writing them (dry-run only).
	Diff *fix.Diff

	// DroppedFixes joins, with multierr, one *fix.ConflictError per fix
	// dropped for overlapping another, across all passes. Nil when none.
	DroppedFixes error

	// Skipped is true if the file changed on disk while it was processed.
	Skipped bool

	// Written is true if the file was written to disk.
	Written bool

	// FixPasses is the number of passes that applied at least one fix.
	FixPasses int

	// FixesApplied is the total number of fixes applied across all passes.
	FixesApplied int
}

// DroppedCount returns the number of fixes dropped for conflicts.
func (pr *PipelineResult) DroppedCount() int {
	return len(multierr.Errors(pr.DroppedFixes))
}

// Summary returns a short human-readable status.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: file modified during processing"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	// Fix enables fixing.
	Fix bool

	// DryRun computes a diff instead of writing fixed files.
	DryRun bool

	// MaxFixPasses limits the number of lint-and-fix rounds.
	// Set to 0 to use DefaultMaxFixPasses.
	MaxFixPasses int
}

// PipelineOptionsFromConfig creates PipelineOptions from an effective configuration.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return PipelineOptions{}
	}
	return PipelineOptions{Fix: cfg.FixEnabled()}
}

// Pipeline runs lint and fix for one file at a time.
type Pipeline struct {
	// Engine is the lint engine used for parsing and rule execution.
	Engine *Engine
}

// NewPipeline creates a new pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile reads, lints and optionally fixes a file.
//
// The steps:
//  1. Read the file and remember its state.
//  2. Lint, and in fix mode apply fixes and re-lint until stable.
//  3. In dry-run mode, return a diff and stop.
//  4. Skip the write if the file changed on disk meanwhile.
//  5. Write the fixed content atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, snap.Content, cfg, opts)
	if err != nil {
		return nil, err
	}
	if !result.Modified || opts.DryRun {
		return result, nil
	}

	changed, err := snap.Changed(ctx)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if changed {
		result.Skipped = true
		return result, nil
	}

	if err := fsutil.WriteAtomic(ctx, path, result.FixedContent, snap.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent lints and optionally fixes in-memory content.
//
// Each fix pass parses the current text into a fresh Document, lints it,
// and applies the fixes of the remaining violations. The loop stops when a
// pass has nothing to apply or after MaxFixPasses passes.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	content := original
	for pass := 0; ; pass++ {
		fileResult, err := p.Engine.LintFile(ctx, path, content, cfg)
		if err != nil {
			return nil, err
		}
		result.FileResult = fileResult

		if !opts.Fix || pass == maxPasses {
			break
		}

		fixes := CollectFixes(fileResult.Violations)
		if len(fixes) == 0 {
			break
		}

		applied, err := fix.Apply(content, fixes)
		if err != nil {
			return nil, fmt.Errorf("apply fixes: %w", err)
		}
		result.DroppedFixes = multierr.Append(result.DroppedFixes, applied.Err())
		if !applied.Changed() {
			break
		}

		content = applied.Text
		result.FixPasses++
		result.FixesApplied += len(applied.Applied)
		result.Modified = true
	}

	if !result.Modified {
		return result, nil
	}

	result.FixedContent = content
	if opts.DryRun {
		result.Diff = fix.Unified(path, original, content)
	}

	return result, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}
