package runner

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdcheck/internal/logging"
	"github.com/yaklabco/mdcheck/pkg/lint"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them concurrently.
// Each file gets the configuration opts.Config resolves for it. Outcomes
// come back in path order whatever the scheduling.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))
	warnings := make([][]lint.Warning, len(files))
	resolver := opts.resolver()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[i], warnings[i] = r.process(groupCtx, resolver, path, opts)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	seen := make(map[string]struct{})
	for i, outcome := range outcomes {
		result.addWarnings(seen, warnings[i])
		result.accumulate(outcome)
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldViolationsTotal, result.Stats.ViolationsTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
	)

	return result, nil
}

func (r *Runner) process(
	ctx context.Context,
	resolver ConfigResolver,
	path string,
	opts Options,
) (FileOutcome, []lint.Warning) {
	outcome := FileOutcome{Path: path}
	ctx = logging.WithFields(ctx, logging.FieldPath, path)
	start := time.Now()

	cfg, warnings, err := resolver.ConfigFor(ctx, path)
	if err != nil {
		outcome.Error = fmt.Errorf("resolve config: %w", err)
		return outcome, nil
	}

	pr, err := r.Pipeline.ProcessFile(ctx, path, cfg, opts.pipelineOptions(cfg))
	if err != nil {
		outcome.Error = err
		return outcome, warnings
	}
	outcome.Result = pr
	if pr.FileResult != nil {
		warnings = slices.Concat(warnings, pr.Warnings)
	}

	logger := logging.FromContext(ctx)
	for _, dropped := range multierr.Errors(pr.DroppedFixes) {
		logger.Warn("fix dropped", logging.FieldError, dropped)
	}
	logger.Debug("processed", logging.FieldDuration, time.Since(start), logging.FieldFixPasses, pr.FixPasses)

	return outcome, warnings
}
