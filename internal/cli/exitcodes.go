package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/mdcheck/internal/configloader"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/runner"
)

// Exit codes for mdcheck.
const (
	// ExitSuccess indicates a run with no violations.
	ExitSuccess = 0

	// ExitViolations indicates the run completed and found violations.
	ExitViolations = 1

	// ExitFailure indicates files that could not be processed.
	ExitFailure = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates an invalid configuration.
	ExitConfigError = 65
)

var (
	// ErrLintIssuesFound is returned when violations remain after the run.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrFilesFailed is returned when some files could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")

	// ErrUsage marks invalid flag values.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration that could not be loaded.
	ErrConfig = errors.New("invalid configuration")
)

// ResultError returns the error signalling a run's outcome, or nil when
// the run is clean. Unprocessable files outrank violations; the first file
// that failed to read, parse or write is named in the error.
func ResultError(result *runner.Result) error {
	switch {
	case result == nil:
		return nil
	case result.HasErrors():
		for _, outcome := range result.Files {
			if lint.IsPipelineError(outcome.Error) {
				return fmt.Errorf("%w: %s: %w", ErrFilesFailed, outcome.Path, outcome.Error)
			}
		}
		return ErrFilesFailed
	case result.HasIssues():
		return ErrLintIssuesFound
	default:
		return nil
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitViolations
	case errors.Is(err, ErrFilesFailed), lint.IsPipelineError(err):
		// Checked before the config cases: a file whose configuration
		// failed to resolve is a file failure.
		return ExitFailure
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validation):
		return ExitConfigError
	default:
		return ExitFailure
	}
}
