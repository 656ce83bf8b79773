package runner

import "github.com/yaklabco/mdcheck/pkg/lint"

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// Nil if the file could not be processed.
	Result *lint.PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesSkipped counts files left alone because they changed on disk
	// while they were fixed.
	FilesSkipped int

	FilesErrored    int
	FilesWithIssues int
	FilesModified   int

	ViolationsTotal   int
	ViolationsFixable int

	// FixesApplied is the total number of fixes applied across all files.
	FixesApplied int

	// ConflictsDropped counts fixes dropped because they overlapped another.
	ConflictsDropped int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	Stats Stats

	// Warnings are configuration problems, each reported once.
	Warnings []lint.Warning
}

// HasIssues reports whether any violations were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.ViolationsTotal > 0
}

// HasErrors reports whether any file could not be processed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Result.Skipped {
		r.Stats.FilesSkipped++
	}
	if outcome.Result.Written {
		r.Stats.FilesModified++
	}
	r.Stats.FixesApplied += outcome.Result.FixesApplied
	r.Stats.ConflictsDropped += outcome.Result.DroppedCount()

	if outcome.Result.FileResult != nil {
		count := len(outcome.Result.Violations)
		r.Stats.ViolationsTotal += count
		r.Stats.ViolationsFixable += outcome.Result.FixableCount()
		if count > 0 {
			r.Stats.FilesWithIssues++
		}
	}
}

// addWarnings records config warnings not seen before.
func (r *Result) addWarnings(seen map[string]struct{}, warnings []lint.Warning) {
	for _, warning := range warnings {
		key := warning.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		r.Warnings = append(r.Warnings, warning)
	}
}
