// Package analysis aggregates a run's violations into per-file and
// per-rule views for reporting.
package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// RelativePath converts path to be relative to workDir. If workDir is
// empty or conversion fails, path is returned unchanged.
func RelativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}

type fileAcc struct {
	FileAnalysis
	rules map[string]struct{}
}

type ruleAcc struct {
	RuleAnalysis
	files map[string]struct{}
}

// Analyze transforms a runner.Result into a Report in a single pass
// over the violations.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion}
	if result == nil {
		return report
	}

	for _, warning := range result.Warnings {
		report.Warnings = append(report.Warnings, warning.String())
	}

	files := make(map[string]*fileAcc)
	ruleMap := make(map[string]*ruleAcc)

	for _, outcome := range result.Files {
		path := RelativePath(outcome.Path, opts.WorkingDir)
		report.Totals.Files++

		if outcome.Error != nil {
			report.Totals.FilesErrored++
			report.Errors = append(report.Errors, FileError{FilePath: path, Error: outcome.Error.Error()})
			continue
		}
		if outcome.Result == nil {
			continue
		}
		if outcome.Result.Written {
			report.Totals.FilesModified++
		}
		report.Totals.FixesApplied += outcome.Result.FixesApplied

		if outcome.Result.FileResult == nil || len(outcome.Result.Violations) == 0 {
			continue
		}
		report.Totals.FilesWithIssues++

		fa := &fileAcc{FileAnalysis: FileAnalysis{Path: path}, rules: make(map[string]struct{})}
		files[path] = fa

		for _, violation := range outcome.Result.Violations {
			label := config.FormatRuleID(opts.RuleFormat, violation.RuleID, violation.RuleName)

			report.Totals.Violations++
			fa.Violations++
			fa.rules[label] = struct{}{}

			ra, ok := ruleMap[violation.RuleID]
			if !ok {
				ra = &ruleAcc{
					RuleAnalysis: RuleAnalysis{RuleID: violation.RuleID, RuleName: violation.RuleName, Rule: label},
					files:        make(map[string]struct{}),
				}
				ruleMap[violation.RuleID] = ra
			}
			ra.Violations++
			ra.files[path] = struct{}{}

			if violation.HasFix() {
				report.Totals.Fixable++
				fa.Fixable++
				ra.Fixable++
			}

			if opts.IncludeViolations {
				report.Violations = append(report.Violations, entry(path, label, violation))
			}
		}
	}

	for _, fa := range files {
		fa.Rules = slices.Sorted(maps.Keys(fa.rules))
		report.ByFile = append(report.ByFile, fa.FileAnalysis)
	}
	for _, ra := range ruleMap {
		ra.Files = slices.Sorted(maps.Keys(ra.files))
		report.ByRule = append(report.ByRule, ra.RuleAnalysis)
	}

	slices.SortFunc(report.ByFile, func(left, right FileAnalysis) int {
		return compare(opts.SortBy, left.Violations, right.Violations, left.Path, right.Path)
	})
	slices.SortFunc(report.ByRule, func(left, right RuleAnalysis) int {
		return compare(opts.SortBy, left.Violations, right.Violations, left.RuleID, right.RuleID)
	})

	return report
}

func compare(sortBy SortField, leftCount, rightCount int, leftKey, rightKey string) int {
	if sortBy != SortByAlpha {
		if result := cmp.Compare(rightCount, leftCount); result != 0 {
			return result
		}
	}
	return cmp.Compare(leftKey, rightKey)
}

func entry(path, label string, violation lint.Violation) ViolationEntry {
	out := ViolationEntry{
		FilePath: path,
		RuleID:   violation.RuleID,
		RuleName: violation.RuleName,
		Rule:     label,
		Message:  violation.Message,
		Line:     violation.Line,
		Column:   violation.Column,
		Fixable:  violation.HasFix(),
	}
	if violation.Fix != nil {
		out.Fix = &FixEntry{
			StartLine:   violation.Fix.Start.Line,
			StartColumn: violation.Fix.Start.Column,
			EndLine:     violation.Fix.End.Line,
			EndColumn:   violation.Fix.End.Column,
			Replacement: violation.Fix.Replacement,
		}
	}
	return out
}
