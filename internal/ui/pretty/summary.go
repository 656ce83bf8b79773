package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/runner"
)

const summaryDividerWidth = 40

func plural(count int, singular, many string) string {
	if count == 1 {
		return singular
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 issues in 3 files, 6 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var fixed string
	if stats.FixesApplied > 0 {
		fixed = s.Success.Render(fmt.Sprintf("%d fixed in %d %s",
			stats.FixesApplied, stats.FilesModified, plural(stats.FilesModified, "file", "files")))
	}

	if stats.ViolationsTotal == 0 {
		msg := s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files")))
		if fixed != "" {
			msg += ", " + fixed
		}
		return msg + "\n"
	}

	parts := []string{
		s.Failure.Render(fmt.Sprintf("%d %s", stats.ViolationsTotal, plural(stats.ViolationsTotal, "issue", "issues"))) +
			fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, "file", "files")),
	}
	if stats.ViolationsFixable > 0 {
		parts = append(parts, s.Fixable.Render(fmt.Sprintf("%d fixable", stats.ViolationsFixable)))
	}
	if fixed != "" {
		parts = append(parts, fixed)
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesWithIssues > 0 {
		row("Files with issues", s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	if stats.FilesModified > 0 {
		row("Files modified", s.Success.Render(strconv.Itoa(stats.FilesModified)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Warning.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Error.Render(strconv.Itoa(stats.FilesErrored)))
	}

	builder.WriteString("\n")
	row("Total issues", s.SummaryValue.Render(strconv.Itoa(stats.ViolationsTotal)))
	if stats.ViolationsFixable > 0 {
		row("Fixable", s.Fixable.Render(strconv.Itoa(stats.ViolationsFixable)))
	}
	if stats.FixesApplied > 0 {
		row("Fixes applied", s.Success.Render(strconv.Itoa(stats.FixesApplied)))
	}
	if stats.ConflictsDropped > 0 {
		row("Fixes dropped", s.Warning.Render(strconv.Itoa(stats.ConflictsDropped)))
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.ViolationsTotal > 0:
		builder.WriteString(s.Failure.Render("Lint found issues"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
