package reporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/mdcheck/internal/ui/pretty"
	"github.com/yaklabco/mdcheck/pkg/analysis"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/runner"
)

// DiffReporter prints the changes a dry-run fix would make as unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Report implements Reporter. It returns the number of files with changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}
	writeWarnings(r.opts, r.styles, result)

	var builder strings.Builder
	var files, additions, deletions int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.opts.errorWriter(), "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if file.Result == nil || file.Result.Diff == nil {
			continue
		}

		files++
		additions += file.Result.Diff.Additions
		deletions += file.Result.Diff.Deletions
		r.writeDiff(&builder, file.Result.Diff)
	}

	if files > 0 && r.opts.ShowSummary {
		builder.WriteString(r.summary(files, additions, deletions))
		builder.WriteString("\n")
	}

	if _, err := fmt.Fprint(r.opts.Writer, builder.String()); err != nil {
		return 0, fmt.Errorf("write diff: %w", err)
	}
	return files, nil
}

// writeDiff writes one file's diff with a git-style header.
func (r *DiffReporter) writeDiff(builder *strings.Builder, diff *fix.Diff) {
	display := *diff
	display.Path = analysis.RelativePath(diff.Path, r.opts.WorkingDir)

	path := strings.TrimPrefix(display.Path, "/")
	builder.WriteString(r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	builder.WriteString("\n")

	for line := range strings.SplitSeq(strings.TrimSuffix(display.String(), "\n"), "\n") {
		builder.WriteString(r.styleLine(line))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
}

func (r *DiffReporter) styleLine(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return r.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return r.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return r.styles.DiffRemove.Render(line)
	default:
		return r.styles.DiffContext.Render(line)
	}
}

// summary formats a git-style "N files changed" line.
func (r *DiffReporter) summary(files, additions, deletions int) string {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}
	return strings.Join(parts, ", ")
}

func plural(count int, singular, many string) string {
	if count == 1 {
		return singular
	}
	return many
}
