package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdcheck/internal/ui/pretty"
	"github.com/yaklabco/mdcheck/pkg/analysis"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
	"github.com/yaklabco/mdcheck/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  pretty.TerminalWidth(opts.Writer),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	writeWarnings(r.opts, r.styles, result)

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.opts.errorWriter(), "%s: %s\n",
				r.styles.FilePath.Render(r.path(file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if file.Result == nil || file.Result.FileResult == nil || len(file.Result.Violations) == 0 {
			continue
		}

		path := r.path(file.Path)
		violations := file.Result.Violations
		if r.opts.GroupByFile {
			fmt.Fprintln(bw, r.styles.FormatFileHeader(path, len(violations)))
		}

		for _, violation := range violations {
			fmt.Fprint(bw, r.styles.FormatViolation(path, violation, r.opts.RuleFormat))
			if r.opts.ShowContext {
				if line := sourceLine(file.Result.Document, violation); line != "" {
					fmt.Fprint(bw, r.styles.FormatSourceContext(line, violation.Column, r.width))
				}
			}
			total++
		}

		if r.opts.GroupByFile {
			fmt.Fprintln(bw)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) path(path string) string {
	return analysis.RelativePath(path, r.opts.WorkingDir)
}

func sourceLine(doc *mdast.Document, violation lint.Violation) string {
	if doc == nil {
		return ""
	}
	line, err := doc.Line(violation.Line)
	if err != nil {
		return ""
	}
	return line
}

// writeWarnings prints configuration and directive warnings to the error writer.
func writeWarnings(opts Options, styles *pretty.Styles, result *runner.Result) {
	if result == nil {
		return
	}
	for _, warning := range result.Warnings {
		fmt.Fprint(opts.errorWriter(), styles.FormatWarning(warning))
	}
}
