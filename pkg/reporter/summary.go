package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/mdcheck/internal/ui/pretty"
	"github.com/yaklabco/mdcheck/pkg/analysis"
)

// Column limits for summary tables.
const (
	maxRuleNameLength = 32
	maxFilePathLength = 60
)

// SummaryRenderer formats results as per-rule and per-file count tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	for _, warning := range report.Warnings {
		fmt.Fprintln(r.opts.errorWriter(), r.styles.Warning.Render("warning:")+" "+warning)
	}
	for _, failed := range report.Errors {
		fmt.Fprintf(r.opts.errorWriter(), "%s: %s\n",
			r.styles.FilePath.Render(failed.FilePath), r.styles.Error.Render("error: "+failed.Error))
	}

	if report.Totals.Violations == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.Success.Render("No issues found"))
		return err
	}

	rules, files := r.ruleTable(report.ByRule), r.fileTable(report.ByFile)
	first, second := rules, files
	if r.opts.SummaryOrder == SummaryOrderFiles {
		first, second = files, rules
	}

	_, err := fmt.Fprintf(r.out, "%s\n\n%s\n\n%s\n", first, second, r.totals(report.Totals))
	return err
}

func (r *SummaryRenderer) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Dim).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Inherit(r.styles.Bold)
			case col > 0:
				return style.Align(lipgloss.Right)
			default:
				return style
			}
		})
}

func (r *SummaryRenderer) ruleTable(rules []analysis.RuleAnalysis) string {
	t := r.newTable("Rule", "Count", "Files", "Fixable")
	for _, rule := range rules {
		t.Row(
			pretty.Truncate(rule.Rule, maxRuleNameLength),
			strconv.Itoa(rule.Violations),
			strconv.Itoa(len(rule.Files)),
			strconv.Itoa(rule.Fixable),
		)
	}
	return r.styles.Bold.Render("Rules") + "\n" + t.String()
}

func (r *SummaryRenderer) fileTable(files []analysis.FileAnalysis) string {
	t := r.newTable("File", "Count", "Rules", "Fixable")
	for _, file := range files {
		t.Row(
			truncatePath(file.Path, maxFilePathLength),
			strconv.Itoa(file.Violations),
			strconv.Itoa(len(file.Rules)),
			strconv.Itoa(file.Fixable),
		)
	}
	return r.styles.Bold.Render("Files") + "\n" + t.String()
}

func (r *SummaryRenderer) totals(totals analysis.Totals) string {
	line := fmt.Sprintf("%d %s in %d %s",
		totals.Violations, plural(totals.Violations, "issue", "issues"),
		totals.FilesWithIssues, plural(totals.FilesWithIssues, "file", "files"))
	if totals.Fixable > 0 {
		line += ", " + r.styles.Fixable.Render(fmt.Sprintf("%d fixable", totals.Fixable))
	}
	return r.styles.Bold.Render("Total: ") + line
}

// truncatePath keeps the end of a long path, where the file name is.
func truncatePath(path string, width int) string {
	runes := []rune(path)
	if len(runes) <= width {
		return path
	}
	return "..." + string(runes[len(runes)-(width-3):])
}
