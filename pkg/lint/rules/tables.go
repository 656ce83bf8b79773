package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// tableRow is one source line of a table split at its unescaped pipes.
// Offsets index text.
type tableRow struct {
	line  int
	text  string
	start int   // first byte after blockquote markers and indentation
	end   int   // end of the row with trailing whitespace removed
	pipes []int // offsets of the cell separators
}

func splitRow(line int, text string) tableRow {
	row := tableRow{line: line, text: text}
	for row.start < len(text) && strings.IndexByte(" \t>", text[row.start]) >= 0 {
		row.start++
	}
	row.end = len(strings.TrimRight(text, " \t"))
	for i := row.start; i < row.end; i++ {
		switch text[i] {
		case '\\':
			i++
		case '|':
			row.pipes = append(row.pipes, i)
		}
	}
	return row
}

func (r tableRow) leading() bool {
	return len(r.pipes) > 0 && r.pipes[0] == r.start
}

func (r tableRow) trailing() bool {
	return len(r.pipes) > 0 && r.pipes[len(r.pipes)-1] == r.end-1 && (len(r.pipes) > 1 || !r.leading())
}

// edges returns the cell boundaries: the pipes, plus the row edges where
// the row has no outer pipe.
func (r tableRow) edges() []int {
	edges := slices.Clone(r.pipes)
	if !r.leading() {
		edges = slices.Insert(edges, 0, r.start-1)
	}
	if !r.trailing() {
		edges = append(edges, r.end)
	}
	return edges
}

func (r tableRow) cellCount() int {
	return len(r.edges()) - 1
}

// column returns the 1-based column of offset i.
func (r tableRow) column(i int) int {
	return lint.ColumnOf(r.text, i)
}

// table is a GFM table with its rows: header, delimiter row, then body.
type table struct {
	enclosed

	first, last int
	rows        []tableRow
}

func collectTables(doc *mdast.Document, report *lint.Report) []table {
	events := doc.Events()

	var out []table
	for _, e := range findEnclosed(events, mdast.KindTable) {
		t := table{enclosed: e}
		for _, row := range lint.Find(e.Inner(events), mdast.KindTableRow) {
			line := report.Line(row.Range.StartOffset)
			if line == 0 {
				return out
			}
			t.rows = append(t.rows, splitRow(line, lineText(doc, report, line)))
			if len(t.rows) == 1 && line < doc.LineCount() {
				t.rows = append(t.rows, splitRow(line+1, lineText(doc, report, line+1)))
			}
		}
		if len(t.rows) < 2 {
			continue
		}
		t.first, t.last = t.rows[0].line, t.rows[len(t.rows)-1].line
		out = append(out, t)
	}
	return out
}

// Pipe styles accepted by MD055.
const (
	pipesLeadingAndTrailing = "leading_and_trailing"
	pipesLeadingOnly        = "leading_only"
	pipesTrailingOnly       = "trailing_only"
	pipesNone               = "no_leading_or_trailing"
)

func pipeStyle(leading, trailing bool) string {
	switch {
	case leading && trailing:
		return pipesLeadingAndTrailing
	case leading:
		return pipesLeadingOnly
	case trailing:
		return pipesTrailingOnly
	default:
		return pipesNone
	}
}

// TablePipeStyleRule checks the leading and trailing pipes of table rows.
type TablePipeStyleRule struct {
	lint.BaseRule
}

// NewTablePipeStyleRule creates a new table-pipe-style rule.
func NewTablePipeStyleRule() *TablePipeStyleRule {
	return &TablePipeStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD055",
			"table-pipe-style",
			"Table pipe style",
			[]string{"table"},
			false,
		),
	}
}

// Check compares each row with the configured style. "consistent" takes
// the style of the first table's header row.
func (r *TablePipeStyleRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, codeStyleOptions{Style: styleConsistent})
	if err != nil {
		return nil, err
	}
	want := opts.Style
	switch want {
	case styleConsistent, pipesLeadingAndTrailing, pipesLeadingOnly, pipesTrailingOnly, pipesNone:
	default:
		return nil, fmt.Errorf("%w: unknown table pipe style %q", lint.ErrInvalidSettings, want)
	}

	report := lint.NewReport(r, doc)

	for _, t := range collectTables(doc, report) {
		for _, row := range t.rows {
			actual := pipeStyle(row.leading(), row.trailing())
			if want == styleConsistent {
				want = actual
			}
			wantLeading := want == pipesLeadingAndTrailing || want == pipesLeadingOnly
			wantTrailing := want == pipesLeadingAndTrailing || want == pipesTrailingOnly

			msg := fmt.Sprintf("Expected: %s; Actual: %s", want, actual)
			switch {
			case row.leading() && !wantLeading:
				report.At(row.line, row.column(row.start), msg+"; Unexpected leading pipe")
			case !row.leading() && wantLeading:
				report.At(row.line, row.column(row.start), msg+"; Missing leading pipe")
			}
			switch {
			case row.trailing() && !wantTrailing:
				report.At(row.line, row.column(row.end-1), msg+"; Unexpected trailing pipe")
			case !row.trailing() && wantTrailing:
				report.At(row.line, row.column(row.end), msg+"; Missing trailing pipe")
			}
		}
	}

	return report.Result()
}

// TableColumnCountRule checks that every body row has as many cells as
// the header.
type TableColumnCountRule struct {
	lint.BaseRule
}

// NewTableColumnCountRule creates a new table-column-count rule.
func NewTableColumnCountRule() *TableColumnCountRule {
	return &TableColumnCountRule{
		BaseRule: lint.NewBaseRule(
			"MD056",
			"table-column-count",
			"Table column count",
			[]string{"table"},
			false,
		),
	}
}

// Check reports short rows at their end and long rows at the first extra
// cell.
func (r *TableColumnCountRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	for _, t := range collectTables(doc, report) {
		want := t.rows[0].cellCount()
		for _, row := range t.rows[2:] {
			edges := row.edges()
			got := len(edges) - 1
			switch {
			case got < want:
				report.At(row.line, row.column(row.end),
					fmt.Sprintf("Expected: %d; Actual: %d; Too few cells, row will be missing data", want, got))
			case got > want:
				report.At(row.line, row.column(edges[want]+1),
					fmt.Sprintf("Expected: %d; Actual: %d; Too many cells, extra data will be missing", want, got))
			}
		}
	}

	return report.Result()
}

// BlanksAroundTablesRule checks that tables are surrounded by blank lines.
type BlanksAroundTablesRule struct {
	lint.BaseRule
}

// NewBlanksAroundTablesRule creates a new blanks-around-tables rule.
func NewBlanksAroundTablesRule() *BlanksAroundTablesRule {
	return &BlanksAroundTablesRule{
		BaseRule: lint.NewBaseRule(
			"MD058",
			"blanks-around-tables",
			"Tables should be surrounded by blank lines",
			[]string{"table"},
			true,
		),
	}
}

// Check inspects the lines around each table. A table opening or closing
// its list item or blockquote needs no blank line on that side.
func (r *BlanksAroundTablesRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	fm := skipped(doc, report)

	for _, t := range collectTables(doc, report) {
		var parentFirst, parentLast int
		if t.parent != nil {
			var err error
			if parentFirst, parentLast, err = lint.LineSpan(doc, t.parent.Range); err != nil {
				return nil, err
			}
		}

		if t.first > 1 && !fm[t.first-1] && parentFirst != t.first && blankAbove(doc, report, t.first) == 0 {
			report.AtWithFix(t.first, 1, "Tables should be surrounded by blank lines",
				insertBlankLines(doc, report, t.first, 1, "Insert blank line above table"))
		}
		if t.last < doc.LineCount() && parentLast != t.last && blankBelow(doc, report, t.last) == 0 {
			report.AtWithFix(t.last, 1, "Tables should be surrounded by blank lines",
				insertBlankLines(doc, report, t.last+1, 1, "Insert blank line below table"))
		}
	}

	return report.Result()
}

// Column styles accepted by MD060.
const (
	columnsAny     = "any"
	columnsAligned = "aligned"
	columnsCompact = "compact"
	columnsTight   = "tight"
)

// TableColumnStyleRule checks the spacing of table cells.
type TableColumnStyleRule struct {
	lint.BaseRule
}

// NewTableColumnStyleRule creates a new table-column-style rule.
func NewTableColumnStyleRule() *TableColumnStyleRule {
	return &TableColumnStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD060",
			"table-column-style",
			"Table column style",
			[]string{"table"},
			false,
		),
	}
}

// tableIssue is a pipe that breaks a column style.
type tableIssue struct {
	line, column int
	detail       string
}

// Check tests every table against the style. "aligned" wants every pipe
// in the column of the header's pipe above it, "compact" one space of
// padding around cell text and "tight" none. With "any", a table passes
// when it meets one of the three; otherwise it is reported against the
// first style its header row meets, falling back to aligned.
func (r *TableColumnStyleRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, codeStyleOptions{Style: columnsAny})
	if err != nil {
		return nil, err
	}
	switch opts.Style {
	case columnsAny, columnsAligned, columnsCompact, columnsTight:
	default:
		return nil, fmt.Errorf("%w: unknown table column style %q", lint.ErrInvalidSettings, opts.Style)
	}

	report := lint.NewReport(r, doc)

	for _, t := range collectTables(doc, report) {
		style := opts.Style
		if style == columnsAny {
			style = anyColumnStyle(t)
		}
		for _, issue := range columnIssues(t, style) {
			report.At(issue.line, issue.column,
				fmt.Sprintf("Table pipe %s for style %q", issue.detail, style))
		}
	}

	return report.Result()
}

// anyColumnStyle picks the style a table is held to under "any".
func anyColumnStyle(t table) string {
	styles := []string{columnsAligned, columnsCompact, columnsTight}
	for _, style := range styles {
		if len(columnIssues(t, style)) == 0 {
			return style
		}
	}
	header := table{rows: t.rows[:1]}
	for _, style := range styles[1:] {
		if len(columnIssues(header, style)) == 0 {
			return style
		}
	}
	return columnsAligned
}

func columnIssues(t table, style string) []tableIssue {
	if style == columnsAligned {
		return alignmentIssues(t)
	}
	want := 0
	if style == columnsCompact {
		want = 1
	}

	var issues []tableIssue
	for _, row := range t.rows {
		edges := row.edges()
		for i := range len(edges) - 1 {
			left, right := edges[i], edges[i+1]
			cell := row.text[left+1 : right]
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if i > 0 || row.leading() {
				pad := len(cell) - len(strings.TrimLeft(cell, " "))
				if detail := padIssue(pad, want, "right"); detail != "" {
					issues = append(issues, tableIssue{row.line, row.column(left), detail})
				}
			}
			if i < len(edges)-2 || row.trailing() {
				pad := len(cell) - len(strings.TrimRight(cell, " "))
				if detail := padIssue(pad, want, "left"); detail != "" {
					issues = append(issues, tableIssue{row.line, row.column(right), detail})
				}
			}
		}
	}
	return issues
}

func padIssue(pad, want int, side string) string {
	switch {
	case pad < want:
		return "is missing space to the " + side
	case pad > want:
		return "has extra space to the " + side
	}
	return ""
}

func alignmentIssues(t table) []tableIssue {
	header := t.rows[0]
	columns := make([]int, len(header.pipes))
	for i, p := range header.pipes {
		columns[i] = header.column(p)
	}

	var issues []tableIssue
	for _, row := range t.rows[1:] {
		for i, p := range row.pipes {
			if i >= len(columns) {
				break
			}
			if col := row.column(p); col != columns[i] {
				issues = append(issues, tableIssue{row.line, col, "does not align with heading"})
				break
			}
		}
	}
	return issues
}
