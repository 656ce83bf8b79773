package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// itemIndent returns the line of the list item starting at off and the
// width of the whitespace before its marker. Inside a blockquote it is
// measured after the quote markers and the space following them. ok is
// false when something other than whitespace precedes the marker.
func itemIndent(doc *mdast.Document, report *lint.Report, off int) (line, indent int, ok bool) {
	line = report.Line(off)
	if line == 0 {
		return 0, 0, false
	}
	start, _ := doc.LineBounds(line)
	if off < start {
		return line, 0, false
	}
	before := string(doc.Content()[start:off])
	if prefix := quotePrefix(before); prefix != "" {
		before = strings.TrimPrefix(before[len(prefix):], " ")
	}
	if strings.Trim(before, " \t") != "" {
		return line, 0, false
	}
	return line, len(before), true
}

// markerWidth returns the length of the list marker at the start of item.
func markerWidth(content []byte, item lint.Construct) int {
	if !item.Attrs.Ordered {
		return 1
	}
	return digitsEnd(content, item.Range.StartOffset) - item.Range.StartOffset + 1
}

// reindent reports the item at off with a fix replacing the indent
// whitespace before its marker by want spaces.
func reindent(report *lint.Report, off, indent, want int, msg, description string) {
	pos, ok := report.Position(off)
	if !ok {
		return
	}
	from := mdast.Position{Line: pos.Line, Column: pos.Column - indent}
	report.AtOffsetWithFix(off, msg, fix.Replace(from, pos, strings.Repeat(" ", want), description))
}

// ListIndentRule checks that the items of a list share one indentation.
type ListIndentRule struct {
	lint.BaseRule
}

// NewListIndentRule creates a new list-indent rule.
func NewListIndentRule() *ListIndentRule {
	return &ListIndentRule{
		BaseRule: lint.NewBaseRule(
			"MD005",
			"list-indent",
			"Inconsistent indentation for list items at the same level",
			[]string{"bullet", "ul", "indentation"},
			true,
		),
	}
}

// Check compares every item with the first item of its list. Ordered
// items may instead right-align their numbers with the first one.
func (r *ListIndentRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	content := doc.Content()

	for _, l := range collectLists(doc.Events()) {
		if len(l.items) < 2 {
			continue
		}
		_, want, ok := itemIndent(doc, report, l.items[0].Range.StartOffset)
		if !ok {
			continue
		}
		wantEnd := want + markerWidth(content, l.items[0])

		for _, item := range l.items[1:] {
			_, indent, ok := itemIndent(doc, report, item.Range.StartOffset)
			if !ok || indent == want {
				continue
			}
			if l.Attrs.Ordered && indent+markerWidth(content, item) == wantEnd {
				continue
			}
			reindent(report, item.Range.StartOffset, indent, want,
				fmt.Sprintf("Expected: %d; Actual: %d", want, indent), "Align list item with its siblings")
		}
	}

	return report.Result()
}

// ULStartLeftRule checks that top-level bullet lists start at the left
// margin.
type ULStartLeftRule struct {
	lint.BaseRule
}

// NewULStartLeftRule creates a new ul-start-left rule.
func NewULStartLeftRule() *ULStartLeftRule {
	return &ULStartLeftRule{
		BaseRule: lint.NewBaseRule(
			"MD006",
			"ul-start-left",
			"Consider starting bulleted lists at the beginning of the line",
			[]string{"bullet", "ul", "indentation"},
			true,
		),
	}
}

// DefaultEnabled reports false; markdownlint retired this rule in favour
// of MD007 and only runs it when configured.
func (r *ULStartLeftRule) DefaultEnabled() bool { return false }

// Check reports indented items of unordered lists that are not nested in
// another list.
func (r *ULStartLeftRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	for _, l := range collectLists(doc.Events()) {
		if l.Attrs.Ordered || l.nested {
			continue
		}
		for _, item := range l.items {
			_, indent, ok := itemIndent(doc, report, item.Range.StartOffset)
			if !ok || indent == 0 {
				continue
			}
			reindent(report, item.Range.StartOffset, indent, 0,
				fmt.Sprintf("Expected: 0; Actual: %d", indent), "Move list item to the left margin")
		}
	}

	return report.Result()
}

// ULIndentRule checks the indentation of nested bullet lists.
type ULIndentRule struct {
	lint.BaseRule
}

// NewULIndentRule creates a new ul-indent rule.
func NewULIndentRule() *ULIndentRule {
	return &ULIndentRule{
		BaseRule: lint.NewBaseRule(
			"MD007",
			"ul-indent",
			"Unordered list indentation",
			[]string{"bullet", "ul", "indentation"},
			true,
		),
	}
}

type ulIndentOptions struct {
	Indent        int  `mapstructure:"indent"`
	StartIndented bool `mapstructure:"start_indented"`
	StartIndent   int  `mapstructure:"start_indent"`
}

// Check expects each item of an unordered list at depth d to be indented
// by d*indent spaces, plus start_indent when start_indented is set. Lists
// nested in an ordered list are left to MD005.
func (r *ULIndentRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, ulIndentOptions{Indent: 2, StartIndent: 2})
	if err != nil {
		return nil, err
	}
	if opts.Indent < 1 || opts.StartIndent < 0 {
		return nil, fmt.Errorf("%w: indent must be positive and start_indent not negative", lint.ErrInvalidSettings)
	}
	base := 0
	if opts.StartIndented {
		base = opts.StartIndent
	}

	report := lint.NewReport(r, doc)

	for _, l := range collectLists(doc.Events()) {
		if l.Attrs.Ordered || l.inOrdered {
			continue
		}
		want := base + l.depth*opts.Indent
		for _, item := range l.items {
			_, indent, ok := itemIndent(doc, report, item.Range.StartOffset)
			if !ok || indent == want {
				continue
			}
			reindent(report, item.Range.StartOffset, indent, want,
				fmt.Sprintf("Expected: %d; Actual: %d", want, indent), "Indent list item")
		}
	}

	return report.Result()
}
