package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// TrailingWhitespaceRule checks for trailing whitespace on lines.
type TrailingWhitespaceRule struct {
	lint.BaseRule
}

// NewTrailingWhitespaceRule creates a new trailing whitespace rule.
func NewTrailingWhitespaceRule() *TrailingWhitespaceRule {
	return &TrailingWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"MD009",
			"no-trailing-spaces",
			"Trailing spaces",
			[]string{"whitespace"},
			true,
		),
	}
}

type trailingSpacesOptions struct {
	BrSpaces           int  `mapstructure:"br_spaces"`
	ListItemEmptyLines bool `mapstructure:"list_item_empty_lines"`
	Strict             bool `mapstructure:"strict"`
}

// Check reports lines ending in whitespace. Exactly br_spaces trailing
// spaces are allowed as a hard line break; in strict mode only where they
// actually produce one.
func (r *TrailingWhitespaceRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, trailingSpacesOptions{BrSpaces: 2})
	if err != nil {
		return nil, err
	}
	if opts.BrSpaces < 2 {
		opts.BrSpaces = 0
	}

	report := lint.NewReport(r, doc)
	skip := skipped(doc, report, mdast.KindCodeBlock)

	breaks := make(map[int]bool)
	for _, c := range lint.Find(doc.Events(), mdast.KindHardBreak) {
		breaks[report.Line(c.Range.StartOffset)] = true
	}

	var items map[int]bool
	if opts.ListItemEmptyLines {
		items, err = lint.LinesOf(doc, mdast.KindListItem)
		if err != nil {
			return nil, err
		}
	}

	for n, text := range doc.Lines() {
		if skip[n] {
			continue
		}
		content := strings.TrimRight(text, " \t")
		trailing := len(text) - len(content)
		if trailing == 0 {
			continue
		}
		if items[n] && content == "" && !strings.Contains(text, "\t") {
			continue
		}

		onlySpaces := !strings.Contains(text[len(content):], "\t")
		if onlySpaces && content != "" && trailing == opts.BrSpaces && (!opts.Strict || breaks[n]) {
			continue
		}

		expected := "0"
		if opts.BrSpaces > 0 {
			expected = fmt.Sprintf("0 or %d", opts.BrSpaces)
		}
		col := lint.ColumnOf(text, len(content))
		report.AtWithFix(n, col, fmt.Sprintf("Expected: %s; Actual: %d", expected, trailing),
			fix.Delete(mdast.Position{Line: n, Column: col},
				mdast.Position{Line: n, Column: lint.EndColumn(text)}, "Remove trailing whitespace"))
	}

	return report.Result()
}

// HardTabsRule checks for hard tab characters.
type HardTabsRule struct {
	lint.BaseRule
}

// NewHardTabsRule creates a new hard tabs rule.
func NewHardTabsRule() *HardTabsRule {
	return &HardTabsRule{
		BaseRule: lint.NewBaseRule(
			"MD010",
			"no-hard-tabs",
			"Hard tabs",
			[]string{"whitespace", "hard_tab"},
			true,
		),
	}
}

type hardTabsOptions struct {
	CodeBlocks          bool     `mapstructure:"code_blocks"`
	IgnoreCodeLanguages []string `mapstructure:"ignore_code_languages"`
	SpacesPerTab        int      `mapstructure:"spaces_per_tab"`
}

// Check reports each run of tabs; the fix replaces it with spaces_per_tab
// spaces per tab.
func (r *HardTabsRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, hardTabsOptions{CodeBlocks: true, SpacesPerTab: 1})
	if err != nil {
		return nil, err
	}
	if opts.SpacesPerTab < 0 {
		return nil, fmt.Errorf("%w: spaces_per_tab must not be negative", lint.ErrInvalidSettings)
	}

	report := lint.NewReport(r, doc)
	skip := skipped(doc, report)
	for _, c := range lint.Find(doc.Events(), mdast.KindCodeBlock) {
		lang, _, _ := strings.Cut(c.Attrs.Info, " ")
		if opts.CodeBlocks && !slices.ContainsFunc(opts.IgnoreCodeLanguages, func(l string) bool {
			return strings.EqualFold(l, lang)
		}) {
			continue
		}
		first, last, err := lint.LineSpan(doc, c.Range)
		if err != nil {
			return nil, err
		}
		for n := first; n <= last; n++ {
			skip[n] = true
		}
	}

	for n, text := range doc.Lines() {
		if skip[n] {
			continue
		}
		for i := 0; i < len(text); {
			if text[i] != '\t' {
				i++
				continue
			}
			j := i
			for j < len(text) && text[j] == '\t' {
				j++
			}
			col := lint.ColumnOf(text, i)
			report.AtWithFix(n, col, fmt.Sprintf("Hard tabs (%d)", j-i),
				fix.Replace(mdast.Position{Line: n, Column: col},
					mdast.Position{Line: n, Column: col + j - i},
					strings.Repeat(" ", (j-i)*opts.SpacesPerTab), "Replace tabs with spaces"))
			i = j
		}
	}

	return report.Result()
}

// MultipleBlankLinesRule checks for runs of consecutive blank lines.
type MultipleBlankLinesRule struct {
	lint.BaseRule
}

// NewMultipleBlankLinesRule creates a new multiple blank lines rule.
func NewMultipleBlankLinesRule() *MultipleBlankLinesRule {
	return &MultipleBlankLinesRule{
		BaseRule: lint.NewBaseRule(
			"MD012",
			"no-multiple-blanks",
			"Multiple consecutive blank lines",
			[]string{"whitespace", "blank_lines"},
			true,
		),
	}
}

type multipleBlanksOptions struct {
	Maximum int `mapstructure:"maximum"`
}

// Check reports each run of blank lines longer than maximum once, at the
// first line past the limit. The fix removes the excess lines.
func (r *MultipleBlankLinesRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, multipleBlanksOptions{Maximum: 1})
	if err != nil {
		return nil, err
	}
	if opts.Maximum < 0 {
		return nil, fmt.Errorf("%w: maximum must not be negative", lint.ErrInvalidSettings)
	}

	report := lint.NewReport(r, doc)
	skip := skipped(doc, report, mdast.KindCodeBlock)

	flush := func(start, count int) {
		if count <= opts.Maximum {
			return
		}
		first := start + opts.Maximum
		last := start + count - 1
		report.AtWithFix(first, 1, fmt.Sprintf("Expected: %d; Actual: %d", opts.Maximum, count),
			deleteLines(doc, report, first, last, "Remove extra blank lines"))
	}

	start, count := 0, 0
	for n, text := range doc.Lines() {
		if !skip[n] && lint.IsBlank(text) {
			if count == 0 {
				start = n
			}
			count++
			continue
		}
		flush(start, count)
		count = 0
	}
	flush(start, count)

	return report.Result()
}

// FinalNewlineRule checks that files end with a newline.
type FinalNewlineRule struct {
	lint.BaseRule
}

// NewFinalNewlineRule creates a new final newline rule.
func NewFinalNewlineRule() *FinalNewlineRule {
	return &FinalNewlineRule{
		BaseRule: lint.NewBaseRule(
			"MD047",
			"single-trailing-newline",
			"Files should end with a single newline character",
			[]string{"blank_lines"},
			true,
		),
	}
}

// Check reports a non-empty document whose last line lacks a terminator.
func (r *FinalNewlineRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	content := doc.Content()
	if len(content) == 0 || content[len(content)-1] == '\n' {
		return report.Result()
	}

	n := doc.LineCount()
	end := mdast.Position{Line: n, Column: lint.EndColumn(lineText(doc, report, n))}
	report.AtWithFix(end.Line, end.Column, "File does not end with a newline",
		fix.Insert(end, doc.LineEnding(), "Add trailing newline"))

	return report.Result()
}
