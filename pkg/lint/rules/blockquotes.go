package rules

import (
	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// NoMultipleSpaceBlockquoteRule checks for multiple spaces after blockquote
// markers.
type NoMultipleSpaceBlockquoteRule struct {
	lint.BaseRule
}

// NewNoMultipleSpaceBlockquoteRule creates a new no-multiple-space-blockquote rule.
func NewNoMultipleSpaceBlockquoteRule() *NoMultipleSpaceBlockquoteRule {
	return &NoMultipleSpaceBlockquoteRule{
		BaseRule: lint.NewBaseRule(
			"MD027",
			"no-multiple-space-blockquote",
			"Multiple spaces after blockquote symbol",
			[]string{"blockquote", "whitespace", "indentation"},
			true,
		),
	}
}

// Check inspects the markers of each quoted line outside code blocks.
func (r *NoMultipleSpaceBlockquoteRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	quoted, err := lint.LinesOf(doc, mdast.KindBlockquote)
	if err != nil {
		return nil, err
	}
	skip := skipped(doc, report, mdast.KindCodeBlock)

	for n, text := range doc.Lines() {
		if !quoted[n] || skip[n] {
			continue
		}

		i := 0
		for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
		for i < len(text) && text[i] == '>' {
			j := i + 1
			for j < len(text) && text[j] == ' ' {
				j++
			}
			spaces := j - i - 1
			if j < len(text) && text[j] == '>' {
				i = j
				continue
			}
			if spaces > 1 && j < len(text) {
				from := mdast.Position{Line: n, Column: lint.ColumnOf(text, i+2)}
				to := mdast.Position{Line: n, Column: lint.ColumnOf(text, j)}
				report.AtWithFix(n, lint.ColumnOf(text, i), "Multiple spaces after blockquote symbol",
					fix.Delete(from, to, "Remove extra spaces"))
			}
			break
		}
	}

	return report.Result()
}

// NoBlanksBlockquoteRule checks for blank lines between blockquotes.
type NoBlanksBlockquoteRule struct {
	lint.BaseRule
}

// NewNoBlanksBlockquoteRule creates a new no-blanks-blockquote rule.
func NewNoBlanksBlockquoteRule() *NoBlanksBlockquoteRule {
	return &NoBlanksBlockquoteRule{
		BaseRule: lint.NewBaseRule(
			"MD028",
			"no-blanks-blockquote",
			"Blank line inside blockquote",
			[]string{"blockquote", "whitespace"},
			false,
		),
	}
}

// Check reports blank lines separating two blockquotes of the same parent,
// which render as two quotes where one was likely meant.
func (r *NoBlanksBlockquoteRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	// last line of the previous blockquote per parent start offset
	prevLast := make(map[int]int)

	for _, q := range findEnclosed(doc.Events(), mdast.KindBlockquote) {
		first, last, err := lint.LineSpan(doc, q.Range)
		if err != nil {
			return nil, err
		}
		parent := -1
		if q.parent != nil {
			parent = q.parent.Range.StartOffset
		}

		if prev, ok := prevLast[parent]; ok && first > prev+1 {
			blank := true
			for n := prev + 1; n < first; n++ {
				if !isBlankish(lineText(doc, report, n)) {
					blank = false
					break
				}
			}
			if blank {
				report.At(prev+1, 1, "Blank line inside blockquote")
			}
		}
		prevLast[parent] = last
	}

	return report.Result()
}
