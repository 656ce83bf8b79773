package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// HRStyleRule checks that thematic breaks use a consistent style.
type HRStyleRule struct {
	lint.BaseRule
}

// NewHRStyleRule creates a new hr-style rule.
func NewHRStyleRule() *HRStyleRule {
	return &HRStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD035",
			"hr-style",
			"Horizontal rule style",
			[]string{"hr"},
			true,
		),
	}
}

type hrStyleOptions struct {
	Style string `mapstructure:"style"`
}

// Check compares each thematic break with the configured text, or with the
// first break when the style is "consistent".
func (r *HRStyleRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, hrStyleOptions{Style: styleConsistent})
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	expected := strings.TrimSpace(opts.Style)
	if expected == "" {
		expected = styleConsistent
	}

	for _, c := range lint.Find(doc.Events(), mdast.KindThematicBreak) {
		actual := strings.TrimSpace(sourceText(doc, c.Range))
		if expected == styleConsistent {
			expected = actual
		}
		if actual == expected {
			continue
		}
		from, ok := report.Position(c.Range.StartOffset)
		if !ok {
			break
		}
		to, ok := report.Position(c.Range.StartOffset + len(actual))
		if !ok {
			break
		}
		report.AtOffsetWithFix(c.Range.StartOffset, fmt.Sprintf("Expected: %s; Actual: %s", expected, actual),
			fix.Replace(from, to, expected, "Use consistent horizontal rule"))
	}

	return report.Result()
}
