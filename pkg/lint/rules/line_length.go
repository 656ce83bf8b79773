package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// MaxLineLengthRule checks that lines do not exceed a maximum length.
type MaxLineLengthRule struct {
	lint.BaseRule
}

// NewMaxLineLengthRule creates a new line-length rule.
func NewMaxLineLengthRule() *MaxLineLengthRule {
	return &MaxLineLengthRule{
		BaseRule: lint.NewBaseRule(
			"MD013",
			"line-length",
			"Line length",
			[]string{"line_length"},
			false,
		),
	}
}

type lineLengthOptions struct {
	LineLength          int  `mapstructure:"line_length"`
	HeadingLineLength   *int `mapstructure:"heading_line_length"`
	CodeBlockLineLength *int `mapstructure:"code_block_line_length"`
	CodeBlocks          bool `mapstructure:"code_blocks"`
	Tables              bool `mapstructure:"tables"`
	Headings            bool `mapstructure:"headings"`
	Strict              bool `mapstructure:"strict"`
	Stern               bool `mapstructure:"stern"`
}

// Check measures lines in characters. By default a long line with no
// whitespace past the limit (a long URL, say) is accepted. Stern only
// accepts lines with no inner whitespace at all; strict accepts none.
func (r *MaxLineLengthRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, lineLengthOptions{
		LineLength: 80,
		CodeBlocks: true,
		Tables:     true,
		Headings:   true,
	})
	if err != nil {
		return nil, err
	}
	headingLimit, codeLimit := opts.LineLength, opts.LineLength
	if opts.HeadingLineLength != nil {
		headingLimit = *opts.HeadingLineLength
	}
	if opts.CodeBlockLineLength != nil {
		codeLimit = *opts.CodeBlockLineLength
	}

	report := lint.NewReport(r, doc)
	skip := skipped(doc, report)

	headings, err := lint.LinesOf(doc, mdast.KindHeading)
	if err != nil {
		return nil, err
	}
	code, err := lint.LinesOf(doc, mdast.KindCodeBlock)
	if err != nil {
		return nil, err
	}
	tables, err := lint.LinesOf(doc, mdast.KindTable)
	if err != nil {
		return nil, err
	}

	for n, text := range doc.Lines() {
		if skip[n] {
			continue
		}

		limit := opts.LineLength
		switch {
		case headings[n]:
			if !opts.Headings {
				continue
			}
			limit = headingLimit
		case code[n]:
			if !opts.CodeBlocks {
				continue
			}
			limit = codeLimit
		case tables[n] && !opts.Tables:
			continue
		}

		length := utf8.RuneCountInString(text)
		if limit <= 0 || length <= limit {
			continue
		}
		switch {
		case opts.Strict:
		case opts.Stern:
			if !strings.ContainsAny(strings.TrimSpace(text), " \t") {
				continue
			}
		default:
			if !strings.ContainsAny(string([]rune(text)[limit:]), " \t") {
				continue
			}
		}
		report.At(n, limit+1, fmt.Sprintf("Expected: %d; Actual: %d", limit, length))
	}

	return report.Result()
}
