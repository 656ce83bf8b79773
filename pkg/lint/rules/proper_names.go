package rules

import (
	"bytes"
	"cmp"
	"fmt"
	"regexp"
	"slices"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// ProperNamesRule checks the capitalization of configured proper names.
type ProperNamesRule struct {
	lint.BaseRule
}

// NewProperNamesRule creates a new proper-names rule.
func NewProperNamesRule() *ProperNamesRule {
	return &ProperNamesRule{
		BaseRule: lint.NewBaseRule(
			"MD044",
			"proper-names",
			"Proper names should have the correct capitalization",
			[]string{"spelling"},
			true,
		),
	}
}

type properNamesOptions struct {
	Names        []string `mapstructure:"names"`
	CodeBlocks   bool     `mapstructure:"code_blocks"`
	HTMLElements bool     `mapstructure:"html_elements"`
}

// Check finds each name case-insensitively as a whole word and reports
// spellings that differ. Longer names are matched first and claim their
// text. URLs, link destinations and code fence info strings are never
// checked.
func (r *ProperNamesRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, properNamesOptions{CodeBlocks: true, HTMLElements: true})
	if err != nil {
		return nil, err
	}
	names := slices.DeleteFunc(slices.Clone(opts.Names), func(n string) bool { return n == "" })
	if len(names) == 0 {
		return nil, nil
	}
	slices.SortStableFunc(names, func(a, b string) int { return cmp.Compare(len(b), len(a)) })

	report := lint.NewReport(r, doc)
	content := doc.Content()
	text := r.masked(doc, opts)

	type hit struct {
		start, end int
		name       string
	}
	var hits []hit
	claimed := func(start, end int) bool {
		for _, h := range hits {
			if start < h.end && h.start < end {
				return true
			}
		}
		return false
	}

	for _, name := range names {
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(name))
		if err != nil {
			return nil, fmt.Errorf("%w: names: %w", lint.ErrInvalidSettings, err)
		}
		for _, m := range re.FindAllIndex(text, -1) {
			if wordBefore(text, m[0]) || wordAfter(text, m[1]) || claimed(m[0], m[1]) {
				continue
			}
			hits = append(hits, hit{m[0], m[1], name})
		}
	}
	slices.SortFunc(hits, func(a, b hit) int { return cmp.Compare(a.start, b.start) })

	for _, h := range hits {
		found := string(content[h.start:h.end])
		if found == h.name {
			continue
		}
		from, ok := report.Position(h.start)
		if !ok {
			break
		}
		to, ok := report.Position(h.end)
		if !ok {
			break
		}
		report.AtOffsetWithFix(h.start, fmt.Sprintf("Expected: %s; Actual: %s", h.name, found),
			fix.Replace(from, to, h.name, "Correct capitalization"))
	}

	return report.Result()
}

// masked returns the content with everything MD044 skips blanked.
func (r *ProperNamesRule) masked(doc *mdast.Document, opts properNamesOptions) []byte {
	var kinds []mdast.Kind
	if !opts.CodeBlocks {
		kinds = append(kinds, mdast.KindCodeBlock, mdast.KindCodeSpan)
	}
	if !opts.HTMLElements {
		kinds = append(kinds, mdast.KindHTMLBlock, mdast.KindHTMLInline)
	}
	out := prose(doc, kinds...)
	content := doc.Content()
	blank := func(start, end int) {
		for i := start; i < end && i < len(out); i++ {
			if out[i] != '\n' && out[i] != '\r' {
				out[i] = ' '
			}
		}
	}

	events := doc.Events()
	for _, c := range lint.Find(events, mdast.KindCodeBlock) {
		if c.Attrs.Fenced {
			end := bytes.IndexByte(content[c.Range.StartOffset:c.Range.EndOffset], '\n')
			if end < 0 {
				end = c.Range.EndOffset - c.Range.StartOffset
			}
			blank(c.Range.StartOffset, c.Range.StartOffset+end)
		}
	}
	for _, kind := range []mdast.Kind{mdast.KindLink, mdast.KindImage} {
		for _, c := range lint.Find(events, kind) {
			if c.Attrs.Autolink {
				blank(c.Range.StartOffset, c.Range.EndOffset)
				continue
			}
			if closing, ok := labelEnd(content, events, c); ok {
				blank(closing, c.Range.EndOffset)
			}
		}
	}
	for _, m := range bareURL.FindAllIndex(out, -1) {
		blank(m[0], m[1])
	}
	return out
}
