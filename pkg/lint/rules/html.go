package rules

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// NoInlineHTMLRule checks for raw HTML elements.
type NoInlineHTMLRule struct {
	lint.BaseRule
}

// NewNoInlineHTMLRule creates a new no-inline-html rule.
func NewNoInlineHTMLRule() *NoInlineHTMLRule {
	return &NoInlineHTMLRule{
		BaseRule: lint.NewBaseRule(
			"MD033",
			"no-inline-html",
			"Inline HTML",
			[]string{"html"},
			false,
		),
	}
}

type inlineHTMLOptions struct {
	AllowedElements []string `mapstructure:"allowed_elements"`
}

var (
	openingTag  = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9-]*)(?:[\s/>]|$)`)
	htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// Check reports every opening tag not in allowed_elements. Closing tags and
// comments are ignored.
func (r *NoInlineHTMLRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, inlineHTMLOptions{})
	if err != nil {
		return nil, err
	}
	allowed := make([]string, 0, len(opts.AllowedElements))
	for _, el := range opts.AllowedElements {
		allowed = append(allowed, strings.ToLower(el))
	}

	report := lint.NewReport(r, doc)
	content := doc.Content()

	for _, ev := range doc.Events() {
		if !ev.Is(mdast.Enter, mdast.KindHTMLBlock) && !ev.Is(mdast.Leaf, mdast.KindHTMLInline) {
			continue
		}
		html := htmlComment.ReplaceAllFunc(slices.Clone(content[ev.Range.StartOffset:ev.Range.EndOffset]),
			func(c []byte) []byte { return bytes.Repeat([]byte(" "), len(c)) })
		for _, m := range openingTag.FindAllSubmatchIndex(html, -1) {
			name := strings.ToLower(string(html[m[2]:m[3]]))
			if slices.Contains(allowed, name) {
				continue
			}
			report.AtOffset(ev.Range.StartOffset+m[0], fmt.Sprintf("Inline HTML [Element: %s]", name))
		}
	}

	return report.Result()
}
