package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// Emphasis styles accepted by MD049 and MD050.
const styleUnderscore = "underscore"

// defaultEmphasisPunctuation is the markdownlint default for MD036.
const defaultEmphasisPunctuation = ".,;:!?。，；：！？"

// NoEmphasisAsHeadingRule checks for emphasized paragraphs used as headings.
type NoEmphasisAsHeadingRule struct {
	lint.BaseRule
}

// NewNoEmphasisAsHeadingRule creates a new no-emphasis-as-heading rule.
func NewNoEmphasisAsHeadingRule() *NoEmphasisAsHeadingRule {
	return &NoEmphasisAsHeadingRule{
		BaseRule: lint.NewBaseRule(
			"MD036",
			"no-emphasis-as-heading",
			"Emphasis used instead of a heading",
			[]string{"headings", "emphasis"},
			false,
		),
	}
}

// Check reports single-line paragraphs consisting of one emphasized run of
// plain text that does not end in punctuation. Paragraphs in list items are
// ignored.
func (r *NoEmphasisAsHeadingRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, punctuationOptions{Punctuation: defaultEmphasisPunctuation})
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	events := doc.Events()

	for _, p := range findEnclosed(events, mdast.KindParagraph) {
		if p.inList {
			continue
		}
		inner := p.Inner(events)
		if len(inner) < 3 {
			continue
		}
		open, closing := inner[0], inner[len(inner)-1]
		if open.Phase != mdast.Enter || (open.Kind != mdast.KindEmphasis && open.Kind != mdast.KindStrong) ||
			!closing.Is(mdast.Exit, open.Kind) || open.Range != p.Range {
			continue
		}
		plain := true
		for _, ev := range inner[1 : len(inner)-1] {
			if !ev.Is(mdast.Leaf, mdast.KindText) {
				plain = false
				break
			}
		}
		if !plain {
			continue
		}

		text := strings.TrimSpace(lint.TextContent(doc, inner))
		last, _ := utf8.DecodeLastRuneInString(text)
		if text == "" || strings.ContainsRune(opts.Punctuation, last) {
			continue
		}
		report.AtOffset(p.Range.StartOffset, fmt.Sprintf("Emphasis used instead of a heading: %q", text))
	}

	return report.Result()
}

// delimiterStyle checks the delimiter of emphasis or strong emphasis.
type delimiterStyle struct {
	lint.BaseRule

	kind  mdast.Kind
	width int
}

// NewEmphasisStyleRule creates a new emphasis-style rule.
func NewEmphasisStyleRule() lint.Rule {
	return &delimiterStyle{
		BaseRule: lint.NewBaseRule(
			"MD049",
			"emphasis-style",
			"Emphasis style",
			[]string{"emphasis"},
			true,
		),
		kind:  mdast.KindEmphasis,
		width: 1,
	}
}

// NewStrongStyleRule creates a new strong-style rule.
func NewStrongStyleRule() lint.Rule {
	return &delimiterStyle{
		BaseRule: lint.NewBaseRule(
			"MD050",
			"strong-style",
			"Strong style",
			[]string{"emphasis"},
			true,
		),
		kind:  mdast.KindStrong,
		width: 2,
	}
}

// Check compares each delimiter with the configured style or the first
// one seen. The fix swaps both delimiter runs unless the underscore form
// would sit inside a word, where it does not parse as emphasis.
func (r *delimiterStyle) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, codeStyleOptions{Style: styleConsistent})
	if err != nil {
		return nil, err
	}
	var want byte
	switch opts.Style {
	case styleConsistent:
	case styleAsterisk:
		want = '*'
	case styleUnderscore:
		want = '_'
	default:
		return nil, fmt.Errorf("%w: unknown emphasis style %q", lint.ErrInvalidSettings, opts.Style)
	}

	report := lint.NewReport(r, doc)
	content := doc.Content()

	for _, c := range lint.Find(doc.Events(), r.kind) {
		actual := c.Attrs.Delimiter
		if want == 0 {
			want = actual
		}
		if actual == want {
			continue
		}

		msg := fmt.Sprintf("Expected: %s; Actual: %s", emphasisStyle(want), emphasisStyle(actual))
		start, end := c.Range.StartOffset, c.Range.EndOffset
		if want == '_' && (wordBefore(content, start) || wordAfter(content, end)) {
			report.AtOffset(start, msg)
			continue
		}

		from, ok := report.Position(start)
		if !ok {
			break
		}
		to, ok := report.Position(end)
		if !ok {
			break
		}
		run := strings.Repeat(string(want), r.width)
		inner := string(content[start+r.width : end-r.width])
		report.AtOffsetWithFix(start, msg, fix.Replace(from, to, run+inner+run, "Change emphasis delimiter"))
	}

	return report.Result()
}

func emphasisStyle(delim byte) string {
	if delim == '_' {
		return styleUnderscore
	}
	return styleAsterisk
}

func wordBefore(content []byte, off int) bool {
	if off == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRune(content[:off])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordAfter(content []byte, off int) bool {
	if off >= len(content) {
		return false
	}
	r, _ := utf8.DecodeRune(content[off:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NoSpaceInEmphasisRule checks for emphasis markers with spaces just inside
// them, which keeps them from parsing as emphasis.
type NoSpaceInEmphasisRule struct {
	lint.BaseRule
}

// NewNoSpaceInEmphasisRule creates a new no-space-in-emphasis rule.
func NewNoSpaceInEmphasisRule() *NoSpaceInEmphasisRule {
	return &NoSpaceInEmphasisRule{
		BaseRule: lint.NewBaseRule(
			"MD037",
			"no-space-in-emphasis",
			"Spaces inside emphasis markers",
			[]string{"whitespace", "emphasis"},
			true,
		),
	}
}

// spacedEmphasis matches a delimiter run, optional spaces, text, optional
// spaces and a closing run. The opening run must not follow a word.
var spacedEmphasis = regexp.MustCompile(
	`(?m)(?:^|[^\w*_\\])(\*{1,3}|_{1,3})([ \t]*)([^*_ \t\n](?:[^*_\n]*[^*_ \t\n])?)([ \t]*)(\*{1,3}|_{1,3})`)

// notEmphasis are the constructs whose text MD037 never scans.
//
//nolint:gochecknoglobals // Read-only lookup table.
var notEmphasis = []mdast.Kind{
	mdast.KindCodeBlock, mdast.KindCodeSpan, mdast.KindHTMLBlock, mdast.KindHTMLInline,
	mdast.KindThematicBreak,
}

// Check scans prose for matching delimiter runs with a space after the
// opening run or before the closing one. Bullet markers are not openers.
func (r *NoSpaceInEmphasisRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	content := doc.Content()
	text := prose(doc, notEmphasis...)

	bullets := make(map[int]bool)
	for _, item := range lint.Find(doc.Events(), mdast.KindListItem) {
		if !item.Attrs.Ordered {
			bullets[item.Range.StartOffset] = true
		}
	}

	for _, m := range spacedEmphasis.FindAllSubmatchIndex(text, -1) {
		open, closing := string(text[m[2]:m[3]]), string(text[m[10]:m[11]])
		leading, trailing := m[5]-m[4], m[9]-m[8]
		start, end := m[2], m[11]
		if open != closing || (leading == 0 && trailing == 0) || bullets[start] {
			continue
		}
		if end < len(text) && (text[end] == '*' || text[end] == '_' || wordAfter(text, end)) {
			continue
		}
		from, ok := report.Position(start)
		if !ok {
			break
		}
		to, ok := report.Position(end)
		if !ok {
			break
		}
		report.AtOffsetWithFix(start, fmt.Sprintf("Spaces inside emphasis markers: %s", content[start:end]),
			fix.Replace(from, to, open+string(content[m[6]:m[7]])+closing, "Remove spaces inside emphasis markers"))
	}

	return report.Result()
}
