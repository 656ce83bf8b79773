package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/langdetect"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// Code block styles accepted by MD046 and MD048.
const (
	styleFenced   = "fenced"
	styleIndented = "indented"
	styleBacktick = "backtick"
	styleTilde    = "tilde"
)

// codeBody returns the byte range of a code block's content lines: for a
// fenced block the lines between the fences.
func codeBody(doc *mdast.Document, report *lint.Report, c lint.Construct) mdast.SourceRange {
	if !c.Attrs.Fenced {
		return c.Range
	}
	first, last, err := lint.LineSpan(doc, c.Range)
	if err != nil {
		report.Fail(err)
		return mdast.SourceRange{}
	}

	body := mdast.SourceRange{StartOffset: min(doc.LineEndOffset(first), c.Range.EndOffset), EndOffset: c.Range.EndOffset}
	if last > first {
		closing := strings.TrimLeft(lineText(doc, report, last), " \t>")
		run := strings.Repeat(string(c.Attrs.FenceChar), c.Attrs.FenceLength)
		if strings.HasPrefix(closing, run) && strings.Trim(closing, string(c.Attrs.FenceChar)+" \t") == "" {
			start, _ := doc.LineBounds(last)
			body.EndOffset = start
		}
	}
	body.EndOffset = max(body.EndOffset, body.StartOffset)
	return body
}

// CommandsShowOutputRule checks for shell commands prefixed with "$" that
// show no output.
type CommandsShowOutputRule struct {
	lint.BaseRule
}

// NewCommandsShowOutputRule creates a new commands-show-output rule.
func NewCommandsShowOutputRule() *CommandsShowOutputRule {
	return &CommandsShowOutputRule{
		BaseRule: lint.NewBaseRule(
			"MD014",
			"commands-show-output",
			"Dollar signs used before commands without showing output",
			[]string{"code"},
			true,
		),
	}
}

var dollarPrompt = regexp.MustCompile(`^(\s*)\$\s+`)

// Check reports code blocks in which every non-blank line is a prompt.
func (r *CommandsShowOutputRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	for _, c := range lint.Find(doc.Events(), mdast.KindCodeBlock) {
		body := codeBody(doc, report, c)
		if body.IsEmpty() {
			continue
		}
		first, last, err := lint.LineSpan(doc, body)
		if err != nil {
			return nil, err
		}

		type prompt struct{ line, from, to int }
		var prompts []prompt
		allPrompts := true
		for n := first; n <= last; n++ {
			text := lineText(doc, report, n)
			if lint.IsBlank(text) {
				continue
			}
			m := dollarPrompt.FindStringSubmatchIndex(text)
			if m == nil {
				allPrompts = false
				break
			}
			prompts = append(prompts, prompt{n, m[3], m[1]})
		}
		if !allPrompts || len(prompts) == 0 {
			continue
		}

		for _, p := range prompts {
			text := lineText(doc, report, p.line)
			report.AtWithFix(p.line, lint.ColumnOf(text, p.from),
				"Dollar signs used before commands without showing output",
				fix.Delete(mdast.Position{Line: p.line, Column: lint.ColumnOf(text, p.from)},
					mdast.Position{Line: p.line, Column: lint.ColumnOf(text, p.to)}, "Remove prompt"))
		}
	}

	return report.Result()
}

// BlanksAroundFencesRule checks that fenced code blocks are surrounded by
// blank lines.
type BlanksAroundFencesRule struct {
	lint.BaseRule
}

// NewBlanksAroundFencesRule creates a new blanks-around-fences rule.
func NewBlanksAroundFencesRule() *BlanksAroundFencesRule {
	return &BlanksAroundFencesRule{
		BaseRule: lint.NewBaseRule(
			"MD031",
			"blanks-around-fences",
			"Fenced code blocks should be surrounded by blank lines",
			[]string{"code", "blank_lines"},
			true,
		),
	}
}

type blanksAroundFencesOptions struct {
	ListItems bool `mapstructure:"list_items"`
}

// Check inspects the lines around each fenced block. Blocks opening or
// closing their list item or blockquote need no blank line on that side.
func (r *BlanksAroundFencesRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, blanksAroundFencesOptions{ListItems: true})
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	fm := skipped(doc, report)

	for _, c := range findEnclosed(doc.Events(), mdast.KindCodeBlock) {
		if !c.Attrs.Fenced || (c.inList && !opts.ListItems) {
			continue
		}
		first, last, err := lint.LineSpan(doc, c.Range)
		if err != nil {
			return nil, err
		}
		var parentFirst, parentLast int
		if c.parent != nil {
			if parentFirst, parentLast, err = lint.LineSpan(doc, c.parent.Range); err != nil {
				return nil, err
			}
		}

		if first > 1 && !fm[first-1] && parentFirst != first && blankAbove(doc, report, first) == 0 {
			report.AtOffsetWithFix(c.Range.StartOffset, "Fenced code blocks should be surrounded by blank lines",
				insertBlankLines(doc, report, first, 1, "Insert blank line above fence"))
		}
		if last < doc.LineCount() && parentLast != last && blankBelow(doc, report, last) == 0 {
			report.AtWithFix(last, 1, "Fenced code blocks should be surrounded by blank lines",
				insertBlankLines(doc, report, last+1, 1, "Insert blank line below fence"))
		}
	}

	return report.Result()
}

// NoSpaceInCodeRule checks for spaces just inside code span backticks.
type NoSpaceInCodeRule struct {
	lint.BaseRule
}

// NewNoSpaceInCodeRule creates a new no-space-in-code rule.
func NewNoSpaceInCodeRule() *NoSpaceInCodeRule {
	return &NoSpaceInCodeRule{
		BaseRule: lint.NewBaseRule(
			"MD038",
			"no-space-in-code",
			"Spaces inside code span elements",
			[]string{"whitespace", "code"},
			true,
		),
	}
}

// Check allows a single space of padding on both sides, which CommonMark
// strips, and reports any other leading or trailing spaces.
func (r *NoSpaceInCodeRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	for _, c := range lint.Find(doc.Events(), mdast.KindCodeSpan) {
		span := sourceText(doc, c.Range)
		ticks := len(span) - len(strings.TrimLeft(span, "`"))
		if ticks == 0 || len(span) < 2*ticks {
			continue
		}
		inner := span[ticks : len(span)-ticks]
		if strings.ContainsAny(inner, "\r\n") {
			continue
		}
		content := strings.Trim(inner, " ")
		if content == "" {
			continue
		}
		lead := len(inner) - len(strings.TrimLeft(inner, " "))
		trail := len(inner) - len(strings.TrimRight(inner, " "))
		if (lead == 0 && trail == 0) || (lead == 1 && trail == 1) {
			continue
		}

		padded := content
		if strings.HasPrefix(content, "`") || strings.HasSuffix(content, "`") {
			padded = " " + content + " "
		}
		start, ok := report.Position(c.Range.StartOffset + ticks)
		if !ok {
			break
		}
		end, ok := report.Position(c.Range.EndOffset - ticks)
		if !ok {
			break
		}
		report.AtOffsetWithFix(c.Range.StartOffset, "Spaces inside code span elements",
			fix.Replace(start, end, padded, "Remove spaces inside code span"))
	}

	return report.Result()
}

// FencedCodeLanguageRule checks that fenced code blocks name a language.
type FencedCodeLanguageRule struct {
	lint.BaseRule
}

// NewFencedCodeLanguageRule creates a new fenced-code-language rule.
func NewFencedCodeLanguageRule() *FencedCodeLanguageRule {
	return &FencedCodeLanguageRule{
		BaseRule: lint.NewBaseRule(
			"MD040",
			"fenced-code-language",
			"Fenced code blocks should have a language specified",
			[]string{"code", "language"},
			true,
		),
	}
}

type fencedLanguageOptions struct {
	AllowedLanguages []string `mapstructure:"allowed_languages"`
	LanguageOnly     bool     `mapstructure:"language_only"`
}

// Check reports fences without an info string, with a language outside
// allowed_languages, or with more than the language when language_only is
// set. A missing language is fixed when one can be detected from the body.
func (r *FencedCodeLanguageRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, fencedLanguageOptions{})
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	content := doc.Content()

	for _, c := range lint.Find(doc.Events(), mdast.KindCodeBlock) {
		if !c.Attrs.Fenced {
			continue
		}
		info := strings.TrimSpace(c.Attrs.Info)
		lang, _, _ := strings.Cut(info, " ")

		switch {
		case info == "":
			body := codeBody(doc, report, c)
			guess, ok := langdetect.Guess(content[body.StartOffset:body.EndOffset])
			if !ok {
				report.AtOffset(c.Range.StartOffset, "Fenced code blocks should have a language specified")
				continue
			}
			at, found := report.Position(c.Range.StartOffset + c.Attrs.FenceLength)
			if !found {
				break
			}
			report.AtOffsetWithFix(c.Range.StartOffset,
				"Fenced code blocks should have a language specified",
				fix.Insert(at, guess, fmt.Sprintf("Add language %q", guess)))
		case len(opts.AllowedLanguages) > 0 && !slices.Contains(opts.AllowedLanguages, lang):
			report.AtOffset(c.Range.StartOffset, fmt.Sprintf("Language %q is not allowed", lang))
		case opts.LanguageOnly && info != lang:
			report.AtOffset(c.Range.StartOffset, fmt.Sprintf("Info string contains more than language: %q", info))
		}
	}

	return report.Result()
}

// CodeBlockStyleRule checks that code blocks use a consistent style.
type CodeBlockStyleRule struct {
	lint.BaseRule
}

// NewCodeBlockStyleRule creates a new code-block-style rule.
func NewCodeBlockStyleRule() *CodeBlockStyleRule {
	return &CodeBlockStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD046",
			"code-block-style",
			"Code block style",
			[]string{"code"},
			false,
		),
	}
}

type codeStyleOptions struct {
	Style string `mapstructure:"style"`
}

// Check compares fenced and indented blocks with the configured style or
// the first block's.
func (r *CodeBlockStyleRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, codeStyleOptions{Style: styleConsistent})
	if err != nil {
		return nil, err
	}
	switch opts.Style {
	case styleConsistent, styleFenced, styleIndented:
	default:
		return nil, fmt.Errorf("%w: unknown code block style %q", lint.ErrInvalidSettings, opts.Style)
	}

	report := lint.NewReport(r, doc)
	expected := opts.Style

	for _, c := range lint.Find(doc.Events(), mdast.KindCodeBlock) {
		actual := styleIndented
		if c.Attrs.Fenced {
			actual = styleFenced
		}
		if expected == styleConsistent {
			expected = actual
		}
		if actual != expected {
			report.AtOffset(c.Range.StartOffset, fmt.Sprintf("Expected: %s; Actual: %s", expected, actual))
		}
	}

	return report.Result()
}

// CodeFenceStyleRule checks that code fences use a consistent character.
type CodeFenceStyleRule struct {
	lint.BaseRule
}

// NewCodeFenceStyleRule creates a new code-fence-style rule.
func NewCodeFenceStyleRule() *CodeFenceStyleRule {
	return &CodeFenceStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD048",
			"code-fence-style",
			"Code fence style",
			[]string{"code"},
			false,
		),
	}
}

// Check compares each fence character with the configured style or the
// first fence's.
func (r *CodeFenceStyleRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, codeStyleOptions{Style: styleConsistent})
	if err != nil {
		return nil, err
	}
	switch opts.Style {
	case styleConsistent, styleBacktick, styleTilde:
	default:
		return nil, fmt.Errorf("%w: unknown code fence style %q", lint.ErrInvalidSettings, opts.Style)
	}

	report := lint.NewReport(r, doc)
	expected := opts.Style

	for _, c := range lint.Find(doc.Events(), mdast.KindCodeBlock) {
		if !c.Attrs.Fenced {
			continue
		}
		actual := styleBacktick
		if c.Attrs.FenceChar == '~' {
			actual = styleTilde
		}
		if expected == styleConsistent {
			expected = actual
		}
		if actual != expected {
			report.AtOffset(c.Range.StartOffset, fmt.Sprintf("Expected: %s; Actual: %s", expected, actual))
		}
	}

	return report.Result()
}
