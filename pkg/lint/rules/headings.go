package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// Heading styles accepted by MD003.
const (
	styleConsistent          = "consistent"
	styleATX                 = "atx"
	styleATXClosed           = "atx_closed"
	styleSetext              = "setext"
	styleSetextWithATX       = "setext_with_atx"
	styleSetextWithATXClosed = "setext_with_atx_closed"
)

// defaultFrontMatterTitle matches a title key in front matter.
const defaultFrontMatterTitle = `^\s*"?title"?\s*[:=]`

// atx describes the markers of an ATX heading line, measured in bytes from
// the first '#'.
type atx struct {
	open     int // length of the opening '#' run
	gap      int // whitespace after the opening run
	body     string
	closed   bool
	closeGap int // whitespace before the closing run
	bodyEnd  int // offset just past body
}

func parseATX(s string) atx {
	a := atx{open: len(s) - len(strings.TrimLeft(s, "#"))}
	rest := s[a.open:]
	a.gap = len(rest) - len(strings.TrimLeft(rest, " \t"))
	body := strings.TrimRight(rest[a.gap:], " \t")

	if trimmed := strings.TrimRight(body, "#"); len(trimmed) < len(body) {
		if trimmed == "" || strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t") {
			a.closed = true
			content := strings.TrimRight(trimmed, " \t")
			a.closeGap = len(trimmed) - len(content)
			body = content
		}
	}
	a.body = body
	a.bodyEnd = a.open + a.gap + len(body)
	return a
}

// atxLine returns the text of a heading's first line from its first '#'.
func atxLine(doc *mdast.Document, h heading) string {
	_, end := doc.LineBounds(h.first)
	return string(doc.Content()[h.Range.StartOffset:end])
}

// headingStyle classifies a heading as atx, atx_closed or setext.
func headingStyle(doc *mdast.Document, h heading) string {
	switch {
	case h.Attrs.Setext:
		return styleSetext
	case parseATX(atxLine(doc, h)).closed:
		return styleATXClosed
	default:
		return styleATX
	}
}

// hasFrontMatterTitle reports whether the front matter holds a line matching
// pattern. An empty pattern never matches.
func hasFrontMatterTitle(doc *mdast.Document, pattern string) (bool, error) {
	fm, ok := doc.FrontMatter()
	if !ok || pattern == "" {
		return false, nil
	}
	re, err := regexp.Compile("(?m)" + pattern)
	if err != nil {
		return false, fmt.Errorf("%w: front_matter_title: %w", lint.ErrInvalidSettings, err)
	}
	return re.Match(doc.Content()[fm.StartOffset:fm.EndOffset]), nil
}

// HeadingIncrementRule checks that heading levels increment by one.
type HeadingIncrementRule struct {
	lint.BaseRule
}

// NewHeadingIncrementRule creates a new heading increment rule.
func NewHeadingIncrementRule() *HeadingIncrementRule {
	return &HeadingIncrementRule{
		BaseRule: lint.NewBaseRule(
			"MD001",
			"heading-increment",
			"Heading levels should only increment by one level at a time",
			[]string{"headings"},
			false,
		),
	}
}

// Check reports headings more than one level deeper than the previous one.
func (r *HeadingIncrementRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	prev := 0
	for _, h := range collectHeadings(doc, report) {
		if prev > 0 && h.Level() > prev+1 {
			report.AtOffset(h.Range.StartOffset,
				fmt.Sprintf("Heading level jumped from H%d to H%d", prev, h.Level()))
		}
		prev = h.Level()
	}

	return report.Result()
}

// HeadingStyleRule checks that headings use a consistent style.
type HeadingStyleRule struct {
	lint.BaseRule
}

// NewHeadingStyleRule creates a new heading style rule.
func NewHeadingStyleRule() *HeadingStyleRule {
	return &HeadingStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD003",
			"heading-style",
			"Heading style",
			[]string{"headings"},
			false,
		),
	}
}

type headingStyleOptions struct {
	Style string `mapstructure:"style"`
}

// Check compares each heading's style to the configured or first-seen one.
func (r *HeadingStyleRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, headingStyleOptions{Style: styleConsistent})
	if err != nil {
		return nil, err
	}
	switch opts.Style {
	case styleConsistent, styleATX, styleATXClosed, styleSetext, styleSetextWithATX, styleSetextWithATXClosed:
	default:
		return nil, fmt.Errorf("%w: unknown heading style %q", lint.ErrInvalidSettings, opts.Style)
	}

	report := lint.NewReport(r, doc)
	style := opts.Style

	for _, h := range collectHeadings(doc, report) {
		actual := headingStyle(doc, h)
		if style == styleConsistent {
			style = actual
			// Setext cannot express levels past 2.
			if actual == styleSetext {
				style = styleSetextWithATX
			}
		}

		expected := style
		switch style {
		case styleSetextWithATX:
			expected = styleSetext
			if h.Level() > 2 {
				expected = styleATX
			}
		case styleSetextWithATXClosed:
			expected = styleSetext
			if h.Level() > 2 {
				expected = styleATXClosed
			}
		}

		if actual != expected {
			report.AtOffset(h.Range.StartOffset, fmt.Sprintf("Expected: %s; Actual: %s", expected, actual))
		}
	}

	return report.Result()
}

// NoMissingSpaceATXRule checks for a missing space after the hashes of an
// ATX heading.
type NoMissingSpaceATXRule struct {
	lint.BaseRule
}

// NewNoMissingSpaceATXRule creates a new no-missing-space-atx rule.
func NewNoMissingSpaceATXRule() *NoMissingSpaceATXRule {
	return &NoMissingSpaceATXRule{
		BaseRule: lint.NewBaseRule(
			"MD018",
			"no-missing-space-atx",
			"No space after hash on atx style heading",
			[]string{"headings", "atx", "spaces"},
			true,
		),
	}
}

// Check scans lines outside code and HTML that look like headings but lack
// the separating space.
func (r *NoMissingSpaceATXRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	skip := skipped(doc, report, mdast.KindCodeBlock, mdast.KindHTMLBlock, mdast.KindHeading)

	for n, text := range doc.Lines() {
		if skip[n] {
			continue
		}
		indent := lint.Indent(text)
		if indent > 3 || strings.Contains(text[:indent], "\t") {
			continue
		}
		rest := text[indent:]
		hashes := len(rest) - len(strings.TrimLeft(rest, "#"))
		if hashes == 0 || hashes > 6 || hashes == len(rest) {
			continue
		}
		next := rest[hashes]
		if next == ' ' || next == '\t' || (n == 1 && next == '!') {
			continue
		}

		col := lint.ColumnOf(text, indent)
		at := mdast.Position{Line: n, Column: col + hashes}
		report.AtWithFix(n, col, "No space after hash on atx style heading",
			fix.Insert(at, " ", "Insert space after hashes"))
	}

	return report.Result()
}

// NoMultipleSpaceATXRule checks for multiple spaces after the hashes of an
// open ATX heading.
type NoMultipleSpaceATXRule struct {
	lint.BaseRule
}

// NewNoMultipleSpaceATXRule creates a new no-multiple-space-atx rule.
func NewNoMultipleSpaceATXRule() *NoMultipleSpaceATXRule {
	return &NoMultipleSpaceATXRule{
		BaseRule: lint.NewBaseRule(
			"MD019",
			"no-multiple-space-atx",
			"Multiple spaces after hash on atx style heading",
			[]string{"headings", "atx", "spaces"},
			true,
		),
	}
}

// Check reports open ATX headings whose text is separated by more than one
// space.
func (r *NoMultipleSpaceATXRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	for _, h := range collectHeadings(doc, report) {
		if h.Attrs.Setext {
			continue
		}
		a := parseATX(atxLine(doc, h))
		if a.closed || a.body == "" || a.gap <= 1 {
			continue
		}
		start, ok := report.Position(h.Range.StartOffset + a.open)
		if !ok {
			break
		}
		end, ok := report.Position(h.Range.StartOffset + a.open + a.gap)
		if !ok {
			break
		}
		report.AtOffsetWithFix(h.Range.StartOffset,
			fmt.Sprintf("Multiple spaces (%d) after hash on atx style heading", a.gap),
			fix.Replace(start, end, " ", "Use a single space"))
	}

	return report.Result()
}

// NoMissingSpaceClosedATXRule checks closed ATX headings for missing spaces
// inside the hashes.
type NoMissingSpaceClosedATXRule struct {
	lint.BaseRule
}

// NewNoMissingSpaceClosedATXRule creates a new no-missing-space-closed-atx rule.
func NewNoMissingSpaceClosedATXRule() *NoMissingSpaceClosedATXRule {
	return &NoMissingSpaceClosedATXRule{
		BaseRule: lint.NewBaseRule(
			"MD020",
			"no-missing-space-closed-atx",
			"No space inside hashes on closed atx style heading",
			[]string{"headings", "atx_closed", "spaces"},
			true,
		),
	}
}

// Check scans lines opening and closing with hashes.
func (r *NoMissingSpaceClosedATXRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	skip := skipped(doc, report, mdast.KindCodeBlock, mdast.KindHTMLBlock)

	for n, text := range doc.Lines() {
		if skip[n] {
			continue
		}
		indent := lint.Indent(text)
		if indent > 3 {
			continue
		}
		rest := strings.TrimRight(text[indent:], " \t")
		open := len(rest) - len(strings.TrimLeft(rest, "#"))
		closing := len(rest) - len(strings.TrimRight(rest, "#"))
		if open == 0 || closing == 0 || open+closing >= len(rest) {
			continue
		}
		middle := rest[open : len(rest)-closing]
		content := strings.TrimSpace(middle)
		if content == "" || strings.HasSuffix(content, "\\") {
			continue
		}
		left := len(middle) - len(strings.TrimLeft(middle, " \t"))
		right := len(middle) - len(strings.TrimRight(middle, " \t"))
		if left > 0 && right > 0 {
			continue
		}

		col := lint.ColumnOf(text, indent)
		start := mdast.Position{Line: n, Column: col + open}
		end := mdast.Position{Line: n, Column: lint.ColumnOf(text, indent+len(rest)-closing)}
		report.AtWithFix(n, col, "No space inside hashes on closed atx style heading",
			fix.Replace(start, end, " "+content+" ", "Insert spaces inside hashes"))
	}

	return report.Result()
}

// NoMultipleSpaceClosedATXRule checks closed ATX headings for runs of spaces
// inside the hashes.
type NoMultipleSpaceClosedATXRule struct {
	lint.BaseRule
}

// NewNoMultipleSpaceClosedATXRule creates a new no-multiple-space-closed-atx rule.
func NewNoMultipleSpaceClosedATXRule() *NoMultipleSpaceClosedATXRule {
	return &NoMultipleSpaceClosedATXRule{
		BaseRule: lint.NewBaseRule(
			"MD021",
			"no-multiple-space-closed-atx",
			"Multiple spaces inside hashes on closed atx style heading",
			[]string{"headings", "atx_closed", "spaces"},
			true,
		),
	}
}

// Check reports closed ATX headings with more than one space on either side.
func (r *NoMultipleSpaceClosedATXRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	for _, h := range collectHeadings(doc, report) {
		if h.Attrs.Setext {
			continue
		}
		a := parseATX(atxLine(doc, h))
		if !a.closed || a.body == "" || (a.gap <= 1 && a.closeGap <= 1) {
			continue
		}
		base := h.Range.StartOffset
		start, ok := report.Position(base + a.open)
		if !ok {
			break
		}
		end, ok := report.Position(base + a.bodyEnd + a.closeGap)
		if !ok {
			break
		}
		report.AtOffsetWithFix(base, "Multiple spaces inside hashes on closed atx style heading",
			fix.Replace(start, end, " "+a.body+" ", "Use single spaces inside hashes"))
	}

	return report.Result()
}

// HeadingBlankLinesRule checks that headings are surrounded by blank lines.
type HeadingBlankLinesRule struct {
	lint.BaseRule
}

// NewHeadingBlankLinesRule creates a new blanks-around-headings rule.
func NewHeadingBlankLinesRule() *HeadingBlankLinesRule {
	return &HeadingBlankLinesRule{
		BaseRule: lint.NewBaseRule(
			"MD022",
			"blanks-around-headings",
			"Headings should be surrounded by blank lines",
			[]string{"headings", "blank_lines"},
			true,
		),
	}
}

type blanksAroundHeadingsOptions struct {
	LinesAbove int `mapstructure:"lines_above"`
	LinesBelow int `mapstructure:"lines_below"`
}

// Check counts the blank lines above and below each heading. A negative
// setting disables that side.
func (r *HeadingBlankLinesRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, blanksAroundHeadingsOptions{LinesAbove: 1, LinesBelow: 1})
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	fm := skipped(doc, report)
	headings := collectHeadings(doc, report)
	enclosing := findEnclosed(doc.Events(), mdast.KindHeading)

	for i, h := range headings {
		var parentFirst, parentLast int
		if parent := enclosing[i].parent; parent != nil {
			first, last, err := lint.LineSpan(doc, parent.Range)
			if err != nil {
				report.Fail(err)
				break
			}
			parentFirst, parentLast = first, last
		}

		if opts.LinesAbove > 0 && h.first > 1 && !fm[h.first-1] && parentFirst != h.first {
			if above := blankAbove(doc, report, h.first); above < opts.LinesAbove {
				report.AtOffsetWithFix(h.Range.StartOffset,
					fmt.Sprintf("Expected: %d; Actual: %d; Above", opts.LinesAbove, above),
					insertBlankLines(doc, report, h.first, opts.LinesAbove-above, "Insert blank line above heading"))
			}
		}

		if opts.LinesBelow > 0 && h.last < doc.LineCount() && parentLast != h.last {
			if below := blankBelow(doc, report, h.last); below < opts.LinesBelow {
				report.AtOffsetWithFix(h.Range.StartOffset,
					fmt.Sprintf("Expected: %d; Actual: %d; Below", opts.LinesBelow, below),
					insertBlankLines(doc, report, h.last+1, opts.LinesBelow-below, "Insert blank line below heading"))
			}
		}
	}

	return report.Result()
}

// HeadingStartLeftRule checks that headings start at the beginning of the line.
type HeadingStartLeftRule struct {
	lint.BaseRule
}

// NewHeadingStartLeftRule creates a new heading-start-left rule.
func NewHeadingStartLeftRule() *HeadingStartLeftRule {
	return &HeadingStartLeftRule{
		BaseRule: lint.NewBaseRule(
			"MD023",
			"heading-start-left",
			"Headings must start at the beginning of the line",
			[]string{"headings", "spaces"},
			true,
		),
	}
}

// Check reports indented headings outside list items and blockquotes.
func (r *HeadingStartLeftRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	enclosing := findEnclosed(doc.Events(), mdast.KindHeading)

	for i, h := range collectHeadings(doc, report) {
		if enclosing[i].parent != nil {
			continue
		}
		text := lineText(doc, report, h.first)
		indent := lint.Indent(text)
		if indent == 0 {
			continue
		}
		report.AtWithFix(h.first, 1, fmt.Sprintf("Heading is indented by %d character(s)", indent),
			fix.Delete(mdast.Position{Line: h.first, Column: 1},
				mdast.Position{Line: h.first, Column: indent + 1}, "Remove indentation"))
	}

	return report.Result()
}

// NoDuplicateHeadingRule checks for headings with identical text.
type NoDuplicateHeadingRule struct {
	lint.BaseRule
}

// NewNoDuplicateHeadingRule creates a new no-duplicate-heading rule.
func NewNoDuplicateHeadingRule() *NoDuplicateHeadingRule {
	return &NoDuplicateHeadingRule{
		BaseRule: lint.NewBaseRule(
			"MD024",
			"no-duplicate-heading",
			"Multiple headings with the same content",
			[]string{"headings"},
			false,
		),
	}
}

type duplicateHeadingOptions struct {
	SiblingsOnly          bool `mapstructure:"siblings_only"`
	AllowDifferentNesting bool `mapstructure:"allow_different_nesting"`
}

// Check reports a heading repeating the text of an earlier one. With
// siblings_only only headings under the same parent are compared.
func (r *NoDuplicateHeadingRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, duplicateHeadingOptions{})
	if err != nil {
		return nil, err
	}
	siblings := opts.SiblingsOnly || opts.AllowDifferentNesting

	report := lint.NewReport(r, doc)

	// seen[level] maps text to its first line; index 0 is the global scope.
	seen := make([]map[string]int, 7)
	for i := range seen {
		seen[i] = make(map[string]int)
	}

	for _, h := range collectHeadings(doc, report) {
		scope := 0
		if siblings {
			scope = h.Level()
			for deeper := scope + 1; deeper < len(seen); deeper++ {
				clear(seen[deeper])
			}
		}

		if first, dup := seen[scope][h.text]; dup {
			report.AtOffset(h.Range.StartOffset,
				fmt.Sprintf("Duplicate heading text %q (first occurrence on line %d)", h.text, first))
			continue
		}
		seen[scope][h.text] = h.first
	}

	return report.Result()
}

// SingleH1Rule checks that there is at most one top-level heading.
type SingleH1Rule struct {
	lint.BaseRule
}

// NewSingleH1Rule creates a new single-h1 rule.
func NewSingleH1Rule() *SingleH1Rule {
	return &SingleH1Rule{
		BaseRule: lint.NewBaseRule(
			"MD025",
			"single-h1",
			"Multiple top-level headings in the same document",
			[]string{"headings"},
			false,
		),
	}
}

type topLevelOptions struct {
	Level            int    `mapstructure:"level"`
	FrontMatterTitle string `mapstructure:"front_matter_title"`
}

// Check reports top-level headings after the first. A title in the front
// matter counts as the first.
func (r *SingleH1Rule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, topLevelOptions{Level: 1, FrontMatterTitle: defaultFrontMatterTitle})
	if err != nil {
		return nil, err
	}
	titled, err := hasFrontMatterTitle(doc, opts.FrontMatterTitle)
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	headings := collectHeadings(doc, report)

	// Only a document opening with a top-level heading has a title to repeat.
	if !titled && (len(headings) == 0 || headings[0].Level() != opts.Level) {
		return report.Result()
	}

	for i, h := range headings {
		if h.Level() != opts.Level || (i == 0 && !titled) {
			continue
		}
		report.AtOffset(h.Range.StartOffset,
			fmt.Sprintf("Multiple top-level headings; %q is H%d", h.text, opts.Level))
	}

	return report.Result()
}

// NoTrailingPunctuationRule checks for punctuation at the end of headings.
type NoTrailingPunctuationRule struct {
	lint.BaseRule
}

// NewNoTrailingPunctuationRule creates a new no-trailing-punctuation rule.
func NewNoTrailingPunctuationRule() *NoTrailingPunctuationRule {
	return &NoTrailingPunctuationRule{
		BaseRule: lint.NewBaseRule(
			"MD026",
			"no-trailing-punctuation",
			"Trailing punctuation in heading",
			[]string{"headings"},
			true,
		),
	}
}

type punctuationOptions struct {
	Punctuation string `mapstructure:"punctuation"`
}

// defaultHeadingPunctuation is the markdownlint default for MD026.
const defaultHeadingPunctuation = ".,;:!。，；：！"

var entityPattern = regexp.MustCompile(`&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);$`)

// Check inspects the final text of each heading.
func (r *NoTrailingPunctuationRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, punctuationOptions{Punctuation: defaultHeadingPunctuation})
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	events := doc.Events()

	for _, h := range collectHeadings(doc, report) {
		inner := h.Inner(events)
		if len(inner) == 0 {
			continue
		}
		last := inner[len(inner)-1]
		if !last.Is(mdast.Leaf, mdast.KindText) {
			continue
		}

		content := strings.TrimRight(sourceText(doc, last.Range), " \t")
		trimmed := strings.TrimRightFunc(content, func(c rune) bool {
			return strings.ContainsRune(opts.Punctuation, c)
		})
		if trimmed == content || entityPattern.MatchString(content) {
			continue
		}

		end := last.Range.StartOffset + len(content)
		from := last.Range.StartOffset + len(trimmed)
		start, ok := report.Position(from)
		if !ok {
			break
		}
		stop, ok := report.Position(end)
		if !ok {
			break
		}
		punct, _ := utf8.DecodeLastRuneInString(content)
		report.AtOffsetWithFix(h.Range.StartOffset,
			fmt.Sprintf("Heading ends with trailing punctuation %q", string(punct)),
			fix.Delete(start, stop, "Remove trailing punctuation"))
	}

	return report.Result()
}

// FirstLineHeadingRule checks that the document opens with a top-level heading.
type FirstLineHeadingRule struct {
	lint.BaseRule
}

// NewFirstLineHeadingRule creates a new first-line-heading rule.
func NewFirstLineHeadingRule() *FirstLineHeadingRule {
	return &FirstLineHeadingRule{
		BaseRule: lint.NewBaseRule(
			"MD041",
			"first-line-heading",
			"First line in a file should be a top-level heading",
			[]string{"headings"},
			false,
		),
	}
}

var htmlHeadingPattern = regexp.MustCompile(`(?i)^\s*<h([1-6])[\s>]`)

// Check inspects the first block of the document, skipping HTML comments.
func (r *FirstLineHeadingRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, topLevelOptions{Level: 1, FrontMatterTitle: defaultFrontMatterTitle})
	if err != nil {
		return nil, err
	}
	titled, err := hasFrontMatterTitle(doc, opts.FrontMatterTitle)
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	if titled {
		return report.Result()
	}

	for _, ev := range doc.Events() {
		if ev.Phase == mdast.Exit || !ev.Kind.IsBlock() {
			continue
		}
		if ev.Kind == mdast.KindHTMLBlock {
			html := sourceText(doc, ev.Range)
			if strings.HasPrefix(strings.TrimSpace(html), "<!--") {
				continue
			}
			if m := htmlHeadingPattern.FindStringSubmatch(html); m != nil && m[1] == fmt.Sprint(opts.Level) {
				break
			}
		}
		if ev.Kind != mdast.KindHeading || ev.Attrs.Level != opts.Level {
			report.AtOffset(ev.Range.StartOffset,
				fmt.Sprintf("First line in a file should be a top-level heading (H%d)", opts.Level))
		}
		break
	}

	return report.Result()
}

// RequiredHeadingsRule checks the headings of a document against a
// required outline.
type RequiredHeadingsRule struct {
	lint.BaseRule
}

// NewRequiredHeadingsRule creates a new required-headings rule.
func NewRequiredHeadingsRule() *RequiredHeadingsRule {
	return &RequiredHeadingsRule{
		BaseRule: lint.NewBaseRule(
			"MD043",
			"required-headings",
			"Required heading structure",
			[]string{"headings"},
			false,
		),
	}
}

type requiredHeadingsOptions struct {
	Headings  []string `mapstructure:"headings"`
	MatchCase bool     `mapstructure:"match_case"`
}

// Check walks the headings, each written as "## Text", through the
// configured outline. "*" matches any number of headings, "+" one or more
// and "?" exactly one. Checking stops at the first mismatch.
func (r *RequiredHeadingsRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, requiredHeadingsOptions{})
	if err != nil {
		return nil, err
	}
	want := opts.Headings
	if len(want) == 0 {
		return nil, nil
	}
	same := func(a, b string) bool {
		if opts.MatchCase {
			return a == b
		}
		return strings.EqualFold(a, b)
	}

	report := lint.NewReport(r, doc)
	i, wildcard := 0, false

	for _, h := range collectHeadings(doc, report) {
		actual := strings.Repeat("#", h.Level()) + " " + h.text
		for matched := false; !matched; {
			next := ""
			if i < len(want) {
				next = want[i]
			}
			switch {
			case next == "*":
				i++
				wildcard = true
			case next == "+":
				i++
				wildcard, matched = true, true
			case next == "?":
				i++
				wildcard, matched = false, true
			case next != "" && same(next, actual):
				i++
				wildcard, matched = false, true
			case wildcard:
				matched = true
			default:
				if next == "" {
					next = "[None]"
				}
				report.AtOffset(h.Range.StartOffset, fmt.Sprintf("Expected: %s; Actual: %s", next, actual))
				return report.Result()
			}
		}
	}

	for _, rest := range want[i:] {
		if rest != "*" {
			report.At(max(doc.LineCount(), 1), 1, "Missing heading: "+rest)
			break
		}
	}

	return report.Result()
}
