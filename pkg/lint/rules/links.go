package rules

import (
	"bytes"
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// nonProse are the constructs whose text link rules never scan.
//
//nolint:gochecknoglobals // Read-only lookup table.
var nonProse = []mdast.Kind{
	mdast.KindCodeBlock, mdast.KindCodeSpan, mdast.KindHTMLBlock, mdast.KindHTMLInline,
	mdast.KindLink, mdast.KindImage,
}

// ReversedLinkRule checks for "(text)[url]" written instead of "[text](url)".
type ReversedLinkRule struct {
	lint.BaseRule
}

// NewReversedLinkRule creates a new no-reversed-links rule.
func NewReversedLinkRule() *ReversedLinkRule {
	return &ReversedLinkRule{
		BaseRule: lint.NewBaseRule(
			"MD011",
			"no-reversed-links",
			"Reversed link syntax",
			[]string{"links"},
			true,
		),
	}
}

var reversedLink = regexp.MustCompile(`\(([^()\n]+)\)\[([^\]\n^][^\]\n]*)\]`)

// Check scans prose for the reversed form, ignoring escaped parentheses and
// matches followed by "(".
func (r *ReversedLinkRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	text := prose(doc, nonProse...)

	for _, m := range reversedLink.FindAllSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if start > 0 && text[start-1] == '\\' {
			continue
		}
		if end < len(text) && text[end] == '(' {
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
		content := doc.Content()
		label, dest := string(content[m[2]:m[3]]), string(content[m[4]:m[5]])
		report.AtOffsetWithFix(start, fmt.Sprintf("Reversed link syntax: %s", content[start:end]),
			fix.Replace(from, to, "["+label+"]("+dest+")", "Swap link text and destination"))
	}

	return report.Result()
}

// NoBareURLsRule checks for URLs and email addresses not wrapped as links.
type NoBareURLsRule struct {
	lint.BaseRule
}

// NewNoBareURLsRule creates a new no-bare-urls rule.
func NewNoBareURLsRule() *NoBareURLsRule {
	return &NoBareURLsRule{
		BaseRule: lint.NewBaseRule(
			"MD034",
			"no-bare-urls",
			"Bare URL used",
			[]string{"links", "url"},
			true,
		),
	}
}

var bareURL = regexp.MustCompile(`(?i)\b(?:https?|ftp)://[^\s<>\[\]]+|[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)

// trimURL drops trailing punctuation that ends the sentence rather than the
// URL, keeping balanced closing parentheses.
func trimURL(u []byte) []byte {
	for len(u) > 0 {
		last := u[len(u)-1]
		switch {
		case bytes.IndexByte([]byte(".,;:!?'\"*_~"), last) >= 0:
			u = u[:len(u)-1]
		case last == ')' && bytes.Count(u, []byte("(")) < bytes.Count(u, []byte(")")):
			u = u[:len(u)-1]
		default:
			return u
		}
	}
	return u
}

// Check reports bare URLs in prose and, in GFM documents, the URLs the
// parser turned into links without angle brackets. The fix wraps them in
// "<" and ">".
func (r *NoBareURLsRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	content := doc.Content()

	type bare struct{ start, end int }
	var found []bare

	for _, c := range lint.Find(doc.Events(), mdast.KindLink) {
		rng := c.Range
		if !c.Attrs.Autolink || rng.IsEmpty() || content[rng.StartOffset] == '<' {
			continue
		}
		link := content[rng.StartOffset:rng.EndOffset]
		if !bytes.Contains(link, []byte("://")) && !bytes.Contains(link, []byte("@")) {
			continue
		}
		found = append(found, bare{rng.StartOffset, rng.EndOffset})
	}

	text := prose(doc, nonProse...)
	for _, m := range bareURL.FindAllIndex(text, -1) {
		u := trimURL(text[m[0]:m[1]])
		if len(u) == 0 {
			continue
		}
		found = append(found, bare{m[0], m[0] + len(u)})
	}

	slices.SortFunc(found, func(a, b bare) int { return cmp.Compare(a.start, b.start) })
	for _, b := range found {
		from, ok := report.Position(b.start)
		if !ok {
			break
		}
		to, ok := report.Position(b.end)
		if !ok {
			break
		}
		url := string(content[b.start:b.end])
		report.AtOffsetWithFix(b.start, fmt.Sprintf("Bare URL used: %s", url),
			fix.Replace(from, to, "<"+url+">", "Wrap URL in angle brackets"))
	}

	return report.Result()
}

// LinkSpacesRule checks for spaces just inside link text brackets.
type LinkSpacesRule struct {
	lint.BaseRule
}

// NewLinkSpacesRule creates a new no-space-in-links rule.
func NewLinkSpacesRule() *LinkSpacesRule {
	return &LinkSpacesRule{
		BaseRule: lint.NewBaseRule(
			"MD039",
			"no-space-in-links",
			"Spaces inside link text",
			[]string{"whitespace", "links"},
			true,
		),
	}
}

// Check compares each link label with its trimmed form.
func (r *LinkSpacesRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	content := doc.Content()
	events := doc.Events()

	for _, c := range lint.Find(events, mdast.KindLink) {
		inner := c.Inner(events)
		if c.Attrs.Autolink || len(inner) == 0 || content[c.Range.StartOffset] != '[' {
			continue
		}
		open := c.Range.StartOffset + 1
		last := inner[len(inner)-1].Range.EndOffset
		closing := bytes.IndexByte(content[last:c.Range.EndOffset], ']')
		if closing < 0 {
			continue
		}
		closing += last

		label := string(content[open:closing])
		trimmed := strings.TrimSpace(label)
		if trimmed == label || trimmed == "" || strings.ContainsAny(label, "\r\n") {
			continue
		}
		from, ok := report.Position(open)
		if !ok {
			break
		}
		to, ok := report.Position(closing)
		if !ok {
			break
		}
		report.AtOffsetWithFix(c.Range.StartOffset, fmt.Sprintf("Spaces inside link text: [%s]", label),
			fix.Replace(from, to, trimmed, "Remove spaces inside link text"))
	}

	return report.Result()
}

// EmptyLinkRule checks for links without a destination.
type EmptyLinkRule struct {
	lint.BaseRule
}

// NewEmptyLinkRule creates a new no-empty-links rule.
func NewEmptyLinkRule() *EmptyLinkRule {
	return &EmptyLinkRule{
		BaseRule: lint.NewBaseRule(
			"MD042",
			"no-empty-links",
			"No empty links",
			[]string{"links"},
			false,
		),
	}
}

// Check reports links whose destination is empty or a bare "#".
func (r *EmptyLinkRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)

	for _, c := range lint.Find(doc.Events(), mdast.KindLink) {
		if c.Attrs.Autolink {
			continue
		}
		if dest := strings.TrimSpace(c.Attrs.Destination); dest == "" || dest == "#" {
			report.AtOffset(c.Range.StartOffset, fmt.Sprintf("No empty links: %s", sourceText(doc, c.Range)))
		}
	}

	return report.Result()
}

// ImageAltTextRule checks that images have alternate text.
type ImageAltTextRule struct {
	lint.BaseRule
}

// NewImageAltTextRule creates a new no-alt-text rule.
func NewImageAltTextRule() *ImageAltTextRule {
	return &ImageAltTextRule{
		BaseRule: lint.NewBaseRule(
			"MD045",
			"no-alt-text",
			"Images should have alternate text (alt text)",
			[]string{"accessibility", "images"},
			false,
		),
	}
}

var (
	imgTag  = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	altAttr = regexp.MustCompile(`(?i)\salt\s*=`)
)

// Check reports Markdown images with empty alt text and HTML img tags
// without an alt attribute.
func (r *ImageAltTextRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	events := doc.Events()

	for i, ev := range events {
		switch {
		case ev.Is(mdast.Enter, mdast.KindImage):
			c := lint.Construct{Event: ev, Enter: i, Exit: mdast.MatchingExit(events, i)}
			if strings.TrimSpace(lint.TextContent(doc, c.Inner(events))) == "" {
				report.AtOffset(ev.Range.StartOffset, "Images should have alternate text (alt text)")
			}
		case ev.Phase == mdast.Leaf && ev.Kind == mdast.KindHTMLInline,
			ev.Is(mdast.Enter, mdast.KindHTMLBlock):
			html := doc.Content()[ev.Range.StartOffset:ev.Range.EndOffset]
			for _, m := range imgTag.FindAllIndex(html, -1) {
				if !altAttr.Match(html[m[0]:m[1]]) {
					report.AtOffset(ev.Range.StartOffset+m[0], "Images should have alternate text (alt text)")
				}
			}
		}
	}

	return report.Result()
}

// labelEnd returns the offset of the "]" closing the text of link or
// image c.
func labelEnd(content []byte, events []mdast.Event, c lint.Construct) (int, bool) {
	from := c.Range.StartOffset
	if inner := c.Inner(events); len(inner) > 0 {
		from = inner[len(inner)-1].Range.EndOffset
	}
	if from > c.Range.EndOffset {
		return 0, false
	}
	i := bytes.IndexByte(content[from:c.Range.EndOffset], ']')
	if i < 0 {
		return 0, false
	}
	return from + i, true
}

// Link and image styles named by MD054.
const (
	linkAutolink  = "autolink"
	linkInline    = "inline"
	linkFull      = "full"
	linkCollapsed = "collapsed"
	linkShortcut  = "shortcut"
)

// linkStyle returns the syntax c is written in, or "" for bare URLs.
func linkStyle(content []byte, events []mdast.Event, c lint.Construct) string {
	if c.Attrs.Autolink {
		if content[c.Range.StartOffset] == '<' {
			return linkAutolink
		}
		return ""
	}
	closing, ok := labelEnd(content, events, c)
	if !ok {
		return ""
	}
	next := closing + 1
	switch {
	case next >= c.Range.EndOffset:
		return linkShortcut
	case content[next] == '(':
		return linkInline
	case next+1 < c.Range.EndOffset && content[next+1] == ']':
		return linkCollapsed
	default:
		return linkFull
	}
}

// LinkImageStyleRule checks links and images against the allowed syntaxes.
type LinkImageStyleRule struct {
	lint.BaseRule
}

// NewLinkImageStyleRule creates a new link-image-style rule.
func NewLinkImageStyleRule() *LinkImageStyleRule {
	return &LinkImageStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD054",
			"link-image-style",
			"Link and image style",
			[]string{"images", "links"},
			true,
		),
	}
}

type linkImageStyleOptions struct {
	Autolink  bool `mapstructure:"autolink"`
	Inline    bool `mapstructure:"inline"`
	Full      bool `mapstructure:"full"`
	Collapsed bool `mapstructure:"collapsed"`
	Shortcut  bool `mapstructure:"shortcut"`
	URLInline bool `mapstructure:"url_inline"`
}

// Check reports links and images written in a disallowed style. With
// url_inline off, inline links whose text is their own URL are reported
// too. Autolinks and such inline links are converted into each other when
// the other form is allowed.
func (r *LinkImageStyleRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, linkImageStyleOptions{
		Autolink: true, Inline: true, Full: true, Collapsed: true, Shortcut: true, URLInline: true,
	})
	if err != nil {
		return nil, err
	}
	allowed := map[string]bool{
		linkAutolink:  opts.Autolink,
		linkInline:    opts.Inline,
		linkFull:      opts.Full,
		linkCollapsed: opts.Collapsed,
		linkShortcut:  opts.Shortcut,
	}

	report := lint.NewReport(r, doc)
	content := doc.Content()
	events := doc.Events()

	found := append(lint.Find(events, mdast.KindLink), lint.Find(events, mdast.KindImage)...)
	slices.SortFunc(found, func(a, b lint.Construct) int { return cmp.Compare(a.Range.StartOffset, b.Range.StartOffset) })

	for _, c := range found {
		style := linkStyle(content, events, c)
		if style == "" {
			continue
		}
		from, okFrom := report.Position(c.Range.StartOffset)
		to, okTo := report.Position(c.Range.EndOffset)
		if !okFrom || !okTo {
			break
		}

		if !allowed[style] {
			msg := "Link style not allowed: " + style
			if style == linkAutolink && opts.Inline && opts.URLInline {
				label := string(content[c.Range.StartOffset+1 : c.Range.EndOffset-1])
				report.AtOffsetWithFix(c.Range.StartOffset, msg,
					fix.Replace(from, to, "["+label+"]("+c.Attrs.Destination+")", "Convert autolink to inline link"))
				continue
			}
			report.AtOffset(c.Range.StartOffset, msg)
			continue
		}

		if style != linkInline || opts.URLInline || c.Kind == mdast.KindImage || c.Attrs.Title != "" {
			continue
		}
		dest := c.Attrs.Destination
		if lint.TextContent(doc, c.Inner(events)) != dest || !strings.Contains(dest, "://") {
			continue
		}
		msg := "Link text is its own URL; use an autolink"
		if !opts.Autolink {
			report.AtOffset(c.Range.StartOffset, msg)
			continue
		}
		report.AtOffsetWithFix(c.Range.StartOffset, msg,
			fix.Replace(from, to, "<"+dest+">", "Convert inline link to autolink"))
	}

	return report.Result()
}

// DescriptiveLinkTextRule checks for link text that says nothing about
// the destination.
type DescriptiveLinkTextRule struct {
	lint.BaseRule
}

// NewDescriptiveLinkTextRule creates a new descriptive-link-text rule.
func NewDescriptiveLinkTextRule() *DescriptiveLinkTextRule {
	return &DescriptiveLinkTextRule{
		BaseRule: lint.NewBaseRule(
			"MD059",
			"descriptive-link-text",
			"Link text should be descriptive",
			[]string{"accessibility", "links"},
			false,
		),
	}
}

type descriptiveLinkTextOptions struct {
	ProhibitedTexts []string `mapstructure:"prohibited_texts"`
}

// normalizeLinkText lowercases s and reduces punctuation and whitespace
// runs to single spaces.
func normalizeLinkText(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " ")
}

// Check reports links whose plain text is one of the prohibited texts.
// Links holding code, HTML or images are skipped.
func (r *DescriptiveLinkTextRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, descriptiveLinkTextOptions{
		ProhibitedTexts: []string{"click here", "here", "link", "more"},
	})
	if err != nil {
		return nil, err
	}
	prohibited := make(map[string]bool, len(opts.ProhibitedTexts))
	for _, text := range opts.ProhibitedTexts {
		prohibited[normalizeLinkText(text)] = true
	}

	report := lint.NewReport(r, doc)
	events := doc.Events()

links:
	for _, c := range lint.Find(events, mdast.KindLink) {
		if c.Attrs.Autolink {
			continue
		}
		inner := c.Inner(events)
		for _, ev := range inner {
			switch ev.Kind {
			case mdast.KindCodeSpan, mdast.KindHTMLInline, mdast.KindImage:
				continue links
			}
		}
		text := strings.TrimSpace(lint.TextContent(doc, inner))
		if text != "" && prohibited[normalizeLinkText(text)] {
			report.AtOffset(c.Range.StartOffset, fmt.Sprintf("Link text should be descriptive: %q", text))
		}
	}

	return report.Result()
}
