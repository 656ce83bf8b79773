package rules

import (
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// decode fills opts from settings, keeping the defaults already in opts for
// anything settings leave out.
func decode[T any](settings config.RuleConfig, defaults T) (T, error) {
	opts := defaults
	if err := lint.DecodeSettings(settings, &opts); err != nil {
		return defaults, err
	}
	return opts, nil
}

// heading is a heading construct with its line span and plain text.
type heading struct {
	lint.Construct

	first, last int
	text        string
}

// Level returns the heading level.
func (h heading) Level() int {
	return h.Attrs.Level
}

func collectHeadings(doc *mdast.Document, report *lint.Report) []heading {
	events := doc.Events()

	var out []heading
	for _, c := range lint.Find(events, mdast.KindHeading) {
		first, last, err := lint.LineSpan(doc, c.Range)
		if err != nil {
			report.Fail(err)
			return nil
		}
		out = append(out, heading{
			Construct: c,
			first:     first,
			last:      last,
			text:      strings.TrimSpace(lint.TextContent(doc, c.Inner(events))),
		})
	}
	return out
}

// skipped returns the lines a line-oriented rule ignores: the front matter
// plus every line touched by the given construct kinds.
func skipped(doc *mdast.Document, report *lint.Report, kinds ...mdast.Kind) map[int]bool {
	lines, err := lint.FrontMatterLines(doc)
	if err != nil {
		report.Fail(err)
		return map[int]bool{}
	}
	if len(kinds) == 0 {
		return lines
	}
	inner, err := lint.LinesOf(doc, kinds...)
	if err != nil {
		report.Fail(err)
		return lines
	}
	for n := range inner {
		lines[n] = true
	}
	return lines
}

// lineText returns the text of line n, recording a lookup failure.
func lineText(doc *mdast.Document, report *lint.Report, n int) string {
	text, err := doc.Line(n)
	if err != nil {
		report.Fail(err)
	}
	return text
}

// isBlankish reports whether a line is empty apart from blockquote markers.
func isBlankish(text string) bool {
	return strings.Trim(text, " \t>") == ""
}

// quotePrefix returns the blockquote markers opening text, with trailing
// whitespace removed, or "" when text is not quoted.
func quotePrefix(text string) string {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '>') {
		i++
	}
	prefix := strings.TrimRight(text[:i], " \t")
	if !strings.Contains(prefix, ">") {
		return ""
	}
	return prefix
}

// blankAbove counts the blank lines directly above line n.
func blankAbove(doc *mdast.Document, report *lint.Report, n int) int {
	count := 0
	for k := n - 1; k >= 1 && isBlankish(lineText(doc, report, k)); k-- {
		count++
	}
	return count
}

// blankBelow counts the blank lines directly below line n.
func blankBelow(doc *mdast.Document, report *lint.Report, n int) int {
	count := 0
	for k := n + 1; k <= doc.LineCount() && isBlankish(lineText(doc, report, k)); k++ {
		count++
	}
	return count
}

// insertBlankLines returns a fix opening count blank lines before line n.
// Blank lines inside a blockquote keep the quote markers of line n.
func insertBlankLines(doc *mdast.Document, report *lint.Report, n, count int, description string) fix.Fix {
	blank := doc.LineEnding()
	if n <= doc.LineCount() {
		blank = quotePrefix(lineText(doc, report, n)) + blank
	}
	return fix.Insert(mdast.Position{Line: n, Column: 1}, strings.Repeat(blank, count), description)
}

// deleteLines returns a fix removing lines first through last together with
// their terminators.
func deleteLines(doc *mdast.Document, report *lint.Report, first, last int, description string) fix.Fix {
	if last < doc.LineCount() || strings.HasSuffix(string(doc.Content()), "\n") {
		return fix.Delete(mdast.Position{Line: first, Column: 1}, mdast.Position{Line: last + 1, Column: 1}, description)
	}
	end := mdast.Position{Line: last, Column: lint.EndColumn(lineText(doc, report, last))}
	if first == 1 {
		return fix.Delete(mdast.Position{Line: 1, Column: 1}, end, description)
	}
	// Last line without terminator: take the terminator of the line above.
	start := mdast.Position{Line: first - 1, Column: lint.EndColumn(lineText(doc, report, first-1))}
	return fix.Delete(start, end, description)
}

// sourceText returns the source text of r.
func sourceText(doc *mdast.Document, r mdast.SourceRange) string {
	return string(doc.Content()[r.StartOffset:r.EndOffset])
}

// enclosed is a construct with the innermost list item or blockquote
// around it, if any.
type enclosed struct {
	lint.Construct

	parent    *mdast.Event
	inList    bool
	inQuote   bool
	listDepth int
}

// findEnclosed returns the constructs of kind with their containers.
func findEnclosed(events []mdast.Event, kind mdast.Kind) []enclosed {
	var (
		out   []enclosed
		stack []mdast.Event
	)
	for i, ev := range events {
		if ev.Kind == kind && ev.Phase != mdast.Exit {
			e := enclosed{Construct: lint.Construct{Event: ev, Enter: i, Exit: i}}
			if ev.Phase == mdast.Enter {
				e.Exit = mdast.MatchingExit(events, i)
				if e.Exit < 0 {
					e.Exit = len(events) - 1
				}
			}
			for j := len(stack) - 1; j >= 0; j-- {
				switch stack[j].Kind {
				case mdast.KindListItem:
					e.inList = true
					e.listDepth++
				case mdast.KindBlockquote:
					e.inQuote = true
				default:
					continue
				}
				if e.parent == nil {
					parent := stack[j]
					e.parent = &parent
				}
			}
			out = append(out, e)
		}

		if ev.Kind != mdast.KindListItem && ev.Kind != mdast.KindBlockquote {
			continue
		}
		switch ev.Phase {
		case mdast.Enter:
			stack = append(stack, ev)
		case mdast.Exit:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case mdast.Leaf:
		}
	}
	return out
}

// linkDefinition matches a link reference definition line.
var linkDefinition = regexp.MustCompile(`^ {0,3}\[[^\]]+\]:\s`)

// prose returns a copy of the content in which everything but prose text is
// blanked: the given construct kinds, the front matter and link reference
// definitions. Line terminators are kept, so offsets are unchanged.
func prose(doc *mdast.Document, kinds ...mdast.Kind) []byte {
	out := slices.Clone(doc.Content())
	blank := func(r mdast.SourceRange) {
		for i := r.StartOffset; i < r.EndOffset && i < len(out); i++ {
			if out[i] != '\n' && out[i] != '\r' {
				out[i] = ' '
			}
		}
	}

	if fm, ok := doc.FrontMatter(); ok {
		blank(fm)
	}
	for _, ev := range doc.Events() {
		if ev.Phase != mdast.Exit && slices.Contains(kinds, ev.Kind) {
			blank(ev.Range)
		}
	}
	for n, text := range doc.Lines() {
		if linkDefinition.MatchString(text) {
			start, end := doc.LineBounds(n)
			blank(mdast.SourceRange{StartOffset: start, EndOffset: end})
		}
	}
	return out
}
