package lint

import (
	"slices"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// Construct is one construct of the event stream: its opening (or leaf)
// event and the index range of the events it spans.
type Construct struct {
	mdast.Event

	// Enter is the index of the Enter or Leaf event.
	Enter int

	// Exit is the index of the matching Exit event, or Enter for a leaf.
	Exit int
}

// Find returns the constructs of the given kind in document order.
func Find(events []mdast.Event, kind mdast.Kind) []Construct {
	var out []Construct
	for i, ev := range events {
		if ev.Kind != kind {
			continue
		}
		switch ev.Phase {
		case mdast.Enter:
			exit := mdast.MatchingExit(events, i)
			if exit < 0 {
				exit = len(events) - 1
			}
			out = append(out, Construct{Event: ev, Enter: i, Exit: exit})
		case mdast.Leaf:
			out = append(out, Construct{Event: ev, Enter: i, Exit: i})
		case mdast.Exit:
		}
	}
	return out
}

// Inner returns the events strictly inside c.
func (c Construct) Inner(events []mdast.Event) []mdast.Event {
	if c.Exit <= c.Enter {
		return nil
	}
	return events[c.Enter+1 : c.Exit]
}

// TextContent concatenates the text and code span leaves of events.
func TextContent(doc *mdast.Document, events []mdast.Event) string {
	content := doc.Content()

	var b strings.Builder
	for _, ev := range events {
		if ev.Phase != mdast.Leaf {
			continue
		}
		switch ev.Kind {
		case mdast.KindText, mdast.KindCodeSpan:
			b.Write(content[ev.Range.StartOffset:ev.Range.EndOffset])
		case mdast.KindSoftBreak, mdast.KindHardBreak:
			b.WriteByte(' ')
		default:
		}
	}
	return b.String()
}

// LineSpan returns the first and last line a range touches. A range ending
// right after a line terminator does not touch the next line.
func LineSpan(doc *mdast.Document, r mdast.SourceRange) (int, int, error) {
	first, err := doc.LineOf(r.StartOffset)
	if err != nil {
		return 0, 0, err
	}
	end := r.EndOffset
	if end > r.StartOffset {
		end--
	}
	last, err := doc.LineOf(end)
	if err != nil {
		return 0, 0, err
	}
	return first, last, nil
}

// LinesOf returns the set of lines touched by constructs of the given kinds.
func LinesOf(doc *mdast.Document, kinds ...mdast.Kind) (map[int]bool, error) {
	lines := make(map[int]bool)
	for _, ev := range doc.Events() {
		if ev.Phase == mdast.Exit || !slices.Contains(kinds, ev.Kind) {
			continue
		}
		first, last, err := LineSpan(doc, ev.Range)
		if err != nil {
			return nil, err
		}
		for n := first; n <= last; n++ {
			lines[n] = true
		}
	}
	return lines, nil
}

// FrontMatterLines returns the set of lines of the front matter block.
func FrontMatterLines(doc *mdast.Document) (map[int]bool, error) {
	lines := make(map[int]bool)
	fm, ok := doc.FrontMatter()
	if !ok || fm.IsEmpty() {
		return lines, nil
	}
	first, last, err := LineSpan(doc, fm)
	if err != nil {
		return nil, err
	}
	for n := first; n <= last; n++ {
		lines[n] = true
	}
	return lines, nil
}

// IsBlank reports whether a line holds only spaces and tabs.
func IsBlank(line string) bool {
	return strings.TrimLeft(line, " \t") == ""
}

// Indent returns the number of leading spaces and tabs.
func Indent(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// ColumnOf returns the 1-based column of byte index i within line.
func ColumnOf(line string, i int) int {
	return len([]rune(line[:i])) + 1
}

// EndColumn returns the column just past the last character of line.
func EndColumn(line string) int {
	return len([]rune(line)) + 1
}
