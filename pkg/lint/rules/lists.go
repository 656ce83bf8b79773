package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// list is a list construct with its direct items.
type list struct {
	lint.Construct

	depth     int  // enclosing lists of the same kind (ordered or not)
	nested    bool // inside any other list
	inOrdered bool // inside an ordered list
	items     []lint.Construct
}

func collectLists(events []mdast.Event) []*list {
	var (
		out   []*list
		stack []*list
	)
	for i, ev := range events {
		switch {
		case ev.Is(mdast.Enter, mdast.KindList):
			l := &list{Construct: lint.Construct{Event: ev, Enter: i, Exit: mdast.MatchingExit(events, i)}}
			l.nested = len(stack) > 0
			for _, outer := range stack {
				if outer.Attrs.Ordered == ev.Attrs.Ordered {
					l.depth++
				}
				if outer.Attrs.Ordered {
					l.inOrdered = true
				}
			}
			out = append(out, l)
			stack = append(stack, l)
		case ev.Is(mdast.Exit, mdast.KindList):
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ev.Is(mdast.Enter, mdast.KindListItem):
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.items = append(top.items, lint.Construct{Event: ev, Enter: i, Exit: mdast.MatchingExit(events, i)})
			}
		}
	}
	return out
}

// digitsEnd returns the offset just past the digits starting at off.
func digitsEnd(content []byte, off int) int {
	for off < len(content) && content[off] >= '0' && content[off] <= '9' {
		off++
	}
	return off
}

// Bullet styles accepted by MD004.
const (
	styleAsterisk = "asterisk"
	stylePlus     = "plus"
	styleDash     = "dash"
	styleSublist  = "sublist"
)

//nolint:gochecknoglobals // Read-only lookup table.
var bulletStyles = map[byte]string{'*': styleAsterisk, '+': stylePlus, '-': styleDash}

//nolint:gochecknoglobals // Read-only lookup table.
var bulletMarkers = map[string]byte{styleAsterisk: '*', stylePlus: '+', styleDash: '-'}

// nextBullet returns a marker different from m, cycling dash, plus, asterisk.
func nextBullet(m byte) byte {
	switch m {
	case '-':
		return '+'
	case '+':
		return '*'
	default:
		return '-'
	}
}

// UnorderedListStyleRule checks the bullet character of unordered lists.
type UnorderedListStyleRule struct {
	lint.BaseRule
}

// NewUnorderedListStyleRule creates a new ul-style rule.
func NewUnorderedListStyleRule() *UnorderedListStyleRule {
	return &UnorderedListStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD004",
			"ul-style",
			"Unordered list style",
			[]string{"bullet", "ul"},
			true,
		),
	}
}

type listStyleOptions struct {
	Style string `mapstructure:"style"`
}

// Check compares each item's bullet with the expected one. With "sublist"
// each nesting level takes its first bullet, which must differ from its
// parent level's.
func (r *UnorderedListStyleRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, listStyleOptions{Style: styleConsistent})
	if err != nil {
		return nil, err
	}
	var fixed byte
	switch opts.Style {
	case styleConsistent, styleSublist:
	default:
		m, ok := bulletMarkers[opts.Style]
		if !ok {
			return nil, fmt.Errorf("%w: unknown list style %q", lint.ErrInvalidSettings, opts.Style)
		}
		fixed = m
	}

	report := lint.NewReport(r, doc)
	content := doc.Content()
	byLevel := make(map[int]byte)

	for _, l := range collectLists(doc.Events()) {
		if l.Attrs.Ordered {
			continue
		}
		for _, item := range l.items {
			actual := item.Attrs.Marker

			expected := fixed
			switch opts.Style {
			case styleConsistent:
				if byLevel[0] == 0 {
					byLevel[0] = actual
				}
				expected = byLevel[0]
			case styleSublist:
				if byLevel[l.depth] == 0 {
					m := actual
					if l.depth > 0 && m == byLevel[l.depth-1] {
						m = nextBullet(m)
					}
					byLevel[l.depth] = m
				}
				expected = byLevel[l.depth]
			}

			if actual == expected {
				continue
			}
			msg := fmt.Sprintf("Expected: %s; Actual: %s", bulletStyles[expected], bulletStyles[actual])
			off := item.Range.StartOffset
			if content[off] != actual {
				report.AtOffset(off, msg)
				continue
			}
			start, ok := report.Position(off)
			if !ok {
				break
			}
			report.AtOffsetWithFix(off, msg, fix.Replace(start,
				mdast.Position{Line: start.Line, Column: start.Column + 1},
				string(expected), "Change list marker"))
		}
	}

	return report.Result()
}

// Ordered list prefix styles accepted by MD029.
const (
	styleOne          = "one"
	styleOrdered      = "ordered"
	styleOneOrOrdered = "one_or_ordered"
	styleZero         = "zero"
)

// OrderedListPrefixRule checks the numbering of ordered lists.
type OrderedListPrefixRule struct {
	lint.BaseRule
}

// NewOrderedListPrefixRule creates a new ol-prefix rule.
func NewOrderedListPrefixRule() *OrderedListPrefixRule {
	return &OrderedListPrefixRule{
		BaseRule: lint.NewBaseRule(
			"MD029",
			"ol-prefix",
			"Ordered list item prefix",
			[]string{"ol"},
			true,
		),
	}
}

// Check numbers the items of each ordered list by the configured style.
// "one_or_ordered" reads the style from the first two items.
func (r *OrderedListPrefixRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, listStyleOptions{Style: styleOneOrOrdered})
	if err != nil {
		return nil, err
	}
	switch opts.Style {
	case styleOne, styleOrdered, styleOneOrOrdered, styleZero:
	default:
		return nil, fmt.Errorf("%w: unknown ordered list style %q", lint.ErrInvalidSettings, opts.Style)
	}

	report := lint.NewReport(r, doc)

	for _, l := range collectLists(doc.Events()) {
		if !l.Attrs.Ordered || len(l.items) == 0 {
			continue
		}
		first := l.items[0].Attrs.Number

		start, step := 1, 1
		switch opts.Style {
		case styleOne:
			step = 0
		case styleZero:
			start, step = 0, 0
		case styleOrdered:
			start = first
		case styleOneOrOrdered:
			start = first
			if len(l.items) > 1 && l.items[1].Attrs.Number == first && (first == 0 || first == 1) {
				step = 0
			}
		}
		if start < 0 {
			start = 1
		}
		pattern := fmt.Sprintf("%d/%d/%d", start, start+step, start+2*step)

		for i, item := range l.items {
			actual := item.Attrs.Number
			expected := start + i*step
			if actual < 0 || actual == expected {
				continue
			}
			pos, ok := report.Position(item.Range.StartOffset)
			if !ok {
				break
			}
			digits := digitsEnd(doc.Content(), item.Range.StartOffset) - item.Range.StartOffset
			report.AtWithFix(pos.Line, pos.Column,
				fmt.Sprintf("Expected: %d; Actual: %d; Style: %s", expected, actual, pattern),
				fix.Replace(pos, mdast.Position{Line: pos.Line, Column: pos.Column + digits},
					strconv.Itoa(expected), "Renumber list item"))
		}
	}

	return report.Result()
}

// ListMarkerSpaceRule checks the spacing after list markers.
type ListMarkerSpaceRule struct {
	lint.BaseRule
}

// NewListMarkerSpaceRule creates a new list-marker-space rule.
func NewListMarkerSpaceRule() *ListMarkerSpaceRule {
	return &ListMarkerSpaceRule{
		BaseRule: lint.NewBaseRule(
			"MD030",
			"list-marker-space",
			"Spaces after list markers",
			[]string{"ol", "ul", "whitespace"},
			true,
		),
	}
}

type markerSpaceOptions struct {
	ULSingle int `mapstructure:"ul_single"`
	OLSingle int `mapstructure:"ol_single"`
	ULMulti  int `mapstructure:"ul_multi"`
	OLMulti  int `mapstructure:"ol_multi"`
}

// Check counts the spaces between each marker and the item text. A list is
// "multi" when any of its items spans more than one line.
func (r *ListMarkerSpaceRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, markerSpaceOptions{ULSingle: 1, OLSingle: 1, ULMulti: 1, OLMulti: 1})
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	content := doc.Content()

	for _, l := range collectLists(doc.Events()) {
		multi := false
		for _, item := range l.items {
			first, last, err := lint.LineSpan(doc, item.Range)
			if err != nil {
				return nil, err
			}
			if first != last {
				multi = true
				break
			}
		}

		want := opts.ULSingle
		switch {
		case l.Attrs.Ordered && multi:
			want = opts.OLMulti
		case l.Attrs.Ordered:
			want = opts.OLSingle
		case multi:
			want = opts.ULMulti
		}

		for _, item := range l.items {
			markerEnd := item.Range.StartOffset + 1
			if l.Attrs.Ordered {
				markerEnd = digitsEnd(content, item.Range.StartOffset) + 1
			}
			line := report.Line(item.Range.StartOffset)
			if line == 0 {
				break
			}
			lineStart, lineEnd := doc.LineBounds(line)
			if markerEnd > lineEnd {
				continue
			}
			rest := string(content[markerEnd:lineEnd])
			spaces := len(rest) - len(strings.TrimLeft(rest, " "))
			if spaces == len(rest) || spaces == want || strings.HasPrefix(rest[spaces:], "\t") {
				continue
			}
			markerCol := lint.ColumnOf(string(content[lineStart:lineEnd]), markerEnd-lineStart)
			report.AtOffsetWithFix(item.Range.StartOffset,
				fmt.Sprintf("Expected: %d; Actual: %d", want, spaces),
				fix.Replace(mdast.Position{Line: line, Column: markerCol},
					mdast.Position{Line: line, Column: markerCol + spaces},
					strings.Repeat(" ", want), "Adjust spaces after list marker"))
		}
	}

	return report.Result()
}

// BlanksAroundListsRule checks that lists are surrounded by blank lines.
type BlanksAroundListsRule struct {
	lint.BaseRule
}

// NewBlanksAroundListsRule creates a new blanks-around-lists rule.
func NewBlanksAroundListsRule() *BlanksAroundListsRule {
	return &BlanksAroundListsRule{
		BaseRule: lint.NewBaseRule(
			"MD032",
			"blanks-around-lists",
			"Lists should be surrounded by blank lines",
			[]string{"bullet", "ul", "ol", "blank_lines"},
			true,
		),
	}
}

// Check inspects the lines around each list that is not nested in another.
func (r *BlanksAroundListsRule) Check(doc *mdast.Document, _ config.RuleConfig) ([]lint.Violation, error) {
	report := lint.NewReport(r, doc)
	fm := skipped(doc, report)

	for _, l := range findEnclosed(doc.Events(), mdast.KindList) {
		if l.inList {
			continue
		}
		first, last, err := lint.LineSpan(doc, l.Range)
		if err != nil {
			return nil, err
		}
		var parentFirst, parentLast int
		if l.parent != nil {
			if parentFirst, parentLast, err = lint.LineSpan(doc, l.parent.Range); err != nil {
				return nil, err
			}
		}

		if first > 1 && !fm[first-1] && parentFirst != first && blankAbove(doc, report, first) == 0 {
			report.AtOffsetWithFix(l.Range.StartOffset, "Lists should be surrounded by blank lines",
				insertBlankLines(doc, report, first, 1, "Insert blank line above list"))
		}
		if last < doc.LineCount() && parentLast != last && blankBelow(doc, report, last) == 0 {
			report.AtWithFix(last, 1, "Lists should be surrounded by blank lines",
				insertBlankLines(doc, report, last+1, 1, "Insert blank line below list"))
		}
	}

	return report.Result()
}
