package goldmark

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// mapper converts a goldmark AST into an mdast event stream.
//
// goldmark records the content lines of leaf blocks and the segments of
// text, but not where markers such as "#", ">", list bullets or fences sit.
// The mapper recovers those from the source, walking blocks and inlines in
// document order with a cursor at the end of the last located construct.
type mapper struct {
	src    source
	cursor int // end of the last located block
	ic     int // end of the last located inline
}

// newMapper creates a new mapper for the given content.
func newMapper(content []byte) *mapper {
	return &mapper{src: source(content)}
}

// located is the outcome of mapping one goldmark node: its events and, when
// the node could be placed in the source, its range.
type located struct {
	events []mdast.Event
	r      mdast.SourceRange
	ok     bool
}

// mapDocument converts a goldmark document node to an event stream.
func (m *mapper) mapDocument(root ast.Node) []mdast.Event {
	events, _, _ := m.blockChildren(root)
	return events
}

func (m *mapper) rng(start, end int) mdast.SourceRange {
	start = min(max(start, 0), len(m.src))
	end = min(max(end, start), len(m.src))
	return mdast.SourceRange{StartOffset: start, EndOffset: end}
}

func (m *mapper) advance(r mdast.SourceRange) {
	m.cursor = max(m.cursor, r.EndOffset)
}

func wrap(kind mdast.Kind, attrs mdast.Attrs, r mdast.SourceRange, inner []mdast.Event) located {
	events := make([]mdast.Event, 0, len(inner)+2)
	events = append(events, mdast.Event{Phase: mdast.Enter, Kind: kind, Range: r, Attrs: attrs})
	events = append(events, inner...)
	events = append(events, mdast.Event{Phase: mdast.Exit, Kind: kind, Range: r, Attrs: attrs})
	return located{events: events, r: r, ok: true}
}

func leaf(kind mdast.Kind, attrs mdast.Attrs, r mdast.SourceRange) located {
	return located{
		events: []mdast.Event{{Phase: mdast.Leaf, Kind: kind, Range: r, Attrs: attrs}},
		r:      r,
		ok:     true,
	}
}

// union extends r to cover other.
func union(r mdast.SourceRange, found bool, other mdast.SourceRange) mdast.SourceRange {
	if !found {
		return other
	}
	return mdast.SourceRange{
		StartOffset: min(r.StartOffset, other.StartOffset),
		EndOffset:   max(r.EndOffset, other.EndOffset),
	}
}

// blockChildren maps the block children of n and returns the range they cover.
func (m *mapper) blockChildren(n ast.Node) ([]mdast.Event, mdast.SourceRange, bool) {
	var (
		events []mdast.Event
		r      mdast.SourceRange
		found  bool
	)
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		loc := m.mapBlock(child)
		events = append(events, loc.events...)
		if loc.ok {
			r = union(r, found, loc.r)
			found = true
		}
	}
	return events, r, found
}

// mapBlock converts a single goldmark block node.
func (m *mapper) mapBlock(n ast.Node) located {
	var loc located

	switch node := n.(type) {
	case *ast.Heading:
		loc = m.mapHeading(node)
	case *ast.Paragraph, *ast.TextBlock:
		loc = m.mapParagraph(n)
	case *ast.List:
		loc = m.mapList(node)
	case *ast.ListItem:
		loc = m.mapListItem(node)
	case *ast.Blockquote:
		loc = m.mapBlockquote(node)
	case *ast.FencedCodeBlock:
		loc = m.mapFencedCodeBlock(node)
	case *ast.CodeBlock:
		loc = m.mapIndentedCodeBlock(node)
	case *ast.ThematicBreak:
		loc = m.mapThematicBreak()
	case *ast.HTMLBlock:
		loc = m.mapHTMLBlock(node)
	case *east.Table:
		loc = m.mapTable(node)
	case *east.TableHeader, *east.TableRow:
		loc = m.mapTableRow(n)
	case *east.TableCell:
		loc = m.mapTableCell(node)
	default:
		// Unknown containers contribute their children only.
		events, r, ok := m.blockChildren(n)
		loc = located{events: events, r: r, ok: ok}
	}

	if loc.ok {
		m.advance(loc.r)
	}
	return loc
}

func (m *mapper) mapParagraph(n ast.Node) located {
	lines := n.Lines()
	if lines.Len() == 0 {
		return located{}
	}

	start := m.src.skipForward(lines.At(0).Start, " \t")
	end := m.src.trimEnd(lines.At(lines.Len() - 1).Stop)
	r := m.rng(start, end)

	return wrap(mdast.KindParagraph, mdast.Attrs{}, r, m.inlines(n, r.StartOffset))
}

// mapHeading locates ATX headings by their opening hashes and setext
// headings by their underline.
func (m *mapper) mapHeading(h *ast.Heading) located {
	attrs := mdast.Attrs{Level: h.Level}

	var start, end int
	lines := h.Lines()
	if lines.Len() == 0 {
		p, ok := m.src.firstSignificant(m.cursor)
		if !ok {
			return located{}
		}
		start, end = p, m.src.lineEnd(p)
	} else {
		first := lines.At(0)
		p := m.src.skipBack(first.Start, " \t")
		if hashes := m.src.skipBack(p, "#"); hashes < p {
			start = hashes
			end = m.src.lineEnd(first.Start)
		} else {
			attrs.Setext = true
			start = m.src.skipForward(first.Start, " \t")
			underline := m.src.nextLine(lines.At(lines.Len() - 1).Start)
			end = m.src.lineEnd(underline)
		}
	}

	r := m.rng(start, end)
	return wrap(mdast.KindHeading, attrs, r, m.inlines(h, r.StartOffset))
}

func (m *mapper) mapList(list *ast.List) located {
	inner, r, ok := m.blockChildren(list)
	if !ok {
		return located{events: inner}
	}

	attrs := mdast.Attrs{
		Ordered: list.IsOrdered(),
		Start:   list.Start,
		Marker:  list.Marker,
		Tight:   list.IsTight,
	}
	return wrap(mdast.KindList, attrs, r, inner)
}

func (m *mapper) mapListItem(item *ast.ListItem) located {
	from := m.cursor
	inner, r, ok := m.blockChildren(item)

	start, found := 0, false
	if ok {
		start, found = m.itemMarker(r.StartOffset)
	}
	if !found {
		// Items whose content starts on a later line, or that are empty.
		start, found = m.src.scanLines(from, listMarker)
		if !found {
			return located{events: inner}
		}
	}

	attrs := mdast.Attrs{}
	markerEnd := start + 1
	if c := m.src[start]; c >= '0' && c <= '9' {
		digits := m.src.skipForward(start, "0123456789")
		attrs.Number = -1
		if n, err := strconv.Atoi(string(m.src[start:digits])); err == nil {
			attrs.Number = n
		}
		attrs.Marker = m.src[min(digits, len(m.src)-1)]
		markerEnd = digits + 1
	} else {
		attrs.Marker = c
	}

	end := markerEnd
	if ok {
		end = max(end, r.EndOffset)
	}
	return wrap(mdast.KindListItem, attrs, m.rng(start, end), inner)
}

// itemMarker returns the offset of the list marker preceding the item
// content starting at contentStart on the same line.
func (m *mapper) itemMarker(contentStart int) (int, bool) {
	p := m.src.skipBack(contentStart, " \t")
	if p == 0 || m.src[p-1] == '\n' {
		return 0, false
	}
	switch m.src[p-1] {
	case '-', '+', '*':
		return p - 1, true
	case '.', ')':
		if digits := m.src.skipBack(p-1, "0123456789"); digits < p-1 {
			return digits, true
		}
	}
	return 0, false
}

func (m *mapper) mapBlockquote(bq *ast.Blockquote) located {
	from := m.cursor
	inner, r, ok := m.blockChildren(bq)

	start, found := 0, false
	if ok {
		if p := m.src.skipBack(r.StartOffset, " \t"); p > 0 && m.src[p-1] == '>' {
			start, found = p-1, true
		}
	}
	if !found {
		start, found = m.src.scanLines(from, func(line []byte) (int, bool) {
			i := bytes.IndexByte(line, '>')
			return i, i >= 0
		})
		if !found {
			return located{events: inner}
		}
	}

	end := start + 1
	if ok {
		end = max(end, r.EndOffset)
	}
	return wrap(mdast.KindBlockquote, mdast.Attrs{}, m.rng(start, end), inner)
}

// mapFencedCodeBlock spans the opening fence through the closing fence, or
// through the last content line when the block is never closed.
func (m *mapper) mapFencedCodeBlock(code *ast.FencedCodeBlock) located {
	lines := code.Lines()

	start, found := 0, false
	if code.Info != nil {
		p := m.src.skipBack(code.Info.Segment.Start, " \t")
		if q := m.src.skipBack(p, "`~"); q < p {
			start, found = q, true
		}
	}
	if !found && lines.Len() > 0 {
		if ls := m.src.lineStart(lines.At(0).Start); ls > 0 {
			prev := m.src.lineStart(ls - 1)
			if i, ok := fenceRun(m.src[prev:m.src.lineEnd(prev)]); ok {
				start, found = prev+i, true
			}
		}
	}
	if !found {
		start, found = m.src.scanLines(m.cursor, fenceRun)
		if !found {
			return located{}
		}
	}

	attrs := mdast.Attrs{Fenced: true, FenceChar: m.src[start]}
	attrs.FenceLength = m.src.run(start, attrs.FenceChar)
	if code.Info != nil {
		attrs.Info = strings.TrimSpace(string(code.Info.Segment.Value(m.src)))
	}

	bodyEnd := m.src.lineEnd(start)
	if lines.Len() > 0 {
		bodyEnd = max(bodyEnd, m.src.lineEnd(lines.At(lines.Len()-1).Start))
	}

	end := bodyEnd
	if next := m.src.nextLine(bodyEnd); next < len(m.src) {
		line := m.src[next:m.src.lineEnd(next)]
		if i, ok := fenceRun(line); ok && line[i] == attrs.FenceChar {
			n := source(line).run(i, attrs.FenceChar)
			if n >= attrs.FenceLength && len(bytes.TrimSpace(line[i+n:])) == 0 {
				end = m.src.lineEnd(next)
			}
		}
	}

	return wrap(mdast.KindCodeBlock, attrs, m.rng(start, end), nil)
}

func (m *mapper) mapIndentedCodeBlock(code *ast.CodeBlock) located {
	lines := code.Lines()
	if lines.Len() == 0 {
		return located{}
	}

	start := m.src.skipBack(lines.At(0).Start, " \t")
	end := m.src.trimEnd(lines.At(lines.Len() - 1).Stop)
	return wrap(mdast.KindCodeBlock, mdast.Attrs{}, m.rng(start, end), nil)
}

func (m *mapper) mapThematicBreak() located {
	start, ok := m.src.scanLines(m.cursor, thematicBreak)
	if !ok {
		return located{}
	}
	return leaf(mdast.KindThematicBreak, mdast.Attrs{}, m.rng(start, m.src.lineEnd(start)))
}

func (m *mapper) mapHTMLBlock(h *ast.HTMLBlock) located {
	lines := h.Lines()

	var r mdast.SourceRange
	switch {
	case lines.Len() > 0:
		start := m.src.skipBack(lines.At(0).Start, " \t")
		end := m.src.trimEnd(lines.At(lines.Len() - 1).Stop)
		if h.HasClosure() {
			end = max(end, m.src.trimEnd(h.ClosureLine.Stop))
		}
		r = m.rng(start, end)
	case h.HasClosure():
		r = m.rng(h.ClosureLine.Start, m.src.trimEnd(h.ClosureLine.Stop))
	default:
		return located{}
	}

	return wrap(mdast.KindHTMLBlock, mdast.Attrs{}, r, nil)
}

func (m *mapper) mapTable(table *east.Table) located {
	inner, r, ok := m.blockChildren(table)
	if !ok {
		return located{events: inner}
	}
	return wrap(mdast.KindTable, mdast.Attrs{}, r, inner)
}

// mapTableRow spans the whole source line of the row's cells.
func (m *mapper) mapTableRow(row ast.Node) located {
	inner, r, ok := m.blockChildren(row)
	if !ok {
		return located{events: inner}
	}

	start := m.src.skipForward(m.src.lineStart(r.StartOffset), " \t>")
	end := m.src.lineEnd(r.StartOffset)
	return wrap(mdast.KindTableRow, mdast.Attrs{}, m.rng(start, end), inner)
}

func (m *mapper) mapTableCell(cell *east.TableCell) located {
	lines := cell.Lines()
	if lines.Len() == 0 {
		return located{}
	}

	r := m.rng(lines.At(0).Start, lines.At(lines.Len()-1).Stop)
	return wrap(mdast.KindTableCell, mdast.Attrs{}, r, m.inlines(cell, r.StartOffset))
}
