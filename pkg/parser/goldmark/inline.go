package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// inlines maps the inline children of a leaf block whose content starts at from.
func (m *mapper) inlines(parent ast.Node, from int) []mdast.Event {
	m.ic = from
	events, _, _ := m.inlineChildren(parent)
	return events
}

func (m *mapper) inlineChildren(n ast.Node) ([]mdast.Event, mdast.SourceRange, bool) {
	var (
		events []mdast.Event
		r      mdast.SourceRange
		found  bool
	)
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		loc := m.mapInline(child)
		events = append(events, loc.events...)
		if loc.ok {
			r = union(r, found, loc.r)
			found = true
			m.ic = max(m.ic, loc.r.EndOffset)
		}
	}
	return events, r, found
}

// mapInline converts a single goldmark inline node.
func (m *mapper) mapInline(n ast.Node) located {
	switch node := n.(type) {
	case *ast.Text:
		return m.mapText(node)
	case *ast.CodeSpan:
		return m.mapCodeSpan(node)
	case *ast.Emphasis:
		return m.mapEmphasis(node)
	case *ast.Link:
		return m.mapLink(node, false, mdast.Attrs{
			Destination: string(node.Destination),
			Title:       string(node.Title),
		})
	case *ast.Image:
		return m.mapLink(node, true, mdast.Attrs{
			Destination: string(node.Destination),
			Title:       string(node.Title),
		})
	case *ast.AutoLink:
		return m.mapAutoLink(node)
	case *ast.RawHTML:
		return m.mapRawHTML(node)
	case *east.Strikethrough:
		return m.mapStrikethrough(node)
	case *ast.String, *east.TaskCheckBox:
		// Synthesised nodes have no source text of their own.
		return located{}
	default:
		events, r, ok := m.inlineChildren(n)
		return located{events: events, r: r, ok: ok}
	}
}

// mapText emits the text segment and, for a segment ending a line, the
// line break after it.
func (m *mapper) mapText(t *ast.Text) located {
	r := m.rng(t.Segment.Start, t.Segment.Stop)

	var events []mdast.Event
	if !r.IsEmpty() {
		events = append(events, leaf(mdast.KindText, mdast.Attrs{}, r).events...)
	}

	if t.SoftLineBreak() || t.HardLineBreak() {
		kind := mdast.KindSoftBreak
		if t.HardLineBreak() {
			kind = mdast.KindHardBreak
		}
		brk := m.rng(r.EndOffset, m.src.lineEnd(r.EndOffset))
		events = append(events, leaf(kind, mdast.Attrs{}, brk).events...)
		r.EndOffset = brk.EndOffset
	}

	return located{events: events, r: r, ok: true}
}

// mapCodeSpan extends the content segments over the backtick runs.
func (m *mapper) mapCodeSpan(code *ast.CodeSpan) located {
	var (
		r     mdast.SourceRange
		found bool
	)
	for child := code.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			r = union(r, found, m.rng(t.Segment.Start, t.Segment.Stop))
			found = true
		}
	}
	if !found {
		return located{}
	}

	start := m.src.skipBack(m.src.skipBack(r.StartOffset, " "), "`")
	end := m.src.skipForward(m.src.skipForward(r.EndOffset, " "), "`")
	return leaf(mdast.KindCodeSpan, mdast.Attrs{}, m.rng(start, end))
}

func (m *mapper) mapEmphasis(e *ast.Emphasis) located {
	inner, r, ok := m.inlineChildren(e)
	if !ok {
		return located{events: inner}
	}

	kind := mdast.KindEmphasis
	if e.Level >= 2 {
		kind = mdast.KindStrong
	}

	outer := m.rng(r.StartOffset-e.Level, r.EndOffset+e.Level)
	attrs := mdast.Attrs{Delimiter: m.src[outer.StartOffset]}
	return wrap(kind, attrs, outer, inner)
}

// mapLink spans "[label]" plus an inline "(destination)" or a "[reference]"
// when present. Images include the leading "!".
func (m *mapper) mapLink(n ast.Node, image bool, attrs mdast.Attrs) located {
	from := m.ic
	inner, r, ok := m.inlineChildren(n)

	kind := mdast.KindLink
	if image {
		kind = mdast.KindImage
	}

	var open, closeBracket int
	if ok {
		from = min(from, r.StartOffset)
		open = bytes.LastIndexByte(m.src[from:r.StartOffset], '[')
		if open < 0 {
			return located{events: inner}
		}
		open += from
		closeBracket = bytes.IndexByte(m.src[r.EndOffset:], ']')
		if closeBracket < 0 {
			return located{events: inner}
		}
		closeBracket += r.EndOffset
	} else {
		open = bytes.IndexByte(m.src[from:], '[')
		if open < 0 {
			return located{events: inner}
		}
		open += from
		closeBracket = bytes.IndexByte(m.src[open:], ']')
		if closeBracket < 0 {
			return located{events: inner}
		}
		closeBracket += open
	}

	start := open
	if image && start > 0 && m.src[start-1] == '!' {
		start--
	}

	end := closeBracket + 1
	if end < len(m.src) {
		switch m.src[end] {
		case '(':
			if e, found := m.src.closingParen(end); found {
				end = e
			}
		case '[':
			if j := bytes.IndexByte(m.src[end:], ']'); j >= 0 {
				end += j + 1
			}
		}
	}

	return wrap(kind, attrs, m.rng(start, end), inner)
}

// mapAutoLink covers "<url>" autolinks and, in GFM, bare URLs.
func (m *mapper) mapAutoLink(link *ast.AutoLink) located {
	label := link.Label(m.src)
	i := bytes.Index(m.src[m.ic:], label)
	if len(label) == 0 || i < 0 {
		return located{}
	}

	text := m.rng(m.ic+i, m.ic+i+len(label))
	outer := text
	if outer.StartOffset > 0 && m.src[outer.StartOffset-1] == '<' &&
		outer.EndOffset < len(m.src) && m.src[outer.EndOffset] == '>' {
		outer = m.rng(outer.StartOffset-1, outer.EndOffset+1)
	}

	attrs := mdast.Attrs{Destination: string(link.URL(m.src)), Autolink: true}
	return wrap(mdast.KindLink, attrs, outer, leaf(mdast.KindText, mdast.Attrs{}, text).events)
}

func (m *mapper) mapRawHTML(h *ast.RawHTML) located {
	if h.Segments == nil || h.Segments.Len() == 0 {
		return located{}
	}
	r := m.rng(h.Segments.At(0).Start, h.Segments.At(h.Segments.Len()-1).Stop)
	return leaf(mdast.KindHTMLInline, mdast.Attrs{}, r)
}

func (m *mapper) mapStrikethrough(s *east.Strikethrough) located {
	inner, r, ok := m.inlineChildren(s)
	if !ok {
		return located{events: inner}
	}
	start := m.src.skipBack(r.StartOffset, "~")
	end := m.src.skipForward(r.EndOffset, "~")
	return wrap(mdast.KindStrikethrough, mdast.Attrs{}, m.rng(start, end), inner)
}
