package refs

import (
	"bytes"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// definitionPattern matches a single-line link reference definition.
var definitionPattern = regexp.MustCompile(
	`^ {0,3}\[((?:[^\[\]\\]|\\.)+)\]:[ \t]*(<[^>]*>|\S+)(?:[ \t]+("[^"]*"|'[^']*'|\([^)]*\)))?[ \t]*$`,
)

// referencePattern matches [text], [text][] and [text][label], optionally
// preceded by "!".
var referencePattern = regexp.MustCompile(`!?\[((?:[^\[\]\\]|\\.)*)\](?:\[((?:[^\[\]\\]|\\.)*)\])?`)

// htmlAnchorPattern matches id and name attributes.
var htmlAnchorPattern = regexp.MustCompile(`(?i)\b(id|name)\s*=\s*["']([^"']+)["']`)

// opaque are the constructs whose text never holds references.
//
//nolint:gochecknoglobals // Read-only lookup table.
var opaque = []mdast.Kind{
	mdast.KindCodeBlock, mdast.KindCodeSpan, mdast.KindHTMLBlock, mdast.KindHTMLInline,
}

// Collect builds the Index of doc.
func Collect(doc *mdast.Document) (*Index, error) {
	ix := NewIndex()
	c := &collector{doc: doc, ix: ix}

	steps := []func() error{c.headings, c.htmlAnchors, c.fragments, c.definitions, c.references}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

type collector struct {
	doc *mdast.Document
	ix  *Index

	// definitionLines are blanked before references are scanned.
	definitionLines []int
}

func (c *collector) headings() error {
	events := c.doc.Events()
	for _, h := range lint.Find(events, mdast.KindHeading) {
		line, err := c.doc.LineOf(h.Range.StartOffset)
		if err != nil {
			return err
		}
		c.ix.Anchors.AddHeading(lint.TextContent(c.doc, h.Inner(events)), line)
	}
	return nil
}

func (c *collector) htmlAnchors() error {
	content := c.doc.Content()
	for _, ev := range c.doc.Events() {
		if ev.Phase == mdast.Exit || (ev.Kind != mdast.KindHTMLBlock && ev.Kind != mdast.KindHTMLInline) {
			continue
		}
		html := content[ev.Range.StartOffset:ev.Range.EndOffset]
		for _, m := range htmlAnchorPattern.FindAllSubmatchIndex(html, -1) {
			line, err := c.doc.LineOf(ev.Range.StartOffset + m[0])
			if err != nil {
				return err
			}
			source := AnchorFromHTMLID
			if strings.EqualFold(string(html[m[2]:m[3]]), "name") {
				source = AnchorFromHTMLName
			}
			c.ix.Anchors.Add(&Anchor{ID: string(html[m[4]:m[5]]), Source: source, Line: line})
		}
	}
	return nil
}

func (c *collector) fragments() error {
	content := c.doc.Content()
	for _, link := range lint.Find(c.doc.Events(), mdast.KindLink) {
		dest := link.Attrs.Destination
		if link.Attrs.Autolink || !strings.HasPrefix(dest, "#") {
			continue
		}
		fragment := dest[1:]
		at := -1
		source := content[link.Range.StartOffset:link.Range.EndOffset]
		if i := bytes.LastIndex(source, []byte("](#")); i >= 0 && bytes.HasPrefix(source[i+3:], []byte(fragment)) {
			at = link.Range.StartOffset + i + 2
		}
		c.ix.Fragments = append(c.ix.Fragments, FragmentLink{
			Fragment:       fragment,
			Offset:         link.Range.StartOffset,
			FragmentOffset: at,
		})
	}
	return nil
}

// skipLines returns the lines that cannot hold a reference definition.
func (c *collector) skipLines() (map[int]bool, error) {
	skip, err := lint.FrontMatterLines(c.doc)
	if err != nil {
		return nil, err
	}
	blocks, err := lint.LinesOf(c.doc,
		mdast.KindParagraph, mdast.KindHeading, mdast.KindCodeBlock, mdast.KindHTMLBlock, mdast.KindTable)
	if err != nil {
		return nil, err
	}
	for n := range blocks {
		skip[n] = true
	}
	return skip, nil
}

func (c *collector) definitions() error {
	skip, err := c.skipLines()
	if err != nil {
		return err
	}

	for n, text := range c.doc.Lines() {
		if skip[n] {
			continue
		}
		m := definitionPattern.FindStringSubmatch(text)
		if m == nil || strings.HasPrefix(m[1], "^") {
			continue
		}

		def := &Definition{
			Label:       m[1],
			Normalized:  NormalizeLabel(m[1]),
			Destination: strings.Trim(m[2], "<>"),
			Line:        n,
		}
		if len(m[3]) >= 2 {
			def.Title = m[3][1 : len(m[3])-1]
		}
		if _, ok := c.ix.Definitions[def.Normalized]; ok {
			def.Duplicate = true
		} else {
			c.ix.Definitions[def.Normalized] = def
		}
		c.ix.AllDefinitions = append(c.ix.AllDefinitions, def)
		c.definitionLines = append(c.definitionLines, n)
	}
	return nil
}

// masked returns the content with opaque constructs, the front matter and
// definition lines blanked. Offsets are unchanged.
func (c *collector) masked() []byte {
	out := slices.Clone(c.doc.Content())
	blank := func(start, end int) {
		for i := start; i < end && i < len(out); i++ {
			if out[i] != '\n' && out[i] != '\r' {
				out[i] = ' '
			}
		}
	}

	if fm, ok := c.doc.FrontMatter(); ok {
		blank(fm.StartOffset, fm.EndOffset)
	}
	for _, ev := range c.doc.Events() {
		if ev.Phase != mdast.Exit && slices.Contains(opaque, ev.Kind) {
			blank(ev.Range.StartOffset, ev.Range.EndOffset)
		}
	}
	for _, n := range c.definitionLines {
		blank(c.doc.LineBounds(n))
	}
	return out
}

func (c *collector) references() error {
	text := c.masked()

	for _, m := range referencePattern.FindAllSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		bracket := start
		if text[start] == '!' {
			bracket++
		}
		if bracket > 0 && text[bracket-1] == '\\' {
			continue
		}

		ref := &Reference{Image: bracket > start, Offset: start}
		labelStart, labelEnd := m[2], m[3]
		switch {
		case m[4] < 0:
			if end < len(text) && (text[end] == '(' || text[end] == ':') {
				continue
			}
			ref.Style = StyleShortcut
		case m[4] == m[5]:
			ref.Style = StyleCollapsed
		default:
			ref.Style = StyleFull
			labelStart, labelEnd = m[4], m[5]
		}

		ref.Label = string(text[labelStart:labelEnd])
		ref.Normalized = NormalizeLabel(ref.Label)
		if ref.Normalized == "" || strings.HasPrefix(ref.Normalized, "^") {
			continue
		}
		if def, ok := c.ix.Definitions[ref.Normalized]; ok {
			ref.Definition = def
			def.Uses++
		}
		c.ix.References = append(c.ix.References, ref)
	}
	return nil
}
