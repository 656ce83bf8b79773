// Package mdast provides the read-only document model shared by every rule:
// the raw text, the parser's event stream, the front matter range, and a
// LineIndex for offset/position translation.
package mdast

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
)

// Document is an immutable view of one Markdown file for a single lint pass.
// It performs no interpretation of event semantics.
//
// A Document is built once per file per pass. After fixes are applied the
// corrected text needs a new Document.
type Document struct {
	path        string
	content     []byte
	events      []Event
	frontMatter SourceRange
	hasFM       bool
	index       *LineIndex
	lineCount   int
}

// NewDocument wraps content and its event stream. frontMatter may be nil.
// The content and events are copied, so later changes by the caller are not seen.
func NewDocument(path string, content []byte, events []Event, frontMatter *SourceRange) *Document {
	owned := bytes.Clone(content)
	if owned == nil {
		owned = []byte{}
	}

	doc := &Document{
		path:    path,
		content: owned,
		events:  slices.Clone(events),
		index:   BuildLineIndex(owned),
	}

	if frontMatter != nil {
		doc.frontMatter = *frontMatter
		doc.hasFM = true
	}

	doc.lineCount = doc.index.LineCount()
	if len(owned) == 0 {
		doc.lineCount = 0
	} else if owned[len(owned)-1] == '\n' {
		// A final terminator ends the last line; it does not start a content line.
		doc.lineCount--
	}

	return doc
}

// Path returns the logical path of the document, used only for messages.
func (d *Document) Path() string {
	return d.path
}

// Content returns the raw text. Callers must not modify it.
func (d *Document) Content() []byte {
	return d.content
}

// Index returns the document's LineIndex.
func (d *Document) Index() *LineIndex {
	return d.index
}

// Events returns a copy of the event stream in document order.
func (d *Document) Events() []Event {
	return slices.Clone(d.events)
}

// FrontMatter returns the front matter byte range, if the document has one.
func (d *Document) FrontMatter() (SourceRange, bool) {
	return d.frontMatter, d.hasFM
}

// IsInFrontMatter reports whether offset falls inside the front matter block.
func (d *Document) IsInFrontMatter(offset int) bool {
	return d.hasFM && d.frontMatter.Contains(offset)
}

// LineCount returns the number of content lines. A trailing line terminator
// does not open an extra empty line; an empty document has no lines.
func (d *Document) LineCount() int {
	return d.lineCount
}

// Line returns the text of the 1-based line without its terminator.
func (d *Document) Line(n int) (string, error) {
	if n < 1 || n > d.lineCount {
		return "", fmt.Errorf("line %d of %d: %w", n, d.lineCount, ErrLineNotFound)
	}
	start, end := d.LineBounds(n)
	return string(d.content[start:end]), nil
}

// LineBounds returns the byte range of line n without its terminator.
// n must be a valid line number.
func (d *Document) LineBounds(n int) (int, int) {
	start := d.index.starts[n-1]
	end := len(d.content)
	if n < len(d.index.starts) {
		end = d.index.starts[n] - 1
		if end > start && d.content[end-1] == '\r' {
			end--
		}
	}
	return start, end
}

// LineEndOffset returns the offset just past line n's terminator (or the end of text).
func (d *Document) LineEndOffset(n int) int {
	if n < len(d.index.starts) {
		return d.index.starts[n]
	}
	return len(d.content)
}

// Lines returns a restartable iterator over (line number, text) pairs in
// ascending order.
func (d *Document) Lines() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for n := 1; n <= d.lineCount; n++ {
			start, end := d.LineBounds(n)
			if !yield(n, string(d.content[start:end])) {
				return
			}
		}
	}
}

// LineEnding returns the terminator used by the first line break of the
// document, "\n" when there is none.
func (d *Document) LineEnding() string {
	idx := bytes.IndexByte(d.content, '\n')
	if idx > 0 && d.content[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// PositionOf converts a byte offset to a line/column position.
func (d *Document) PositionOf(offset int) (Position, error) {
	return d.index.PositionOf(offset)
}

// LineOf returns the 1-based line containing offset.
func (d *Document) LineOf(offset int) (int, error) {
	return d.index.LineOf(offset)
}

// OffsetOf converts a line/column position to a byte offset.
func (d *Document) OffsetOf(pos Position) (int, error) {
	return d.index.OffsetOf(pos)
}
