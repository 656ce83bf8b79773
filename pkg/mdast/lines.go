package mdast

import (
	"sort"
	"unicode/utf8"
)

// LineIndex translates between byte offsets and 1-based line/column positions.
//
// It records the start offset of every line. The offset just past each '\n' starts a
// new line, including a terminator at the very end of the text, so the offset equal
// to the text length always has a position. A LineIndex is immutable.
type LineIndex struct {
	content []byte
	starts  []int
}

// BuildLineIndex scans content once and records line start offsets.
// Both LF and CRLF endings are handled; the '\r' belongs to the line it ends.
func BuildLineIndex(content []byte) *LineIndex {
	starts := make([]int, 1, 1+len(content)/32)
	starts[0] = 0

	for idx, char := range content {
		if char == '\n' {
			starts = append(starts, idx+1)
		}
	}

	return &LineIndex{content: content, starts: starts}
}

// LineCount returns the number of recorded line starts.
func (ix *LineIndex) LineCount() int {
	return len(ix.starts)
}

// Len returns the length in bytes of the indexed text.
func (ix *LineIndex) Len() int {
	return len(ix.content)
}

// LineStart returns the byte offset at which the 1-based line begins.
func (ix *LineIndex) LineStart(line int) (int, error) {
	if line < 1 || line > len(ix.starts) {
		return 0, &RangeError{What: "line", Value: line, Limit: len(ix.starts)}
	}
	return ix.starts[line-1], nil
}

// lineLimit returns the last offset addressable on the line: the offset of its '\n',
// or the end of text for the final line.
func (ix *LineIndex) lineLimit(line int) int {
	if line < len(ix.starts) {
		return ix.starts[line] - 1
	}
	return len(ix.content)
}

// LineOf returns the 1-based line containing offset.
func (ix *LineIndex) LineOf(offset int) (int, error) {
	if offset < 0 || offset > len(ix.content) {
		return 0, &RangeError{What: "offset", Value: offset, Limit: len(ix.content)}
	}

	// Greatest start <= offset.
	idx := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	})

	return idx, nil
}

// PositionOf converts a byte offset to a line and a column counted in runes.
// Offsets in [0, Len()] are accepted; anything else returns a *RangeError.
func (ix *LineIndex) PositionOf(offset int) (Position, error) {
	line, err := ix.LineOf(offset)
	if err != nil {
		return Position{}, err
	}

	start := ix.starts[line-1]
	column := utf8.RuneCount(ix.content[start:offset]) + 1

	return Position{Line: line, Column: column}, nil
}

// OffsetOf converts a 1-based line/column position back to a byte offset.
// The column may address the line terminator itself (one past the last rune).
func (ix *LineIndex) OffsetOf(pos Position) (int, error) {
	start, err := ix.LineStart(pos.Line)
	if err != nil {
		return 0, err
	}
	if pos.Column < 1 {
		return 0, &RangeError{What: "column", Value: pos.Column, Limit: 1}
	}

	limit := ix.lineLimit(pos.Line)
	offset := start

	for col := 1; col < pos.Column; col++ {
		if offset >= limit {
			return 0, &RangeError{
				What:  "column",
				Value: pos.Column,
				Limit: utf8.RuneCount(ix.content[start:limit]) + 1,
			}
		}
		_, size := utf8.DecodeRune(ix.content[offset:])
		offset += size
	}

	return offset, nil
}
