package mdast

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an offset or line/column pair lies outside the text.
// Callers receive a *RangeError that wraps it.
var ErrOutOfRange = errors.New("position out of range")

// ErrLineNotFound is returned by Document.Line for a line number past the last line.
var ErrLineNotFound = errors.New("line not found")

// RangeError describes a rejected position lookup.
type RangeError struct {
	// What names the rejected value ("offset", "line", "column").
	What string

	// Value is the rejected value.
	Value int

	// Limit is the largest accepted value at the time of the lookup.
	Limit int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [0, %d]", e.What, e.Value, e.Limit)
}

// Unwrap lets errors.Is match ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Position represents a 1-based line and column in a file.
// Columns count Unicode scalar values, not bytes.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Compare orders positions by line, then column.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
