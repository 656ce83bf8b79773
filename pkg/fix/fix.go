// Package fix applies text-replacing fixes to a document.
//
// Fixes address the original, unmodified text by line and column. Apply
// resolves them to byte offsets once and replaces back to front, so no
// replacement shifts the offsets of a fix not yet applied.
package fix

import (
	"errors"
	"fmt"

	"github.com/yaklabco/mdcheck/pkg/mdast"
)

var (
	// ErrConflict marks a fix dropped because it overlaps a kept fix.
	ErrConflict = errors.New("overlapping fixes")

	// ErrInvalidFix is returned when a fix does not address the text it is
	// applied to. It signals a rule bug, not a document problem.
	ErrInvalidFix = errors.New("invalid fix")
)

// Fix replaces the text between Start (inclusive) and End (exclusive).
// Start == End inserts Replacement at Start.
type Fix struct {
	Start       mdast.Position
	End         mdast.Position
	Replacement string
	Description string
}

// IsInsertion reports whether the fix removes nothing.
func (f Fix) IsInsertion() bool {
	return f.Start == f.End
}

// String returns a short description of the fix range.
func (f Fix) String() string {
	return fmt.Sprintf("%s-%s %q", f.Start, f.End, f.Replacement)
}

// Replace returns a fix replacing the range with text.
func Replace(start, end mdast.Position, text, description string) Fix {
	return Fix{Start: start, End: end, Replacement: text, Description: description}
}

// Insert returns a fix inserting text at pos.
func Insert(pos mdast.Position, text, description string) Fix {
	return Fix{Start: pos, End: pos, Replacement: text, Description: description}
}

// Delete returns a fix removing the range.
func Delete(start, end mdast.Position, description string) Fix {
	return Fix{Start: start, End: end, Description: description}
}

// ConflictError reports a fix dropped in favour of one that overlaps it.
type ConflictError struct {
	Kept    Fix
	Dropped Fix
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("dropped fix %s: overlaps %s", e.Dropped, e.Kept)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
