package fix

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/multierr"

	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// Result is the outcome of Apply.
type Result struct {
	// Text is the corrected text.
	Text []byte

	// Applied holds the fixes written into Text, in application order.
	Applied []Fix

	// Conflicts holds one entry per dropped fix.
	Conflicts []*ConflictError
}

// Changed reports whether any fix was applied.
func (r *Result) Changed() bool {
	return len(r.Applied) > 0
}

// Err combines the conflicts into one error, or nil.
func (r *Result) Err() error {
	var err error
	for _, c := range r.Conflicts {
		err = multierr.Append(err, c)
	}
	return err
}

// resolved is a fix with its byte offsets in the original text.
type resolved struct {
	fix   Fix
	start int
	end   int
	order int
}

func (r resolved) overlaps(other resolved) bool {
	if r.start == r.end && other.start == other.end {
		return r.start == other.start
	}
	return r.start < other.end && other.start < r.end
}

// Apply applies fixes to text and returns the corrected text.
//
// Fixes are sorted by start position descending, ties going to the larger
// end. Walking that order, a fix overlapping one already kept is dropped and
// reported in Result.Conflicts; two insertions at the same position overlap.
// Bytes outside the replaced ranges are copied verbatim.
//
// A fix whose positions fall outside text, or whose end precedes its start,
// fails the whole call with ErrInvalidFix.
func Apply(text []byte, fixes []Fix) (*Result, error) {
	result := &Result{Text: slices.Clone(text)}
	if len(fixes) == 0 {
		return result, nil
	}

	index := mdast.BuildLineIndex(text)
	items := make([]resolved, 0, len(fixes))

	for i, f := range fixes {
		start, err := index.OffsetOf(f.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: start %s: %w", ErrInvalidFix, f.Start, err)
		}
		end, err := index.OffsetOf(f.End)
		if err != nil {
			return nil, fmt.Errorf("%w: end %s: %w", ErrInvalidFix, f.End, err)
		}
		if end < start {
			return nil, fmt.Errorf("%w: end %s precedes start %s", ErrInvalidFix, f.End, f.Start)
		}
		items = append(items, resolved{fix: f, start: start, end: end, order: i})
	}

	slices.SortStableFunc(items, func(a, b resolved) int {
		return cmp.Or(
			cmp.Compare(b.start, a.start),
			cmp.Compare(b.end, a.end),
			cmp.Compare(a.order, b.order),
		)
	})

	kept := make([]resolved, 0, len(items))
	for _, item := range items {
		if winner, ok := findOverlap(kept, item); ok {
			result.Conflicts = append(result.Conflicts, &ConflictError{Kept: winner.fix, Dropped: item.fix})
			continue
		}
		kept = append(kept, item)
	}

	out := result.Text
	for _, item := range kept {
		out = slices.Replace(out, item.start, item.end, []byte(item.fix.Replacement)...)
		result.Applied = append(result.Applied, item.fix)
	}
	result.Text = out

	return result, nil
}

func findOverlap(kept []resolved, item resolved) (resolved, bool) {
	for _, k := range kept {
		if k.overlaps(item) {
			return k, true
		}
	}
	return resolved{}, false
}
