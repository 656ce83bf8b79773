package lint

import (
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// Report accumulates the violations of one Check call.
//
// Position lookups that fail are recorded and returned by Result; once an
// error is recorded further violations are ignored.
type Report struct {
	rule       Rule
	doc        *mdast.Document
	violations []Violation
	err        error
}

// NewReport starts a report for rule over doc.
func NewReport(rule Rule, doc *mdast.Document) *Report {
	return &Report{rule: rule, doc: doc}
}

// At records a violation at line and column.
func (r *Report) At(line, column int, message string) {
	r.add(line, column, message, nil)
}

// AtWithFix records a fixable violation at line and column.
func (r *Report) AtWithFix(line, column int, message string, f fix.Fix) {
	r.add(line, column, message, &f)
}

// AtOffset records a violation at a byte offset.
func (r *Report) AtOffset(offset int, message string) {
	if pos, ok := r.Position(offset); ok {
		r.add(pos.Line, pos.Column, message, nil)
	}
}

// AtOffsetWithFix records a fixable violation at a byte offset.
func (r *Report) AtOffsetWithFix(offset int, message string, f fix.Fix) {
	if pos, ok := r.Position(offset); ok {
		r.add(pos.Line, pos.Column, message, &f)
	}
}

// Position converts offset to a position, recording the error on failure.
func (r *Report) Position(offset int) (mdast.Position, bool) {
	if r.err != nil {
		return mdast.Position{}, false
	}
	pos, err := r.doc.PositionOf(offset)
	if err != nil {
		r.err = err
		return mdast.Position{}, false
	}
	return pos, true
}

// Line returns the line containing offset, recording the error on failure.
func (r *Report) Line(offset int) int {
	pos, ok := r.Position(offset)
	if !ok {
		return 0
	}
	return pos.Line
}

// Fail records err unless an error is already recorded.
func (r *Report) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Result returns the recorded violations, or the first recorded error.
func (r *Report) Result() ([]Violation, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.violations, nil
}

func (r *Report) add(line, column int, message string, f *fix.Fix) {
	if r.err != nil {
		return
	}
	if !r.rule.CanFix() {
		f = nil
	}
	r.violations = append(r.violations, Violation{
		RuleID:   r.rule.ID(),
		RuleName: r.rule.Name(),
		Line:     line,
		Column:   column,
		Message:  message,
		Fix:      f,
	})
}
