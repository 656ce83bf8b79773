// Package lint provides the rule contract, the registry, and the engine that
// evaluates rules against a document.
package lint

import (
	"errors"
	"fmt"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// ErrInvalidSettings is returned by a rule whose settings object it cannot
// interpret. The engine reports it as a warning and re-runs the rule with
// default settings.
var ErrInvalidSettings = errors.New("invalid rule settings")

// Violation is a single reported rule failure.
type Violation struct {
	// RuleID is the identifier of the rule that produced this violation.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "no-trailing-spaces").
	RuleName string

	// Line is the 1-based line of the violation.
	Line int

	// Column is the 1-based column of the violation.
	Column int

	// Message is the human-readable description of the issue.
	Message string

	// Fix resolves the violation. nil when the rule cannot fix it.
	Fix *fix.Fix
}

// HasFix returns true if this violation carries a fix.
func (v Violation) HasFix() bool {
	return v.Fix != nil
}

// Position returns the violation location.
func (v Violation) Position() mdast.Position {
	return mdast.Position{Line: v.Line, Column: v.Column}
}

// Rule defines the interface that all lint rules must implement.
type Rule interface {
	// ID returns the stable identifier for this rule (e.g., "MD001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a short description of what the rule checks.
	Description() string

	// Tags returns categorization tags used for group enable/disable.
	Tags() []string

	// DefaultEnabled returns whether the rule runs when no setting names it
	// and the configuration's default flag is on.
	DefaultEnabled() bool

	// CanFix returns whether this rule can produce fixes.
	CanFix() bool

	// Check evaluates the rule against doc.
	//
	// Check must be a pure function of its inputs: state lives in locals
	// created per call, never on the rule value, so a rule may be invoked
	// concurrently and repeatedly with identical results. Violations are
	// returned in document order.
	//
	// settings is the rule's own slice of the configuration; a settings
	// object the rule cannot decode yields an error wrapping
	// ErrInvalidSettings.
	Check(doc *mdast.Document, settings config.RuleConfig) ([]Violation, error)
}

// DecodeSettings decodes settings into target, which the caller pre-fills
// with defaults.
func DecodeSettings(settings config.RuleConfig, target any) error {
	if err := settings.Decode(target); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// CollectFixes returns the fixes embedded in violations, in violation order.
func CollectFixes(violations []Violation) []fix.Fix {
	var fixes []fix.Fix
	for _, v := range violations {
		if v.Fix != nil {
			fixes = append(fixes, *v.Fix)
		}
	}
	return fixes
}
