package lint

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/inline"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// FileResult contains the results of linting a single document.
type FileResult struct {
	// Document is the parsed document.
	Document *mdast.Document

	// Violations are sorted by line, column, rule ID and message.
	Violations []Violation

	// Warnings are non-fatal configuration and directive problems.
	Warnings []Warning
}

// HasIssues returns true if any violations were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Violations) > 0
}

// FixableCount returns the number of violations with fixes.
func (fr *FileResult) FixableCount() int {
	count := 0
	for _, v := range fr.Violations {
		if v.HasFix() {
			count++
		}
	}
	return count
}

// Engine coordinates parsing and rule execution for linting.
// An Engine holds no per-document state and is safe for concurrent use.
type Engine struct {
	// Parser parses Markdown into Documents.
	Parser Parser

	// Registry holds all available rules.
	Registry *Registry
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// LintFile parses and lints a single file.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	doc, err := e.Parser.Parse(ctx, path, content, ParseOptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	return e.LintDocument(ctx, doc, cfg)
}

// LintDocument evaluates the rules cfg enables against doc.
//
// Rules run concurrently; the result does not depend on scheduling. Unless
// cfg disables inline configuration, directives in doc then suppress
// violations and reconfigured ranges are re-evaluated with their settings.
//
// A rule failing for any reason other than ErrInvalidSettings is a bug in
// the rule or parser and fails the call.
func (e *Engine) LintDocument(ctx context.Context, doc *mdast.Document, cfg *config.Config) (*FileResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	result := &FileResult{Document: doc}
	selected := Select(e.Registry, cfg)

	violations, warnings, err := e.run(ctx, doc, selected)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)

	if cfg.InlineConfigEnabled() {
		violations, warnings, err = e.applyDirectives(ctx, doc, cfg, selected, violations)
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, warnings...)
	}

	SortViolations(violations)
	result.Violations = violations

	return result, nil
}

// run evaluates rules concurrently and concatenates their violations in
// rule order.
func (e *Engine) run(ctx context.Context, doc *mdast.Document, rules []Selected) ([]Violation, []Warning, error) {
	type outcome struct {
		violations []Violation
		warning    *Warning
	}

	outcomes := make([]outcome, len(rules))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, sel := range rules {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return fmt.Errorf("linting cancelled: %w", err)
			}

			violations, err := sel.Rule.Check(doc, sel.Settings)
			if errors.Is(err, ErrInvalidSettings) {
				outcomes[i].warning = &Warning{
					Source:  doc.Path(),
					Message: fmt.Sprintf("%s: %v; using defaults", sel.Rule.ID(), err),
				}
				violations, err = sel.Rule.Check(doc, config.Enabled(true))
			}
			if err != nil {
				return fmt.Errorf("rule %s: %w", sel.Rule.ID(), err)
			}

			outcomes[i].violations = violations
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		violations []Violation
		warnings   []Warning
	)
	for _, o := range outcomes {
		violations = append(violations, o.violations...)
		if o.warning != nil {
			warnings = append(warnings, *o.warning)
		}
	}

	return violations, warnings, nil
}

// applyDirectives re-evaluates reconfigured ranges, then drops suppressed violations.
func (e *Engine) applyDirectives(
	ctx context.Context,
	doc *mdast.Document,
	cfg *config.Config,
	base []Selected,
	violations []Violation,
) ([]Violation, []Warning, error) {
	directives, problems := inline.Scan(doc)
	if len(directives) == 0 && len(problems) == 0 {
		return violations, nil, nil
	}

	state, more := inline.Build(directives, doc.LineCount(), e.Registry)

	var warnings []Warning
	for _, p := range append(problems, more...) {
		warnings = append(warnings, Warning{Source: doc.Path(), Line: p.Line, Message: p.Message})
	}

	for _, scope := range state.Scopes() {
		scoped, scopeWarnings, err := e.reconfigure(ctx, doc, cfg, base, scope, violations)
		if err != nil {
			return nil, nil, err
		}
		violations = scoped
		warnings = append(warnings, scopeWarnings...)
	}

	return ApplyDirectives(violations, state), warnings, nil
}

// reconfigure replaces, inside scope, the violations of every rule whose
// selection the scope's settings change.
func (e *Engine) reconfigure(
	ctx context.Context,
	doc *mdast.Document,
	cfg *config.Config,
	base []Selected,
	scope inline.Scope,
	violations []Violation,
) ([]Violation, []Warning, error) {
	fragment := scope.Settings.Clone()
	rules, warnings := Normalize(e.Registry, fragment.Rules, doc.Path())
	fragment.Rules = rules

	scopedCfg := config.Merge(cfg, fragment)
	scoped := Select(e.Registry, scopedCfg)

	before := make(map[string]Selected, len(base))
	for _, sel := range base {
		before[sel.Rule.ID()] = sel
	}
	after := make(map[string]Selected, len(scoped))
	for _, sel := range scoped {
		after[sel.Rule.ID()] = sel
	}

	affected := make(map[string]bool)
	var rerun []Selected
	for _, rule := range e.Registry.Rules() {
		id := rule.ID()
		old, wasOn := before[id]
		now, isOn := after[id]
		if wasOn == isOn && (!isOn || reflect.DeepEqual(old.Settings, now.Settings)) {
			continue
		}
		affected[id] = true
		if isOn {
			rerun = append(rerun, now)
		}
	}

	if len(affected) == 0 {
		return violations, warnings, nil
	}

	kept := slices.DeleteFunc(slices.Clone(violations), func(v Violation) bool {
		return affected[v.RuleID] && scope.Contains(v.Line)
	})

	replacements, runWarnings, err := e.run(ctx, doc, rerun)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, runWarnings...)

	for _, v := range replacements {
		if scope.Contains(v.Line) {
			kept = append(kept, v)
		}
	}

	return kept, warnings, nil
}

// ApplyDirectives returns the violations not suppressed by state.
func ApplyDirectives(violations []Violation, state *inline.State) []Violation {
	return slices.DeleteFunc(slices.Clone(violations), func(v Violation) bool {
		return state.Suppressed(v.RuleID, v.Line)
	})
}

// SortViolations orders violations by line, column, rule ID and message.
func SortViolations(violations []Violation) {
	slices.SortStableFunc(violations, func(a, b Violation) int {
		return cmp.Or(
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.RuleID, b.RuleID),
			cmp.Compare(a.Message, b.Message),
		)
	})
}
