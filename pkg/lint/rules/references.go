package rules

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/refs"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// LinkFragmentsRule checks that same-document fragment links point at a
// heading or an HTML anchor.
type LinkFragmentsRule struct {
	lint.BaseRule
}

// NewLinkFragmentsRule creates a new link-fragments rule.
func NewLinkFragmentsRule() *LinkFragmentsRule {
	return &LinkFragmentsRule{
		BaseRule: lint.NewBaseRule(
			"MD051",
			"link-fragments",
			"Link fragments should be valid",
			[]string{"links"},
			true,
		),
	}
}

type linkFragmentsOptions struct {
	IgnoreCase     bool   `mapstructure:"ignore_case"`
	IgnoredPattern string `mapstructure:"ignored_pattern"`
}

// Check reports fragments with no matching anchor. A fragment that only
// differs in case is fixed to the anchor's spelling unless ignore_case
// accepts it as is.
func (r *LinkFragmentsRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, linkFragmentsOptions{})
	if err != nil {
		return nil, err
	}
	var ignored *regexp.Regexp
	if opts.IgnoredPattern != "" {
		ignored, err = regexp.Compile(opts.IgnoredPattern)
		if err != nil {
			return nil, fmt.Errorf("%w: ignored_pattern: %w", lint.ErrInvalidSettings, err)
		}
	}

	ix, err := refs.Collect(doc)
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	for _, link := range ix.Fragments {
		if ix.ValidFragment(link.Fragment) || (ignored != nil && ignored.MatchString(link.Fragment)) {
			continue
		}

		canonical, ok := ix.Anchors.Canonical(link.Fragment)
		switch {
		case ok && opts.IgnoreCase:
			continue
		case ok && link.FragmentOffset >= 0:
			from, okFrom := report.Position(link.FragmentOffset + 1)
			to, okTo := report.Position(link.FragmentOffset + 1 + len(link.Fragment))
			if okFrom && okTo {
				report.AtOffsetWithFix(link.Offset,
					fmt.Sprintf("Link fragment should match the anchor's case: #%s (expected #%s)", link.Fragment, canonical),
					fix.Replace(from, to, canonical, "Match the anchor's case"))
				continue
			}
		}
		report.AtOffset(link.Offset, fmt.Sprintf("Link fragment is not valid: #%s", link.Fragment))
	}

	return report.Result()
}

// ReferenceLinksRule checks that reference-style links and images use a
// defined label.
type ReferenceLinksRule struct {
	lint.BaseRule
}

// NewReferenceLinksRule creates a new reference-links-images rule.
func NewReferenceLinksRule() *ReferenceLinksRule {
	return &ReferenceLinksRule{
		BaseRule: lint.NewBaseRule(
			"MD052",
			"reference-links-images",
			"Reference links and images should use a label that is defined",
			[]string{"links", "images"},
			false,
		),
	}
}

type referenceLinksOptions struct {
	ShortcutSyntax bool     `mapstructure:"shortcut_syntax"`
	IgnoredLabels  []string `mapstructure:"ignored_labels"`
}

// Check reports full and collapsed references with no definition, and
// shortcut references too when shortcut_syntax is set.
func (r *ReferenceLinksRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, referenceLinksOptions{IgnoredLabels: []string{"x"}})
	if err != nil {
		return nil, err
	}
	ignored := make([]string, 0, len(opts.IgnoredLabels))
	for _, label := range opts.IgnoredLabels {
		ignored = append(ignored, refs.NormalizeLabel(label))
	}

	ix, err := refs.Collect(doc)
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	for _, ref := range ix.Unresolved() {
		if ref.Style == refs.StyleShortcut && !opts.ShortcutSyntax {
			continue
		}
		if slices.Contains(ignored, ref.Normalized) {
			continue
		}
		report.AtOffset(ref.Offset, fmt.Sprintf("Missing link or image reference definition: %q", ref.Label))
	}

	return report.Result()
}

// ReferenceDefinitionsRule checks for reference definitions that are never
// used or repeat an earlier label.
type ReferenceDefinitionsRule struct {
	lint.BaseRule
}

// NewReferenceDefinitionsRule creates a new link-image-reference-definitions rule.
func NewReferenceDefinitionsRule() *ReferenceDefinitionsRule {
	return &ReferenceDefinitionsRule{
		BaseRule: lint.NewBaseRule(
			"MD053",
			"link-image-reference-definitions",
			"Link and image reference definitions should be needed",
			[]string{"links", "images"},
			true,
		),
	}
}

type referenceDefinitionsOptions struct {
	IgnoredDefinitions []string `mapstructure:"ignored_definitions"`
}

// Check reports unused and duplicate definitions. The fix deletes the
// definition line.
func (r *ReferenceDefinitionsRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts, err := decode(settings, referenceDefinitionsOptions{IgnoredDefinitions: []string{"//"}})
	if err != nil {
		return nil, err
	}

	ix, err := refs.Collect(doc)
	if err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	for _, def := range ix.AllDefinitions {
		if slices.ContainsFunc(opts.IgnoredDefinitions, func(label string) bool {
			return refs.NormalizeLabel(label) == def.Normalized
		}) {
			continue
		}

		var message string
		switch {
		case def.Duplicate:
			message = fmt.Sprintf("Duplicate link or image reference definition: %q", def.Label)
		case def.Uses == 0:
			message = fmt.Sprintf("Unused link or image reference definition: %q", def.Label)
		default:
			continue
		}
		column := lint.Indent(lineText(doc, report, def.Line)) + 1
		report.AtWithFix(def.Line, column, message,
			deleteLines(doc, report, def.Line, def.Line, "Remove reference definition"))
	}

	return report.Result()
}
