package rules

import (
	"fmt"

	"github.com/yaklabco/mdcheck/pkg/lint"
)

// legacyAliases maps older markdownlint rule names to rule IDs.
//
//nolint:gochecknoglobals // Read-only lookup table.
var legacyAliases = map[string]string{
	"header-increment":      "MD001",
	"header-style":          "MD003",
	"blanks-around-headers": "MD022",
	"header-start-left":     "MD023",
	"no-duplicate-header":   "MD024",
	"single-title":          "MD025",
	"no-emphasis-as-header": "MD036",
	"first-line-h1":         "MD041",
}

// All returns a fresh instance of every built-in rule.
func All() []lint.Rule {
	return []lint.Rule{
		// Headings
		NewHeadingIncrementRule(),         // MD001
		NewHeadingStyleRule(),             // MD003
		NewNoMissingSpaceATXRule(),        // MD018
		NewNoMultipleSpaceATXRule(),       // MD019
		NewNoMissingSpaceClosedATXRule(),  // MD020
		NewNoMultipleSpaceClosedATXRule(), // MD021
		NewHeadingBlankLinesRule(),        // MD022
		NewHeadingStartLeftRule(),         // MD023
		NewNoDuplicateHeadingRule(),       // MD024
		NewSingleH1Rule(),                 // MD025
		NewNoTrailingPunctuationRule(),    // MD026
		NewFirstLineHeadingRule(),         // MD041
		NewRequiredHeadingsRule(),         // MD043

		// Whitespace
		NewTrailingWhitespaceRule(), // MD009
		NewHardTabsRule(),           // MD010
		NewMultipleBlankLinesRule(), // MD012
		NewFinalNewlineRule(),       // MD047

		// Lists
		NewUnorderedListStyleRule(), // MD004
		NewListIndentRule(),         // MD005
		NewULStartLeftRule(),        // MD006
		NewULIndentRule(),           // MD007
		NewOrderedListPrefixRule(),  // MD029
		NewListMarkerSpaceRule(),    // MD030
		NewBlanksAroundListsRule(),  // MD032

		// Line length
		NewMaxLineLengthRule(), // MD013

		// Blockquotes
		NewNoMultipleSpaceBlockquoteRule(), // MD027
		NewNoBlanksBlockquoteRule(),        // MD028

		// Links and images
		NewReversedLinkRule(),        // MD011
		NewNoBareURLsRule(),          // MD034
		NewLinkSpacesRule(),          // MD039
		NewEmptyLinkRule(),           // MD042
		NewImageAltTextRule(),        // MD045
		NewLinkImageStyleRule(),      // MD054
		NewDescriptiveLinkTextRule(), // MD059

		// References and fragments
		NewLinkFragmentsRule(),        // MD051
		NewReferenceLinksRule(),       // MD052
		NewReferenceDefinitionsRule(), // MD053

		// HTML and horizontal rules
		NewNoInlineHTMLRule(), // MD033
		NewHRStyleRule(),      // MD035

		// Emphasis
		NewNoEmphasisAsHeadingRule(), // MD036
		NewNoSpaceInEmphasisRule(),   // MD037
		NewEmphasisStyleRule(),       // MD049
		NewStrongStyleRule(),         // MD050

		// Code
		NewCommandsShowOutputRule(),  // MD014
		NewBlanksAroundFencesRule(),  // MD031
		NewNoSpaceInCodeRule(),       // MD038
		NewFencedCodeLanguageRule(),  // MD040
		NewCodeBlockStyleRule(),      // MD046
		NewCodeFenceStyleRule(),      // MD048

		// Tables
		NewTablePipeStyleRule(),     // MD055
		NewTableColumnCountRule(),   // MD056
		NewBlanksAroundTablesRule(), // MD058
		NewTableColumnStyleRule(),   // MD060

		// Spelling
		NewProperNamesRule(), // MD044
	}
}

// RegisterAll registers all built-in rules and their legacy aliases with
// the given registry.
func RegisterAll(registry *lint.Registry) {
	for _, rule := range All() {
		registry.Register(rule)
	}
	for alias, id := range legacyAliases {
		if err := registry.RegisterAlias(alias, id); err != nil {
			panic(fmt.Sprintf("rules: %v", err))
		}
	}
}

// DefaultRegistry returns a new registry holding every built-in rule.
// Each call builds an independent registry.
func DefaultRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	RegisterAll(registry)
	return registry
}
