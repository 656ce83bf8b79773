// Package rules provides the built-in lint rules.
//
// Every rule follows markdownlint's identifier, name and settings, and
// works on the event stream of a [mdast.Document]: constructs are found
// with [lint.Find], line-oriented rules walk [mdast.Document.Lines] and skip
// the lines of code blocks and front matter as markdownlint does.
//
// # Rule Domains
//
//   - Headings: MD001, MD003, MD018-MD026, MD041, MD043
//   - Whitespace: MD009, MD010, MD012, MD047
//   - Lists: MD004-MD007, MD029, MD030, MD032
//   - Line length: MD013
//   - Blockquotes: MD027, MD028
//   - Links and images: MD011, MD034, MD039, MD042, MD045, MD054, MD059
//   - References and fragments: MD051, MD052, MD053
//   - HTML and horizontal rules: MD033, MD035
//   - Emphasis: MD036, MD037, MD049, MD050
//   - Code: MD014, MD031, MD038, MD040, MD046, MD048
//   - Tables (GFM only): MD055, MD056, MD058, MD060
//   - Spelling: MD044
//
// MD006 is off unless configured, as in markdownlint.
//
// # Fixes
//
// Fixable rules attach one fix per violation. When fixes overlap the fix
// engine keeps the earlier one and a later pass retries the rest.
package rules

import "github.com/yaklabco/mdcheck/pkg/lint"

// Compile-time interface checks.
var (
	_ lint.Rule = (*HeadingIncrementRule)(nil)
	_ lint.Rule = (*TrailingWhitespaceRule)(nil)
	_ lint.Rule = (*UnorderedListStyleRule)(nil)
	_ lint.Rule = (*MaxLineLengthRule)(nil)
	_ lint.Rule = (*NoBareURLsRule)(nil)
	_ lint.Rule = (*FencedCodeLanguageRule)(nil)
	_ lint.Rule = (*NoMultipleSpaceBlockquoteRule)(nil)
	_ lint.Rule = (*HRStyleRule)(nil)
	_ lint.Rule = (*NoInlineHTMLRule)(nil)
	_ lint.Rule = (*ULStartLeftRule)(nil)
	_ lint.Rule = (*TablePipeStyleRule)(nil)
	_ lint.Rule = (*ProperNamesRule)(nil)
)
