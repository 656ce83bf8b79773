package rules_test

import (
	"testing"

	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

func TestHeadingIncrementRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewHeadingIncrementRule() }, []ruleCase{
		{name: "increments by one", input: "# A\n\n## B\n\n### C\n"},
		{name: "jump", input: "# A\n\n### C\n", want: []at{{3, 1}}, message: "from H1 to H3"},
		{name: "going back up", input: "# A\n\n## B\n\n# C\n\n## D\n"},
		{name: "first heading deep", input: "### A\n\n#### B\n"},
		{name: "setext counts", input: "A\n===\n\n### B\n", want: []at{{4, 1}}},
		{name: "compares with the level seen", input: "# A\n\n### B\n\n#### C\n", want: []at{{3, 1}}},
		{
			name:    "second jump from the jumped level",
			input:   "# A\n\n### B\n\n##### C\n",
			want:    []at{{3, 1}, {5, 1}},
			message: "from H1 to H3",
		},
	})
}

func TestHeadingStyleRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewHeadingStyleRule() }, []ruleCase{
		{name: "consistent atx", input: "# A\n\n## B\n"},
		{
			name:    "setext after atx",
			input:   "# A\n\nB\n-\n",
			want:    []at{{3, 1}},
			message: "Expected: atx; Actual: setext",
		},
		{name: "setext first allows deep atx", input: "A\n=\n\n### B\n"},
		{
			name:    "closed then open",
			input:   "# A #\n\n## B\n",
			want:    []at{{3, 1}},
			message: "Expected: atx_closed; Actual: atx",
		},
		{
			name:  "atx required",
			input: "A\n=\n\n# B\n",
			opts:  map[string]any{"style": "atx"},
			want:  []at{{1, 1}},
		},
		{
			name:  "setext_with_atx_closed",
			input: "A\n=\n\n### B ###\n\n### C\n",
			opts:  map[string]any{"style": "setext_with_atx_closed"},
			want:  []at{{6, 1}},
		},
	})
}

func TestNoMissingSpaceATXRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewNoMissingSpaceATXRule() }, []ruleCase{
		{name: "missing space", input: "#Heading\n", want: []at{{1, 1}}, fixed: "# Heading\n"},
		{name: "level two", input: "text\n\n##Two\n", want: []at{{3, 1}}, fixed: "text\n\n## Two\n"},
		{name: "indented", input: "  ##Heading\n", want: []at{{1, 3}}, fixed: "  ## Heading\n"},
		{name: "shebang", input: "#!/bin/sh\n"},
		{name: "seven hashes", input: "#######x\n"},
		{name: "hashes only", input: "###\n"},
		{name: "code block", input: "```\n#include <stdio.h>\n```\n"},
		{name: "proper heading", input: "# Heading\n"},
	})
}

func TestNoMultipleSpaceATXRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewNoMultipleSpaceATXRule() }, []ruleCase{
		{name: "two spaces", input: "##  Two\n", want: []at{{1, 1}}, fixed: "## Two\n", message: "(2)"},
		{name: "single space", input: "## Two\n"},
		{name: "closed heading ignored", input: "##  Two  ##\n"},
		{name: "setext ignored", input: "Two\n---\n"},
	})
}

func TestNoMissingSpaceClosedATXRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewNoMissingSpaceClosedATXRule() }, []ruleCase{
		{name: "both sides", input: "#Heading#\n", want: []at{{1, 1}}, fixed: "# Heading #\n"},
		{name: "closing side", input: "## Heading##\n", want: []at{{1, 1}}, fixed: "## Heading ##\n"},
		{name: "spaced", input: "# Heading #\n"},
		{name: "open heading", input: "# Heading\n"},
		{name: "escaped closing hash", input: "# Heading \\#\n"},
		{name: "code block", input: "```\n#x#\n```\n"},
	})
}

func TestNoMultipleSpaceClosedATXRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewNoMultipleSpaceClosedATXRule() }, []ruleCase{
		{name: "both sides", input: "#  A  #\n", want: []at{{1, 1}}, fixed: "# A #\n"},
		{name: "opening side", input: "##  A ##\n", want: []at{{1, 1}}, fixed: "## A ##\n"},
		{name: "single spaces", input: "# A #\n"},
		{name: "open heading ignored", input: "#  A\n"},
	})
}

func TestHeadingBlankLinesRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewHeadingBlankLinesRule() }, []ruleCase{
		{
			name:    "both sides",
			input:   "text\n# A\nmore\n",
			want:    []at{{2, 1}, {2, 1}},
			message: "Expected: 1; Actual: 0; Above",
			fixed:   "text\n\n# A\n\nmore\n",
		},
		{name: "surrounded", input: "text\n\n# A\n\nmore\n"},
		{name: "document edges", input: "# A\n"},
		{name: "after front matter", input: "---\ntitle: x\n---\n# A\n\ntext\n"},
		{
			name:  "setext below",
			input: "text\n\nA\n-\ntext\n",
			want:  []at{{3, 1}},
			fixed: "text\n\nA\n-\n\ntext\n",
		},
		{
			name:    "two above",
			input:   "# A\n\n## B\n",
			opts:    map[string]any{"lines_above": 2},
			want:    []at{{3, 1}},
			message: "Expected: 2; Actual: 1; Above",
			fixed:   "# A\n\n\n## B\n",
		},
		{
			name:  "below disabled",
			input: "# A\ntext\n",
			opts:  map[string]any{"lines_below": 0},
		},
		{name: "list item", input: "- # A\n- b\n"},
		{
			name:  "inside blockquote",
			input: "> text\n> # A\n",
			want:  []at{{2, 3}},
			fixed: "> text\n>\n> # A\n",
		},
	})
}

func TestHeadingStartLeftRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewHeadingStartLeftRule() }, []ruleCase{
		{name: "indented", input: "  # A\n", want: []at{{1, 1}}, fixed: "# A\n", message: "by 2"},
		{name: "indented setext", input: " A\n===\n", want: []at{{1, 1}}, fixed: "A\n===\n"},
		{name: "flush", input: "# A\n"},
		{name: "list item", input: "- a\n\n  # B\n"},
	})
}

func TestNoDuplicateHeadingRule(t *testing.T) {
	t.Parallel()

	nested := "# A\n\n## X\n\n# B\n\n## X\n"

	runCases(t, func() lint.Rule { return rules.NewNoDuplicateHeadingRule() }, []ruleCase{
		{name: "duplicate", input: "# A\n\n## B\n\n## B\n", want: []at{{5, 1}}, message: "line 3"},
		{name: "distinct", input: "# A\n\n## B\n\n## C\n"},
		{name: "different parents", input: nested, want: []at{{7, 1}}},
		{name: "siblings only", input: nested, opts: map[string]any{"siblings_only": true}},
		{name: "allow different nesting", input: nested, opts: map[string]any{"allow_different_nesting": true}},
		{
			name:  "siblings repeated",
			input: "# A\n\n## X\n\n## X\n",
			opts:  map[string]any{"siblings_only": true},
			want:  []at{{5, 1}},
		},
	})
}

func TestSingleH1Rule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewSingleH1Rule() }, []ruleCase{
		{name: "two titles", input: "# A\n\n# B\n", want: []at{{3, 1}}, message: `"B" is H1`},
		{name: "one title", input: "# A\n\n## B\n"},
		{name: "no leading title", input: "## A\n\n# B\n\n# C\n"},
		{name: "front matter title", input: "---\ntitle: T\n---\n# A\n", want: []at{{4, 1}}},
		{
			name:  "front matter title disabled",
			input: "---\ntitle: T\n---\n# A\n",
			opts:  map[string]any{"front_matter_title": ""},
		},
		{name: "level two", input: "## A\n\n## B\n", opts: map[string]any{"level": 2}, want: []at{{3, 1}}},
	})
}

func TestNoTrailingPunctuationRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewNoTrailingPunctuationRule() }, []ruleCase{
		{name: "period", input: "# Heading.\n", want: []at{{1, 1}}, fixed: "# Heading\n", message: `"."`},
		{name: "run", input: "## Wow!!\n", want: []at{{1, 1}}, fixed: "## Wow\n"},
		{name: "question allowed", input: "# Why?\n"},
		{
			name:  "custom punctuation",
			input: "# Why?\n",
			opts:  map[string]any{"punctuation": "?"},
			want:  []at{{1, 1}},
			fixed: "# Why\n",
		},
		{name: "closed heading", input: "# Done. #\n", want: []at{{1, 1}}, fixed: "# Done #\n"},
		{name: "paragraph ignored", input: "Text.\n"},
	})
}

func TestFirstLineHeadingRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewFirstLineHeadingRule() }, []ruleCase{
		{name: "heading", input: "# A\n"},
		{name: "paragraph first", input: "text\n\n# A\n", want: []at{{1, 1}}},
		{name: "wrong level", input: "## A\n", want: []at{{1, 1}}, message: "(H1)"},
		{name: "after comment", input: "<!-- note -->\n# A\n"},
		{name: "html heading", input: "<h1>Title</h1>\n\ntext\n"},
		{name: "front matter title", input: "---\ntitle: T\n---\ntext\n"},
		{name: "custom level", input: "## A\n", opts: map[string]any{"level": 2}},
		{name: "empty document", input: ""},
	})
}

func TestRequiredHeadingsRule(t *testing.T) {
	t.Parallel()

	outline := map[string]any{"headings": []any{"# Title", "## Usage"}}

	runCases(t, func() lint.Rule { return rules.NewRequiredHeadingsRule() }, []ruleCase{
		{name: "not configured", input: "# A\n"},
		{name: "matches", input: "# Title\n\n## Usage\n", opts: outline},
		{
			name:    "wrong heading",
			input:   "# Title\n\n## Install\n",
			opts:    outline,
			want:    []at{{3, 1}},
			message: "Expected: ## Usage; Actual: ## Install",
		},
		{name: "missing heading", input: "# Title\n\ntext\n", opts: outline, want: []at{{3, 1}}, message: "Missing heading: ## Usage"},
		{name: "extra heading", input: "# Title\n\n## Usage\n\n## More\n", opts: outline, want: []at{{5, 1}}, message: "[None]"},
		{name: "case folded", input: "# TITLE\n\n## usage\n", opts: outline},
		{
			name:  "match case",
			input: "# TITLE\n\n## Usage\n",
			opts:  map[string]any{"headings": []any{"# Title", "## Usage"}, "match_case": true},
			want:  []at{{1, 1}},
		},
		{
			name:  "star wildcard",
			input: "# Title\n\n## A\n\n### B\n\n## License\n",
			opts:  map[string]any{"headings": []any{"# Title", "*", "## License"}},
		},
		{
			name:    "plus needs a heading",
			input:   "# Title\n\n## License\n",
			opts:    map[string]any{"headings": []any{"# Title", "+", "## License"}},
			want:    []at{{3, 1}},
			message: "Missing heading: ## License",
		},
		{
			name:  "question mark",
			input: "# Anything\n\n## B\n",
			opts:  map[string]any{"headings": []any{"?", "## B"}},
		},
	})
}
