package rules_test

import (
	"testing"

	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

func TestNoEmphasisAsHeadingRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewNoEmphasisAsHeadingRule() }, []ruleCase{
		{name: "strong", input: "**Title**\n\ntext\n", want: []at{{1, 1}}, message: `"Title"`},
		{name: "emphasis", input: "text\n\n*Title*\n", want: []at{{3, 1}}},
		{name: "ends with punctuation", input: "**Note:**\n"},
		{name: "part of a sentence", input: "**bold** text\n"},
		{name: "list item", input: "- **Item**\n"},
		{name: "not plain text", input: "**a [link](u)**\n"},
		{
			name:  "custom punctuation",
			input: "**Note:**\n",
			opts:  map[string]any{"punctuation": "."},
			want:  []at{{1, 1}},
		},
	})
}

func TestEmphasisStyleRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewEmphasisStyleRule, []ruleCase{
		{name: "consistent", input: "*a* and *b*\n"},
		{
			name:    "mixed",
			input:   "*a* and _b_\n",
			want:    []at{{1, 9}},
			message: "Expected: asterisk; Actual: underscore",
			fixed:   "*a* and *b*\n",
		},
		{
			name:  "underscore required",
			input: "*a*\n",
			opts:  map[string]any{"style": "underscore"},
			want:  []at{{1, 1}},
			fixed: "_a_\n",
		},
		{
			name:  "intraword",
			input: "un*frigging*believable\n",
			opts:  map[string]any{"style": "underscore"},
			want:  []at{{1, 3}},
		},
		{name: "strong ignored", input: "**a** and __b__\n"},
	})
}

func TestStrongStyleRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewStrongStyleRule, []ruleCase{
		{name: "consistent", input: "__a__ and __b__\n"},
		{
			name:    "mixed",
			input:   "**a** and __b__\n",
			want:    []at{{1, 11}},
			message: "Expected: asterisk; Actual: underscore",
			fixed:   "**a** and **b**\n",
		},
		{
			name:  "asterisk required",
			input: "__a__\n",
			opts:  map[string]any{"style": "asterisk"},
			want:  []at{{1, 1}},
			fixed: "**a**\n",
		},
		{name: "emphasis ignored", input: "*a* and _b_\n"},
	})
}

func TestNoSpaceInEmphasisRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewNoSpaceInEmphasisRule() }, []ruleCase{
		{name: "strong", input: "** bold **\n", want: []at{{1, 1}}, fixed: "**bold**\n", message: "** bold **"},
		{name: "opening side", input: "text * em* text\n", want: []at{{1, 6}}, fixed: "text *em* text\n"},
		{name: "closing side", input: "**a **\n", want: []at{{1, 1}}, fixed: "**a**\n"},
		{name: "underscore", input: "_ a _\n", want: []at{{1, 1}}, fixed: "_a_\n"},
		{name: "two runs", input: "x * a * and * b *\n", want: []at{{1, 3}, {1, 13}}},
		{name: "valid emphasis", input: "*a* and *b*\n"},
		{name: "bullet", input: "* item *b*\n"},
		{name: "code span", input: "`** a **`\n"},
		{name: "snake case", input: "snake_case and other_name\n"},
		{name: "code block", input: "```\n** a **\n```\n"},
	})
}
