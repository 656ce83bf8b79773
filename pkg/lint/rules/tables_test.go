package rules_test

import (
	"testing"

	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

const simpleTable = "| a | b |\n| - | - |\n| c | d |\n"

func TestTablePipeStyleRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewTablePipeStyleRule() }, []ruleCase{
		{name: "consistent", input: simpleTable, gfm: true},
		{
			name:    "missing trailing pipe",
			input:   "| a | b |\n| - | - |\n| c | d\n",
			gfm:     true,
			want:    []at{{3, 8}},
			message: "Missing trailing pipe",
		},
		{name: "no outer pipes", input: "a | b\n--- | ---\nc | d\n", gfm: true},
		{
			name:  "outer pipes required",
			input: "a | b\n--- | ---\n",
			opts:  map[string]any{"style": "leading_and_trailing"},
			gfm:   true,
			want:  []at{{1, 1}, {1, 6}, {2, 1}, {2, 10}},
		},
		{
			name:    "trailing only",
			input:   "| a |\n| - |\n",
			opts:    map[string]any{"style": "trailing_only"},
			gfm:     true,
			want:    []at{{1, 1}, {2, 1}},
			message: "Unexpected leading pipe",
		},
		{name: "commonmark has no tables", input: "| a | b |\n| - | - |\n| c | d\n"},
	})
}

func TestTableColumnCountRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewTableColumnCountRule() }, []ruleCase{
		{name: "matching", input: simpleTable, gfm: true},
		{
			name:    "too few",
			input:   "| a | b |\n| - | - |\n| c |\n",
			gfm:     true,
			want:    []at{{3, 6}},
			message: "Expected: 2; Actual: 1; Too few cells",
		},
		{
			name:    "too many",
			input:   "| a | b |\n| - | - |\n| c | d | e |\n",
			gfm:     true,
			want:    []at{{3, 10}},
			message: "Too many cells",
		},
		{name: "escaped pipe", input: "| a | b |\n| - | - |\n| c \\| d | e |\n", gfm: true},
	})
}

func TestBlanksAroundTablesRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewBlanksAroundTablesRule() }, []ruleCase{
		{name: "surrounded", input: "text\n\n| a |\n| - |\n\ntext\n", gfm: true},
		{
			name:  "heading above",
			input: "# T\n| a |\n| - |\n| b |\n",
			gfm:   true,
			want:  []at{{2, 1}},
			fixed: "# T\n\n| a |\n| - |\n| b |\n",
		},
		{
			name:  "heading below",
			input: "| a |\n| - |\n| b |\n# T\n",
			gfm:   true,
			want:  []at{{3, 1}},
			fixed: "| a |\n| - |\n| b |\n\n# T\n",
		},
		{
			name:  "blockquote",
			input: "> # T\n> | a |\n> | - |\n",
			gfm:   true,
			want:  []at{{2, 1}},
			fixed: "> # T\n>\n> | a |\n> | - |\n",
		},
	})
}

func TestTableColumnStyleRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewTableColumnStyleRule() }, []ruleCase{
		{name: "aligned and compact", input: simpleTable, gfm: true},
		{name: "tight", input: "|a|b|\n|-|-|\n|c|d|\n", gfm: true},
		{
			name:    "no style met",
			input:   "| a | b |\n|---|---|\n| cc | d |\n",
			gfm:     true,
			want:    []at{{2, 1}, {2, 5}, {2, 5}, {2, 9}},
			message: `Table pipe is missing space to the right for style "compact"`,
		},
		{
			name:    "aligned required",
			input:   "| a | b |\n| - | - |\n| cc | d |\n",
			opts:    map[string]any{"style": "aligned"},
			gfm:     true,
			want:    []at{{3, 6}},
			message: "does not align with heading",
		},
		{
			name:    "tight required",
			input:   "| a |\n|-|\n",
			opts:    map[string]any{"style": "tight"},
			gfm:     true,
			want:    []at{{1, 1}, {1, 5}},
			message: "has extra space to the right",
		},
	})
}
