package rules_test

import (
	"testing"

	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

func TestTrailingWhitespaceRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewTrailingWhitespaceRule() }, []ruleCase{
		{
			name:    "single space",
			input:   "text \n",
			want:    []at{{1, 5}},
			message: "Expected: 0 or 2; Actual: 1",
			fixed:   "text\n",
		},
		{name: "hard break", input: "text  \nmore\n"},
		{name: "three spaces", input: "text   \nmore\n", want: []at{{1, 5}}, fixed: "text\nmore\n"},
		{name: "tab", input: "text\t\n", want: []at{{1, 5}}, fixed: "text\n"},
		{name: "whitespace only line", input: "a\n   \nb\n", want: []at{{2, 1}}, fixed: "a\n\nb\n"},
		{name: "code block", input: "```\ncode  \n```\n"},
		{name: "front matter", input: "---\nkey: v \n---\n# A\n"},
		{
			name:  "strict without break",
			input: "text  \n",
			opts:  map[string]any{"strict": true},
			want:  []at{{1, 5}},
			fixed: "text\n",
		},
		{name: "strict with break", input: "text  \nmore\n", opts: map[string]any{"strict": true}},
		{
			name:    "breaks disabled",
			input:   "text  \nmore\n",
			opts:    map[string]any{"br_spaces": 0},
			want:    []at{{1, 5}},
			message: "Expected: 0; Actual: 2",
		},
		{
			name:  "list item empty line",
			input: "- a\n  \n  b\n",
			opts:  map[string]any{"list_item_empty_lines": true},
		},
		{name: "list item empty line flagged", input: "- a\n  \n  b\n", want: []at{{2, 1}}},
		{name: "no terminator", input: "text ", want: []at{{1, 5}}, fixed: "text"},
	})
}

func TestHardTabsRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewHardTabsRule() }, []ruleCase{
		{name: "inline tab", input: "a\tb\n", want: []at{{1, 2}}, message: "Hard tabs (1)", fixed: "a b\n"},
		{
			name:    "tab run",
			input:   "x\t\ty\n",
			opts:    map[string]any{"spaces_per_tab": 4},
			want:    []at{{1, 2}},
			message: "(2)",
			fixed:   "x        y\n",
		},
		{name: "two runs", input: "a\tb\tc\n", want: []at{{1, 2}, {1, 4}}, fixed: "a b c\n"},
		{name: "code block", input: "```\na\tb\n```\n", want: []at{{2, 2}}},
		{name: "code blocks off", input: "```\na\tb\n```\n", opts: map[string]any{"code_blocks": false}},
		{
			name:  "ignored language",
			input: "```make\nall:\n\tgo build\n```\n",
			opts:  map[string]any{"ignore_code_languages": []any{"make"}},
		},
		{name: "no tabs", input: "a  b\n"},
	})
}

func TestMultipleBlankLinesRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewMultipleBlankLinesRule() }, []ruleCase{
		{
			name:    "two blanks",
			input:   "a\n\n\nb\n",
			want:    []at{{3, 1}},
			message: "Expected: 1; Actual: 2",
			fixed:   "a\n\nb\n",
		},
		{name: "one run reported once", input: "a\n\n\n\n\nb\n", want: []at{{3, 1}}, fixed: "a\n\nb\n"},
		{name: "two runs", input: "a\n\n\nb\n\n\nc\n", want: []at{{3, 1}, {6, 1}}, fixed: "a\n\nb\n\nc\n"},
		{name: "maximum two", input: "a\n\n\nb\n", opts: map[string]any{"maximum": 2}},
		{
			name:  "maximum two exceeded",
			input: "a\n\n\n\nb\n",
			opts:  map[string]any{"maximum": 2},
			want:  []at{{4, 1}},
			fixed: "a\n\n\nb\n",
		},
		{name: "trailing blanks", input: "a\n\n\n", want: []at{{3, 1}}, fixed: "a\n\n"},
		{name: "no terminator", input: "a\n\n\nb", want: []at{{3, 1}}, fixed: "a\n\nb"},
		{name: "inside code block", input: "```\n\n\n\n```\n"},
		{name: "single blank", input: "a\n\nb\n"},
	})
}

func TestFinalNewlineRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewFinalNewlineRule() }, []ruleCase{
		{name: "missing", input: "text", want: []at{{1, 5}}, fixed: "text\n"},
		{name: "present", input: "text\n"},
		{name: "empty", input: ""},
		{name: "crlf", input: "a\r\nb", want: []at{{2, 2}}, fixed: "a\r\nb\r\n"},
	})
}
