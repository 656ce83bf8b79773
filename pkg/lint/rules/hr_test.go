package rules_test

import (
	"testing"

	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

func TestHRStyleRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return rules.NewHRStyleRule() }, []ruleCase{
		{name: "consistent", input: "***\n\ntext\n\n***\n"},
		{
			name:    "mixed",
			input:   "***\n\n---\n",
			want:    []at{{3, 1}},
			message: "Expected: ***; Actual: ---",
			fixed:   "***\n\n***\n",
		},
		{
			name:  "configured",
			input: "* * *\n",
			opts:  map[string]any{"style": "---"},
			want:  []at{{1, 1}},
			fixed: "---\n",
		},
	})
}
