package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
	"github.com/yaklabco/mdcheck/pkg/mdast"
	"github.com/yaklabco/mdcheck/pkg/parser/goldmark"
)

// ruleCase is one row of a rule table test.
type ruleCase struct {
	name    string
	input   string
	opts    map[string]any
	gfm     bool
	want    []at   // violation positions, in order
	fixed   string // expected text after fixing; "" to skip
	message string // substring of the first violation's message
}

type at struct{ line, col int }

func parse(t *testing.T, content string, gfm bool) *mdast.Document {
	t.Helper()

	flavor := config.FlavorCommonMark
	if gfm {
		flavor = config.FlavorGFM
	}
	doc, err := goldmark.New().Parse(context.Background(), "test.md", []byte(content),
		lint.ParseOptions{Flavor: flavor})
	require.NoError(t, err)
	return doc
}

func settingsOf(opts map[string]any) config.RuleConfig {
	if opts == nil {
		return config.Enabled(true)
	}
	return config.WithOptions(opts)
}

func check(t *testing.T, rule lint.Rule, content string, opts map[string]any, gfm bool) []lint.Violation {
	t.Helper()

	violations, err := rule.Check(parse(t, content, gfm), settingsOf(opts))
	require.NoError(t, err)
	return violations
}

func positions(violations []lint.Violation) []at {
	var out []at
	for _, v := range violations {
		out = append(out, at{v.Line, v.Column})
	}
	return out
}

// fixUntilStable applies the rule's fixes pass after pass until it reports
// nothing fixable, and returns the final text.
func fixUntilStable(t *testing.T, rule lint.Rule, content string, opts map[string]any, gfm bool) string {
	t.Helper()

	text := content
	for range 5 {
		fixes := lint.CollectFixes(check(t, rule, text, opts, gfm))
		if len(fixes) == 0 {
			return text
		}
		result, err := fix.Apply([]byte(text), fixes)
		require.NoError(t, err)
		text = string(result.Text)
	}
	t.Fatalf("%s: fixes did not converge", rule.ID())
	return text
}

// runCases runs a table against newRule. Fixed cases also check that the
// fixed text is clean for the rule.
func runCases(t *testing.T, newRule func() lint.Rule, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := newRule()
			violations := check(t, rule, tt.input, tt.opts, tt.gfm)
			assert.Equal(t, tt.want, positions(violations))
			for _, v := range violations {
				assert.Equal(t, rule.ID(), v.RuleID)
			}
			if tt.message != "" && len(violations) > 0 {
				assert.Contains(t, violations[0].Message, tt.message)
			}

			if tt.fixed == "" {
				return
			}
			got := fixUntilStable(t, rule, tt.input, tt.opts, tt.gfm)
			assert.Equal(t, tt.fixed, got)
			assert.Empty(t, check(t, rule, got, tt.opts, tt.gfm), "fixed text still violates")
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	registry := rules.DefaultRegistry()
	for _, rule := range rules.All() {
		got, ok := registry.GetByID(rule.ID())
		require.True(t, ok, rule.ID())
		assert.Equal(t, rule.Name(), got.Name())

		byName, ok := registry.Resolve(rule.Name())
		require.True(t, ok, rule.Name())
		assert.Equal(t, rule.ID(), byName.ID())

		assert.NotEmpty(t, rule.Description(), rule.ID())
		assert.NotEmpty(t, rule.Tags(), rule.ID())
		assert.Equal(t, rule.ID() != "MD006", rule.DefaultEnabled(), rule.ID())
	}

	aliases := map[string]string{
		"single-title":  "MD025",
		"first-line-h1": "MD041",
		"header-style":  "MD003",
		"NO-HARD-TABS":  "MD010",
	}
	for alias, id := range aliases {
		rule, ok := registry.Resolve(alias)
		require.True(t, ok, alias)
		assert.Equal(t, id, rule.ID())
	}

	assert.True(t, registry.IsTag("headings"))
	assert.Contains(t, registry.Expand("whitespace"), "MD009")
}

func TestDefaultRegistry_Independent(t *testing.T) {
	t.Parallel()

	a := rules.DefaultRegistry()
	b := rules.DefaultRegistry()

	a.Register(rules.NewHeadingIncrementRule())
	require.NoError(t, a.RegisterAlias("custom-alias", "MD001"))

	_, ok := b.Resolve("custom-alias")
	assert.False(t, ok)
}

func TestRules_Deterministic(t *testing.T) {
	t.Parallel()

	content := "#Title\n\n\n\n##  Sub.\ntext \t\n* a\n- b\n\n```\nx\n```\nsee https://e.org\n" +
		"> quote\n\n>  again\n\n***\n\n---\n\n1. one\n3. three\n![](i.png) [x]()\n" +
		"\n| a | b |\n|---|---|\n| c |\n\n** spaced ** [here](x)\n"

	for _, rule := range rules.All() {
		t.Run(rule.ID(), func(t *testing.T) {
			t.Parallel()

			doc := parse(t, content, true)
			first, err := rule.Check(doc, config.Enabled(true))
			require.NoError(t, err)
			second, err := rule.Check(doc, config.Enabled(true))
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestRules_InvalidSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rule lint.Rule
		opts map[string]any
	}{
		{rules.NewHeadingStyleRule(), map[string]any{"style": "fancy"}},
		{rules.NewUnorderedListStyleRule(), map[string]any{"style": "circle"}},
		{rules.NewOrderedListPrefixRule(), map[string]any{"style": "roman"}},
		{rules.NewMultipleBlankLinesRule(), map[string]any{"maximum": "many"}},
		{rules.NewCodeBlockStyleRule(), map[string]any{"style": "boxed"}},
		{rules.NewSingleH1Rule(), map[string]any{"front_matter_title": "("}},
		{rules.NewULIndentRule(), map[string]any{"indent": 0}},
		{rules.NewTablePipeStyleRule(), map[string]any{"style": "wavy"}},
		{rules.NewTableColumnStyleRule(), map[string]any{"style": "zigzag"}},
	}

	for _, tt := range tests {
		t.Run(tt.rule.ID(), func(t *testing.T) {
			t.Parallel()

			_, err := tt.rule.Check(parse(t, "---\ntitle: x\n---\n# A\n", false), config.WithOptions(tt.opts))
			require.ErrorIs(t, err, lint.ErrInvalidSettings)
		})
	}
}

func TestEngine_BuiltinRules(t *testing.T) {
	t.Parallel()

	engine := lint.NewEngine(goldmark.New(), rules.DefaultRegistry())

	tests := []struct {
		name    string
		content string
		wantID  string
		want    at
	}{
		{"heading jump", "# Title\n\n##### Skip\n", "MD001", at{3, 1}},
		{"blank run", "# Title\n\n\n\ntext\n", "MD012", at{3, 1}},
		{"missing newline", "# Title", "MD047", at{1, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := engine.LintFile(context.Background(), "t.md", []byte(tt.content), config.Default())
			require.NoError(t, err)

			var got []at
			for _, v := range result.Violations {
				if v.RuleID == tt.wantID {
					got = append(got, at{v.Line, v.Column})
				}
			}
			assert.Equal(t, []at{tt.want}, got)
		})
	}
}

func TestPipeline_FixesConverge(t *testing.T) {
	t.Parallel()

	input := "#Title\n\n\n\nSome text   \n* item\n\n```\npackage main\n```\ndone"

	pipeline := lint.NewPipeline(lint.NewEngine(goldmark.New(), rules.DefaultRegistry()))
	result, err := pipeline.ProcessContent(context.Background(), "t.md", []byte(input), config.Default(),
		lint.PipelineOptions{Fix: true, MaxFixPasses: 5})
	require.NoError(t, err)
	require.True(t, result.Modified)

	assert.Equal(t, "# Title\n\nSome text\n\n* item\n\n```go\npackage main\n```\n\ndone\n", string(result.FixedContent))
	for _, v := range result.Violations {
		assert.False(t, v.HasFix(), "fixable violation left: %s %s", v.RuleID, v.Message)
	}
}
