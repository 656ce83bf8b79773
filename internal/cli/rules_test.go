package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/internal/cli"
)

type ruleJSON struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
	EnabledByDefault bool     `json:"enabledByDefault"`
	Fixable          bool     `json:"fixable"`
}

func TestRulesText(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "rules", "--color", "never")
	require.NoError(t, err)

	assert.Contains(t, stdout, "MD001")
	assert.Contains(t, stdout, "heading-increment")
	assert.Contains(t, stdout, "MD009")
	assert.Contains(t, stdout, "no-trailing-spaces")
}

func TestRulesJSON(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "rules", "--format", "json")
	require.NoError(t, err)

	var listed []ruleJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &listed))
	require.NotEmpty(t, listed)

	byID := make(map[string]ruleJSON, len(listed))
	for _, rule := range listed {
		byID[rule.ID] = rule
	}

	trailing, ok := byID["MD009"]
	require.True(t, ok)
	assert.Equal(t, "no-trailing-spaces", trailing.Name)
	assert.True(t, trailing.Fixable)
	assert.True(t, trailing.EnabledByDefault)
	assert.Contains(t, trailing.Tags, "whitespace")

	for i := 1; i < len(listed); i++ {
		assert.Less(t, listed[i-1].ID, listed[i].ID, "rules are sorted by ID")
	}
}

func TestRulesTagFilter(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "rules", "--format", "json", "--tag", "headings")
	require.NoError(t, err)

	var listed []ruleJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &listed))
	require.NotEmpty(t, listed)
	for _, rule := range listed {
		assert.Contains(t, rule.Tags, "headings", rule.ID)
	}
}

func TestRulesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown tag", []string{"rules", "--tag", "nope"}},
		{"unknown format", []string{"rules", "--format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.args...)
			require.ErrorIs(t, err, cli.ErrUsage)
		})
	}
}
