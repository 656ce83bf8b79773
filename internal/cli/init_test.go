package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdcheck/internal/cli"
)

func TestInitWritesCLI2Config(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".markdownlint-cli2.yaml")

	stdout, _, err := execute(t, "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created")

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(content, &parsed))
	assert.Contains(t, parsed, "config")
	assert.Equal(t, true, parsed["gitignore"])
	assert.Equal(t, false, parsed["fix"])

	ruleMap, ok := parsed["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, ruleMap["default"])
}

func TestInitFullRuleMap(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".markdownlint.yaml")

	_, _, err := execute(t, "init", "--rules-only", "--full", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# MD009: ")

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(content, &parsed))
	assert.Equal(t, true, parsed["default"])
	assert.Equal(t, true, parsed["no-trailing-spaces"])
	assert.NotContains(t, parsed, "config")
}

func TestInitRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".markdownlint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("MD013: false\n"), 0o644))

	_, _, err := execute(t, "init", "--rules-only", "--output", path)
	require.ErrorIs(t, err, cli.ErrUsage)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MD013: false\n", string(content))

	_, _, err = execute(t, "init", "--rules-only", "--force", "--output", path)
	require.NoError(t, err)
}

func TestInitOutputIsLoadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, err := execute(t, "init", "--full", "--output", filepath.Join(dir, ".markdownlint-cli2.yaml"))
	require.NoError(t, err)

	doc := writeDoc(t, dir, "doc.md", cleanDoc)
	_, _, err = execute(t, lintArgs(doc)...)
	require.NoError(t, err)
}
