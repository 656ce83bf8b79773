package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
	"github.com/yaklabco/mdcheck/pkg/parser/goldmark"
	"github.com/yaklabco/mdcheck/pkg/runner"
)

func newRunner() *runner.Runner {
	engine := lint.NewEngine(goldmark.New(), rules.DefaultRegistry())
	return runner.New(lint.NewPipeline(engine))
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type resolverFunc func(ctx context.Context, path string) (*config.Config, []lint.Warning, error)

func (f resolverFunc) ConfigFor(ctx context.Context, path string) (*config.Config, []lint.Warning, error) {
	return f(ctx, path)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)

	assert.Empty(t, result.Files)
	assert.False(t, result.HasIssues())
	assert.False(t, result.HasErrors())
}

func TestRunner_Run_Lint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "clean.md", "# Clean\n")
	dirty := writeDoc(t, dir, "dirty.md", "# Dirty\n\ntext \n")

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.FilesWithIssues)
	assert.Equal(t, 1, result.Stats.ViolationsTotal)
	assert.Equal(t, 1, result.Stats.ViolationsFixable)
	assert.True(t, result.HasIssues())

	outcome := result.Files[1]
	assert.Equal(t, dirty, outcome.Path)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, "MD009", outcome.Result.Violations[0].RuleID)
}

func TestRunner_Run_Fix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "# Doc\n\ntext \n")

	result, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Fix:        config.Bool(true),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Equal(t, 1, result.Stats.FixesApplied)
	assert.False(t, result.HasIssues())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Doc\n\ntext\n", string(content))
}

func TestRunner_Run_FixFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "# Doc\n\ntext \n")

	cfg := config.Default()
	cfg.Fix = config.Bool(true)

	_, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Config:     runner.StaticConfig{Config: cfg},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Doc\n\ntext\n", string(content))
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "# Doc\n\ntext \n")

	result, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Fix:        config.Bool(true),
		DryRun:     true,
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	pr := result.Files[0].Result
	require.NotNil(t, pr)
	assert.True(t, pr.Modified)
	assert.False(t, pr.Written)
	require.NotNil(t, pr.Diff)
	assert.Contains(t, pr.Diff.String(), "-text ")
	assert.Equal(t, 0, result.Stats.FilesModified)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Doc\n\ntext \n", string(content))
}

func TestRunner_Run_PerFileConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "strict.md", "# A\n\ntext \n")
	writeDoc(t, dir, "relaxed/doc.md", "# A\n\ntext \n")

	relaxed := config.Default()
	relaxed.Rules["MD009"] = config.Enabled(false)

	resolver := resolverFunc(func(_ context.Context, path string) (*config.Config, []lint.Warning, error) {
		if filepath.Base(filepath.Dir(path)) == "relaxed" {
			return relaxed, nil, nil
		}
		return config.Default(), nil, nil
	})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Config: resolver})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesWithIssues)
	assert.Equal(t, filepath.Join(dir, "strict.md"), result.Files[1].Path)
	assert.True(t, result.Files[1].Result.HasIssues())
	assert.False(t, result.Files[0].Result.HasIssues())
}

func TestRunner_Run_WarningsReportedOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 5 {
		writeDoc(t, dir, fmt.Sprintf("doc%d.md", i), "# Doc\n")
	}

	warning := lint.Warning{Source: ".markdownlint.yaml", Message: `unknown rule or tag "MD999"`}
	resolver := resolverFunc(func(context.Context, string) (*config.Config, []lint.Warning, error) {
		return config.Default(), []lint.Warning{warning}, nil
	})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Config: resolver, Jobs: 2})
	require.NoError(t, err)

	assert.Equal(t, []lint.Warning{warning}, result.Warnings)
}

func TestRunner_Run_ConfigError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "doc.md", "# Doc\n")

	errBroken := errors.New("broken config")
	resolver := resolverFunc(func(context.Context, string) (*config.Config, []lint.Warning, error) {
		return nil, nil, errBroken
	})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Config: resolver})
	require.NoError(t, err)

	assert.True(t, result.HasErrors())
	assert.Equal(t, 1, result.Stats.FilesErrored)
	require.ErrorIs(t, result.Files[0].Error, errBroken)
}

func TestRunner_Run_DeterministicOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var want []string
	for i := range 20 {
		want = append(want, writeDoc(t, dir, fmt.Sprintf("doc%02d.md", i), "# Doc\n"))
	}

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 4})
	require.NoError(t, err)

	got := make([]string, len(result.Files))
	for i, outcome := range result.Files {
		got[i] = outcome.Path
	}
	assert.Equal(t, want, got)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "doc.md", "# Doc\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}
