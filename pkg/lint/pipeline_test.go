package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
)

func TestPipeline_ProcessContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		opts         lint.PipelineOptions
		wantModified bool
		wantContent  string
		wantRemain   int
	}{
		{
			name:       "lint only",
			input:      "foo bar\n",
			opts:       lint.PipelineOptions{},
			wantRemain: 2,
		},
		{
			name:         "fix",
			input:        "foo bar\nbaz\n",
			opts:         lint.PipelineOptions{Fix: true},
			wantModified: true,
			wantContent:  "FOO BAR\nBAZ\n",
		},
		{
			name:  "nothing to fix",
			input: "clean\n",
			opts:  lint.PipelineOptions{Fix: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pipeline := lint.NewPipeline(testEngine())
			result, err := pipeline.ProcessContent(context.Background(), "t.md", []byte(tt.input), nil, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.wantModified, result.Modified)
			assert.Len(t, result.Violations, tt.wantRemain)
			if tt.wantModified {
				assert.Equal(t, tt.wantContent, string(result.FixedContent))
				assert.Equal(t, 1, result.FixPasses)
			} else {
				assert.Nil(t, result.FixedContent)
			}
		})
	}
}

func TestPipeline_ConflictsRetriedInLaterPass(t *testing.T) {
	t.Parallel()

	reg := lint.NewRegistry()
	reg.Register(newWordRule("XX001", "no-foo", "foo"))
	reg.Register(newWordRule("XX002", "no-oba", "oba"))
	pipeline := lint.NewPipeline(lint.NewEngine(plainParser{}, reg))

	result, err := pipeline.ProcessContent(context.Background(), "t.md", []byte("foobar foo\n"),
		nil, lint.PipelineOptions{Fix: true})
	require.NoError(t, err)

	// "foo" at the start overlaps "oba" and is dropped; the other "foo" is fixed.
	require.Equal(t, 1, result.DroppedCount())
	require.ErrorIs(t, result.DroppedFixes, fix.ErrConflict)
	assert.Equal(t, "fOBAr FOO\n", string(result.FixedContent))
	assert.Empty(t, result.Violations)
}

func TestPipeline_MaxFixPasses(t *testing.T) {
	t.Parallel()

	// Replacing "a" with "aa" never converges.
	reg := lint.NewRegistry()
	frag := config.New()
	frag.Rules["XX001"] = config.WithOptions(map[string]any{"replacement": "aa"})
	reg.Register(newWordRule("XX001", "no-a", "a"))
	pipeline := lint.NewPipeline(lint.NewEngine(plainParser{}, reg))

	result, err := pipeline.ProcessContent(context.Background(), "t.md", []byte("a\n"),
		config.Merge(frag), lint.PipelineOptions{Fix: true, MaxFixPasses: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, result.FixPasses)
	assert.Equal(t, "aaaaaaaa\n", string(result.FixedContent))
	assert.NotEmpty(t, result.Violations)
}

func TestPipeline_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nfoo\n"), 0o644))

	pipeline := lint.NewPipeline(testEngine())
	result, err := pipeline.ProcessFile(context.Background(), path, nil,
		lint.PipelineOptions{Fix: true, DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.False(t, result.Written)
	require.NotNil(t, result.Diff)
	assert.Equal(t, 1, result.Diff.Additions)
	assert.Equal(t, 1, result.Diff.Deletions)
	assert.Contains(t, result.Diff.String(), "-foo\n+FOO\n")
	assert.Equal(t, "changes pending", result.Summary())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nfoo\n", string(content))
}

func TestPipeline_WritesFixedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("foo\n"), 0o600))

	pipeline := lint.NewPipeline(testEngine())
	result, err := pipeline.ProcessFile(context.Background(), path, nil, lint.PipelineOptions{Fix: true})
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.Equal(t, "fixed", result.Summary())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FOO\n", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestPipeline_FileNotFound(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(testEngine())
	_, err := pipeline.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.md"),
		nil, lint.PipelineOptions{})
	require.ErrorIs(t, err, lint.ErrFileNotFound)
	assert.True(t, lint.IsPipelineError(err))
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	assert.False(t, lint.PipelineOptionsFromConfig(nil).Fix)

	frag := config.New()
	frag.Fix = config.Bool(true)
	assert.True(t, lint.PipelineOptionsFromConfig(config.Merge(frag)).Fix)
}
