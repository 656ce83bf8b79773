package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/runner"
)

// tree creates files under a fresh directory and returns it.
func tree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		writeDoc(t, dir, name, "# Doc\n")
	}
	return dir
}

func relAll(t *testing.T, dir string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, path := range paths {
		rel, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	files := []string{
		"README.md",
		"notes.txt",
		"docs/guide.markdown",
		"docs/draft.md",
		"docs/api/ref.md",
		".github/template.md",
		"node_modules/pkg/readme.md",
		"vendor/lib/doc.md",
		".hidden.md",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults",
			want: []string{"README.md", "docs/api/ref.md", "docs/draft.md", "docs/guide.markdown", "vendor/lib/doc.md"},
		},
		{
			name: "ignores",
			opts: runner.Options{Ignores: []string{"vendor/**", "draft.md"}},
			want: []string{"README.md", "docs/api/ref.md", "docs/guide.markdown"},
		},
		{
			name: "ignored directory",
			opts: runner.Options{Ignores: []string{"docs/api"}},
			want: []string{"README.md", "docs/draft.md", "docs/guide.markdown", "vendor/lib/doc.md"},
		},
		{
			name: "globs",
			opts: runner.Options{Globs: []string{"docs/**"}},
			want: []string{"docs/api/ref.md", "docs/draft.md", "docs/guide.markdown"},
		},
		{
			name: "negated glob",
			opts: runner.Options{Globs: []string{"docs/**", "!docs/draft.md"}},
			want: []string{"docs/api/ref.md", "docs/guide.markdown"},
		},
		{
			name: "extensions",
			opts: runner.Options{Extensions: []string{".markdown"}},
			want: []string{"docs/guide.markdown"},
		},
		{
			name: "explicit paths deduplicated",
			opts: runner.Options{Paths: []string{"README.md", ".", "docs/draft.md"}},
			want: []string{"README.md", "docs/api/ref.md", "docs/draft.md", "docs/guide.markdown", "vendor/lib/doc.md"},
		},
		{
			name: "glob argument",
			opts: runner.Options{Paths: []string{"docs/*.md"}},
			want: []string{"docs/draft.md"},
		},
		{
			name: "recursive glob argument",
			opts: runner.Options{Paths: []string{"docs/**/*.md"}},
			want: []string{"docs/api/ref.md", "docs/draft.md"},
		},
		{
			name: "explicit non-markdown file",
			opts: runner.Options{Paths: []string{"notes.txt"}},
			want: []string{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := tree(t, files...)
			opts := testCase.opts
			opts.WorkingDir = dir

			got, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, relAll(t, dir, got))
		})
	}
}

func TestDiscover_Gitignore(t *testing.T) {
	t.Parallel()

	dir := tree(t, "README.md", "build/out.md", "src/build/gen.md", "docs/CHANGELOG.md", "docs/keep.md")
	writeDoc(t, dir, ".gitignore", "# generated\nbuild/\n/docs/CHANGELOG.md\n!docs/keep.md\n")

	got, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Gitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "docs/keep.md"}, relAll(t, dir, got))

	all, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := tree(t, "README.md")

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"missing.md"}})
	require.Error(t, err)

	_, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"docs/*.md"}})
	require.ErrorIs(t, err, runner.ErrNoMatch)

	_, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Ignores: []string{"["}})
	require.Error(t, err)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := tree(t, "README.md")
	target := tree(t, "linked.md")
	if err := os.Symlink(target, filepath.Join(dir, "shared")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
