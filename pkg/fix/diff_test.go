package fix_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/fix"
)

func TestUnified_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fix.Unified("a.md", nil, nil))
	assert.Nil(t, fix.Unified("a.md", []byte("x\ny\n"), []byte("x\ny\n")))
}

func TestUnified_SingleLineChange(t *testing.T) {
	t.Parallel()

	diff := fix.Unified("docs/a.md", []byte("a\nb  \nc\n"), []byte("a\nb\nc\n"))
	require.NotNil(t, diff)

	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)
	require.Len(t, diff.Hunks, 1)

	want := "--- a/docs/a.md\n+++ b/docs/a.md\n@@ -1,3 +1,3 @@\n a\n-b  \n+b\n c\n"
	assert.Equal(t, want, diff.String())
}

func TestUnified_SeparateHunks(t *testing.T) {
	t.Parallel()

	var before, after []string
	for i := range 20 {
		line := strings.Repeat("x", i+1)
		before = append(before, line)
		after = append(after, line)
	}
	after[1] = "changed-1"
	after[18] = "changed-18"

	diff := fix.Unified("a.md",
		[]byte(strings.Join(before, "\n")+"\n"),
		[]byte(strings.Join(after, "\n")+"\n"))
	require.NotNil(t, diff)
	require.Len(t, diff.Hunks, 2)

	assert.Equal(t, 1, diff.Hunks[0].OldStart)
	assert.Equal(t, 16, diff.Hunks[1].OldStart)
	assert.Equal(t, 2, diff.Additions)
}

func TestUnified_AppendedLine(t *testing.T) {
	t.Parallel()

	diff := fix.Unified("a.md", []byte("a\n"), []byte("a\nb\n"))
	require.NotNil(t, diff)
	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 0, diff.Deletions)
	assert.Contains(t, diff.String(), "+b\n")
}

func TestDiff_NilString(t *testing.T) {
	t.Parallel()

	var diff *fix.Diff
	assert.Empty(t, diff.String())
}
