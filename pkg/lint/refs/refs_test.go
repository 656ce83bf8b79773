package refs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/refs"
	"github.com/yaklabco/mdcheck/pkg/parser/goldmark"
)

func collect(t *testing.T, content string) *refs.Index {
	t.Helper()

	doc, err := goldmark.New().Parse(context.Background(), "test.md", []byte(content),
		lint.ParseOptions{Flavor: config.FlavorGFM})
	require.NoError(t, err)
	ix, err := refs.Collect(doc)
	require.NoError(t, err)
	return ix
}

func TestNormalizeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"foo", "foo"},
		{"FoO BaR", "foo bar"},
		{"  foo  bar ", "foo bar"},
		{"foo\tbar", "foo bar"},
		{"foo\nbar", "foo bar"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, refs.NormalizeLabel(tt.input), tt.input)
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Getting Started", "getting-started"},
		{"What's new?", "whats-new"},
		{"A - B", "a---b"},
		{"snake_case and kebab-case", "snake_case-and-kebab-case"},
		{"Ünïcödé Title", "ünïcödé-title"},
		{"v1.2.3", "v123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, refs.Slug(tt.input), tt.input)
	}
}

func TestFragment(t *testing.T) {
	t.Parallel()

	fragment, ok := refs.Fragment("page.md#intro")
	assert.True(t, ok)
	assert.Equal(t, "intro", fragment)

	_, ok = refs.Fragment("https://example.com")
	assert.False(t, ok)
}

func TestCollectAnchors(t *testing.T) {
	t.Parallel()

	ix := collect(t, "# Intro\n\n## Usage\n\n## Usage\n\n<a name=\"legacy\"></a>\n\n<div id=\"custom\">x</div>\n")

	for _, id := range []string{"intro", "usage", "usage-1", "legacy", "custom"} {
		assert.True(t, ix.Anchors.Has(id), id)
	}
	assert.False(t, ix.Anchors.Has("usage-2"))

	canonical, ok := ix.Anchors.Canonical("INTRO")
	assert.True(t, ok)
	assert.Equal(t, "intro", canonical)
}

func TestValidFragment(t *testing.T) {
	t.Parallel()

	ix := collect(t, "# Intro\n")

	tests := []struct {
		fragment string
		want     bool
	}{
		{"intro", true},
		{"Intro", false},
		{"missing", false},
		{"", true},
		{"top", true},
		{"L20", true},
		{"L19C5-L21C11", true},
		{"L", false},
		{":~:text=intro", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ix.ValidFragment(tt.fragment), tt.fragment)
	}
}

func TestCollectFragments(t *testing.T) {
	t.Parallel()

	content := "# Intro\n\nSee [intro](#intro) and [page](other.md#x).\n"
	ix := collect(t, content)

	require.Len(t, ix.Fragments, 1)
	link := ix.Fragments[0]
	assert.Equal(t, "intro", link.Fragment)
	assert.Equal(t, "[intro](#intro)", content[link.Offset:link.Offset+len("[intro](#intro)")])
	assert.Equal(t, byte('#'), content[link.FragmentOffset])
}

func TestCollectDefinitionsAndReferences(t *testing.T) {
	t.Parallel()

	content := "# Title\n\n" +
		"A [full][one], a [two][], a [Three] and ![img][four].\n\n" +
		"An [inline](https://e.org) link and a [^note].\n\n" +
		"[one]: https://e.org/1\n" +
		"[two]: <https://e.org/2> \"Two\"\n" +
		"[three]: https://e.org/3\n" +
		"[unused]: https://e.org/u\n" +
		"[ONE]: https://e.org/dup\n\n" +
		"```\n[code]: not-a-definition\n```\n"
	ix := collect(t, content)

	require.Len(t, ix.AllDefinitions, 5)
	assert.Equal(t, "https://e.org/2", ix.Definitions["two"].Destination)
	assert.Equal(t, "Two", ix.Definitions["two"].Title)
	assert.NotContains(t, ix.Definitions, "code")

	dups := ix.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, "ONE", dups[0].Label)

	unused := ix.Unused()
	require.Len(t, unused, 1)
	assert.Equal(t, "unused", unused[0].Label)

	var styles []refs.Style
	for _, ref := range ix.References {
		styles = append(styles, ref.Style)
	}
	assert.Equal(t, []refs.Style{refs.StyleFull, refs.StyleCollapsed, refs.StyleShortcut, refs.StyleFull}, styles)
	assert.True(t, ix.References[3].Image)
	assert.Equal(t, "four", ix.References[3].Label)

	unresolved := ix.Unresolved()
	require.Len(t, unresolved, 1)
	assert.Equal(t, "four", unresolved[0].Normalized)
}
