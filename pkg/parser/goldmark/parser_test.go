package goldmark_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
	"github.com/yaklabco/mdcheck/pkg/parser/goldmark"
)

func parse(t *testing.T, content string, flavor config.Flavor) *mdast.Document {
	t.Helper()

	doc, err := goldmark.New().Parse(context.Background(), "test.md", []byte(content),
		lint.ParseOptions{Flavor: flavor})
	require.NoError(t, err)
	return doc
}

// opening returns the Enter or Leaf events of kind.
func opening(doc *mdast.Document, kind mdast.Kind) []mdast.Event {
	var out []mdast.Event
	for _, ev := range doc.Events() {
		if ev.Kind == kind && ev.Phase != mdast.Exit {
			out = append(out, ev)
		}
	}
	return out
}

func textOf(doc *mdast.Document, ev mdast.Event) string {
	return string(doc.Content()[ev.Range.StartOffset:ev.Range.EndOffset])
}

func TestParse_Heading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantText  string
		wantLevel int
		setext    bool
	}{
		{"atx", "# Title\n", "# Title", 1, false},
		{"atx closed", "## Title ##\n", "## Title ##", 2, false},
		{"atx indented", "  ### Deep\n", "### Deep", 3, false},
		{"setext h1", "Title\n=====\n", "Title\n=====", 1, true},
		{"setext h2", "Sub\n---\n", "Sub\n---", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, tt.content, config.FlavorCommonMark)
			headings := opening(doc, mdast.KindHeading)
			require.Len(t, headings, 1)

			assert.Equal(t, tt.wantText, textOf(doc, headings[0]))
			assert.Equal(t, tt.wantLevel, headings[0].Attrs.Level)
			assert.Equal(t, tt.setext, headings[0].Attrs.Setext)
		})
	}
}

func TestParse_EventStream(t *testing.T) {
	t.Parallel()

	doc := parse(t, "# Title\n\nSome *text*.\n", config.FlavorCommonMark)

	type step struct {
		phase mdast.Phase
		kind  mdast.Kind
		text  string
	}
	var got []step
	for _, ev := range doc.Events() {
		got = append(got, step{ev.Phase, ev.Kind, textOf(doc, ev)})
	}

	assert.Equal(t, []step{
		{mdast.Enter, mdast.KindHeading, "# Title"},
		{mdast.Leaf, mdast.KindText, "Title"},
		{mdast.Exit, mdast.KindHeading, "# Title"},
		{mdast.Enter, mdast.KindParagraph, "Some *text*."},
		{mdast.Leaf, mdast.KindText, "Some "},
		{mdast.Enter, mdast.KindEmphasis, "*text*"},
		{mdast.Leaf, mdast.KindText, "text"},
		{mdast.Exit, mdast.KindEmphasis, "*text*"},
		{mdast.Leaf, mdast.KindText, "."},
		{mdast.Exit, mdast.KindParagraph, "Some *text*."},
	}, got)
}

func TestParse_CodeBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantText string
		want     mdast.Attrs
	}{
		{
			name:     "backtick fence with info",
			content:  "```go\nx := 1\n```\n",
			wantText: "```go\nx := 1\n```",
			want:     mdast.Attrs{Fenced: true, FenceChar: '`', FenceLength: 3, Info: "go"},
		},
		{
			name:     "tilde fence",
			content:  "~~~~\ncode\n~~~~\n",
			wantText: "~~~~\ncode\n~~~~",
			want:     mdast.Attrs{Fenced: true, FenceChar: '~', FenceLength: 4},
		},
		{
			name:     "unclosed fence",
			content:  "```\ncode\n",
			wantText: "```\ncode",
			want:     mdast.Attrs{Fenced: true, FenceChar: '`', FenceLength: 3},
		},
		{
			name:     "indented",
			content:  "Para\n\n    code\n    more\n",
			wantText: "    code\n    more",
			want:     mdast.Attrs{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, tt.content, config.FlavorCommonMark)
			blocks := opening(doc, mdast.KindCodeBlock)
			require.Len(t, blocks, 1)

			assert.Equal(t, tt.wantText, textOf(doc, blocks[0]))
			assert.Equal(t, tt.want, blocks[0].Attrs)
		})
	}
}

func TestParse_Lists(t *testing.T) {
	t.Parallel()

	doc := parse(t, "- a\n- b\n\n1. one\n2. two\n", config.FlavorCommonMark)

	lists := opening(doc, mdast.KindList)
	require.Len(t, lists, 2)
	assert.Equal(t, "- a\n- b", textOf(doc, lists[0]))
	assert.False(t, lists[0].Attrs.Ordered)
	assert.Equal(t, byte('-'), lists[0].Attrs.Marker)
	assert.True(t, lists[0].Attrs.Tight)
	assert.True(t, lists[1].Attrs.Ordered)
	assert.Equal(t, 1, lists[1].Attrs.Start)

	items := opening(doc, mdast.KindListItem)
	require.Len(t, items, 4)
	assert.Equal(t, "- a", textOf(doc, items[0]))
	assert.Equal(t, "2. two", textOf(doc, items[3]))
	assert.Equal(t, 2, items[3].Attrs.Number)
	assert.Equal(t, byte('.'), items[3].Attrs.Marker)

	// Tight items hold paragraphs like loose ones.
	assert.Len(t, opening(doc, mdast.KindParagraph), 4)
}

func TestParse_NestedContainers(t *testing.T) {
	t.Parallel()

	doc := parse(t, "> quote\n> - item\n", config.FlavorCommonMark)

	quotes := opening(doc, mdast.KindBlockquote)
	require.Len(t, quotes, 1)
	assert.Equal(t, "> quote\n> - item", textOf(doc, quotes[0]))

	items := opening(doc, mdast.KindListItem)
	require.Len(t, items, 1)
	assert.Equal(t, "- item", textOf(doc, items[0]))
}

func TestParse_Inlines(t *testing.T) {
	t.Parallel()

	doc := parse(t, "See [docs](http://x.y \"T\") and ![alt](a.png), `go test`, <https://e.org>.\n",
		config.FlavorCommonMark)

	links := opening(doc, mdast.KindLink)
	require.Len(t, links, 2)
	assert.Equal(t, "[docs](http://x.y \"T\")", textOf(doc, links[0]))
	assert.Equal(t, "http://x.y", links[0].Attrs.Destination)
	assert.Equal(t, "T", links[0].Attrs.Title)
	assert.False(t, links[0].Attrs.Autolink)
	assert.Equal(t, "<https://e.org>", textOf(doc, links[1]))
	assert.True(t, links[1].Attrs.Autolink)

	images := opening(doc, mdast.KindImage)
	require.Len(t, images, 1)
	assert.Equal(t, "![alt](a.png)", textOf(doc, images[0]))

	spans := opening(doc, mdast.KindCodeSpan)
	require.Len(t, spans, 1)
	assert.Equal(t, "`go test`", textOf(doc, spans[0]))
}

func TestParse_Breaks(t *testing.T) {
	t.Parallel()

	doc := parse(t, "a  \nb\nc\n\n---\n", config.FlavorCommonMark)

	assert.Len(t, opening(doc, mdast.KindHardBreak), 1)
	assert.Len(t, opening(doc, mdast.KindSoftBreak), 1)

	rules := opening(doc, mdast.KindThematicBreak)
	require.Len(t, rules, 1)
	assert.Equal(t, "---", textOf(doc, rules[0]))
}

func TestParse_HTMLBlock(t *testing.T) {
	t.Parallel()

	doc := parse(t, "<div>\nhi\n</div>\n", config.FlavorCommonMark)

	blocks := opening(doc, mdast.KindHTMLBlock)
	require.Len(t, blocks, 1)
	assert.Equal(t, "<div>\nhi\n</div>", textOf(doc, blocks[0]))
}

func TestParse_GFM(t *testing.T) {
	t.Parallel()

	content := "| a | b |\n|---|---|\n| 1 | 2 |\n\nVisit https://example.com today ~~now~~\n"

	gfm := parse(t, content, config.FlavorGFM)

	tables := opening(gfm, mdast.KindTable)
	require.Len(t, tables, 1)
	assert.Equal(t, "| a | b |\n|---|---|\n| 1 | 2 |", textOf(gfm, tables[0]))

	rows := opening(gfm, mdast.KindTableRow)
	require.Len(t, rows, 2)
	assert.Equal(t, "| 1 | 2 |", textOf(gfm, rows[1]))
	assert.Len(t, opening(gfm, mdast.KindTableCell), 4)

	links := opening(gfm, mdast.KindLink)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com", textOf(gfm, links[0]))
	assert.True(t, links[0].Attrs.Autolink)

	strikes := opening(gfm, mdast.KindStrikethrough)
	require.Len(t, strikes, 1)
	assert.Equal(t, "~~now~~", textOf(gfm, strikes[0]))

	plain := parse(t, content, config.FlavorCommonMark)
	assert.Empty(t, opening(plain, mdast.KindTable))
	assert.Empty(t, opening(plain, mdast.KindLink))
}

func TestParse_FrontMatter(t *testing.T) {
	t.Parallel()

	content := "---\ntitle: x\n---\n# Heading\n"
	doc := parse(t, content, config.FlavorCommonMark)

	fm, ok := doc.FrontMatter()
	require.True(t, ok)
	assert.Equal(t, mdast.SourceRange{StartOffset: 0, EndOffset: 17}, fm)

	headings := opening(doc, mdast.KindHeading)
	require.Len(t, headings, 1)
	assert.Equal(t, "# Heading", textOf(doc, headings[0]))
	assert.False(t, headings[0].Attrs.Setext)

	// The original text is kept.
	assert.Equal(t, content, string(doc.Content()))
}

func TestParse_RangesAreBalanced(t *testing.T) {
	t.Parallel()

	content := "# T\n\n> a *b* [c](d)\n>\n> - e\n>   1. f\n\n```\ng\n```\n\n| h |\n|---|\n| i |\n"
	doc := parse(t, content, config.FlavorGFM)
	assertWellFormed(t, doc)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	p := goldmark.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Parse(ctx, "t.md", []byte("# x\n"), lint.ParseOptions{})
	require.ErrorIs(t, err, context.Canceled)

	_, err = p.Parse(context.Background(), "t.md", []byte("# x\n"), lint.ParseOptions{FrontMatter: "("})
	require.ErrorIs(t, err, goldmark.ErrFrontMatterPattern)
}

func assertWellFormed(t *testing.T, doc *mdast.Document) {
	t.Helper()

	events := doc.Events()
	size := len(doc.Content())
	for i, ev := range events {
		assert.LessOrEqual(t, 0, ev.Range.StartOffset, "event %d", i)
		assert.LessOrEqual(t, ev.Range.StartOffset, ev.Range.EndOffset, "event %d", i)
		assert.LessOrEqual(t, ev.Range.EndOffset, size, "event %d", i)
		if ev.Phase == mdast.Enter {
			exit := mdast.MatchingExit(events, i)
			require.GreaterOrEqual(t, exit, 0, "event %d (%s) is never closed", i, ev.Kind)
			assert.Equal(t, ev.Range, events[exit].Range)
		}
	}
}
