package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/mdast"
)

func TestDocument_Lines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single line no terminator", "abc", []string{"abc"}},
		{"single line with terminator", "abc\n", []string{"abc"}},
		{"blank lines kept", "a\n\n\nb\n", []string{"a", "", "", "b"}},
		{"trailing blank line", "a\n\n", []string{"a", ""}},
		{"crlf stripped", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone carriage return kept", "a\rb\n", []string{"a\rb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mdast.NewDocument("test.md", []byte(tt.content), nil, nil)
			assert.Equal(t, len(tt.want), doc.LineCount())

			var got []string
			for n, line := range doc.Lines() {
				assert.Equal(t, len(got)+1, n)
				got = append(got, line)
			}
			assert.Equal(t, tt.want, got)

			// Restartable.
			count := 0
			for range doc.Lines() {
				count++
			}
			assert.Equal(t, len(tt.want), count)
		})
	}
}

func TestDocument_Line(t *testing.T) {
	t.Parallel()

	doc := mdast.NewDocument("test.md", []byte("first\nsecond\n"), nil, nil)

	line, err := doc.Line(2)
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = doc.Line(3)
	require.ErrorIs(t, err, mdast.ErrLineNotFound)

	_, err = doc.Line(0)
	require.ErrorIs(t, err, mdast.ErrLineNotFound)
}

func TestDocument_FrontMatter(t *testing.T) {
	t.Parallel()

	content := []byte("---\ntitle: x\n---\n# Heading\n")
	fm := &mdast.SourceRange{StartOffset: 0, EndOffset: 17}
	doc := mdast.NewDocument("test.md", content, nil, fm)

	got, ok := doc.FrontMatter()
	require.True(t, ok)
	assert.Equal(t, *fm, got)
	assert.True(t, doc.IsInFrontMatter(0))
	assert.True(t, doc.IsInFrontMatter(16))
	assert.False(t, doc.IsInFrontMatter(17))

	plain := mdast.NewDocument("plain.md", content, nil, nil)
	assert.False(t, plain.IsInFrontMatter(0))
}

func TestDocument_EventsAreCopied(t *testing.T) {
	t.Parallel()

	events := []mdast.Event{
		{Phase: mdast.Enter, Kind: mdast.KindHeading, Attrs: mdast.Attrs{Level: 1}},
		{Phase: mdast.Exit, Kind: mdast.KindHeading, Attrs: mdast.Attrs{Level: 1}},
	}
	doc := mdast.NewDocument("test.md", []byte("# a\n"), events, nil)

	events[0].Attrs.Level = 6
	got := doc.Events()
	assert.Equal(t, 1, got[0].Attrs.Level)

	got[0].Attrs.Level = 3
	assert.Equal(t, 1, doc.Events()[0].Attrs.Level)
}

func TestDocument_LineEnding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\n", mdast.NewDocument("", []byte("a\nb"), nil, nil).LineEnding())
	assert.Equal(t, "\r\n", mdast.NewDocument("", []byte("a\r\nb"), nil, nil).LineEnding())
	assert.Equal(t, "\n", mdast.NewDocument("", []byte("a"), nil, nil).LineEnding())
}

func TestMatchingExit(t *testing.T) {
	t.Parallel()

	events := []mdast.Event{
		{Phase: mdast.Enter, Kind: mdast.KindList},
		{Phase: mdast.Enter, Kind: mdast.KindListItem},
		{Phase: mdast.Enter, Kind: mdast.KindList},
		{Phase: mdast.Exit, Kind: mdast.KindList},
		{Phase: mdast.Exit, Kind: mdast.KindListItem},
		{Phase: mdast.Exit, Kind: mdast.KindList},
	}

	assert.Equal(t, 5, mdast.MatchingExit(events, 0))
	assert.Equal(t, 4, mdast.MatchingExit(events, 1))
	assert.Equal(t, 3, mdast.MatchingExit(events, 2))
	assert.Equal(t, -1, mdast.MatchingExit(events, 3))
}
