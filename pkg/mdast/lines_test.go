package mdast_test

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/mdast"
)

func TestLineIndex_PositionOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		offset  int
		want    mdast.Position
	}{
		{"start of text", "abc\ndef\n", 0, mdast.Position{Line: 1, Column: 1}},
		{"middle of first line", "abc\ndef\n", 2, mdast.Position{Line: 1, Column: 3}},
		{"newline byte belongs to its line", "abc\ndef\n", 3, mdast.Position{Line: 1, Column: 4}},
		{"exact line boundary starts next line", "abc\ndef\n", 4, mdast.Position{Line: 2, Column: 1}},
		{"end of text after terminator", "abc\ndef\n", 8, mdast.Position{Line: 3, Column: 1}},
		{"end of text without terminator", "abc", 3, mdast.Position{Line: 1, Column: 4}},
		{"empty text", "", 0, mdast.Position{Line: 1, Column: 1}},
		{"multibyte columns count runes", "héllo wörld", 8, mdast.Position{Line: 1, Column: 8}},
		{"crlf line boundary", "a\r\nb", 3, mdast.Position{Line: 2, Column: 1}},
		{"emoji counts as one column", "🙂x\n", 4, mdast.Position{Line: 1, Column: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ix := mdast.BuildLineIndex([]byte(tt.content))
			got, err := ix.PositionOf(tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineIndex_OutOfRange(t *testing.T) {
	t.Parallel()

	ix := mdast.BuildLineIndex([]byte("abc\n"))

	_, err := ix.PositionOf(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mdast.ErrOutOfRange))

	var rangeErr *mdast.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 5, rangeErr.Value)
	assert.Equal(t, 4, rangeErr.Limit)

	_, err = ix.PositionOf(-1)
	require.ErrorIs(t, err, mdast.ErrOutOfRange)

	_, err = ix.OffsetOf(mdast.Position{Line: 3, Column: 1})
	require.ErrorIs(t, err, mdast.ErrOutOfRange)

	_, err = ix.OffsetOf(mdast.Position{Line: 1, Column: 6})
	require.ErrorIs(t, err, mdast.ErrOutOfRange)

	_, err = ix.OffsetOf(mdast.Position{Line: 1, Column: 0})
	require.ErrorIs(t, err, mdast.ErrOutOfRange)
}

func TestLineIndex_LineCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, mdast.BuildLineIndex(nil).LineCount())
	assert.Equal(t, 1, mdast.BuildLineIndex([]byte("abc")).LineCount())
	assert.Equal(t, 2, mdast.BuildLineIndex([]byte("abc\n")).LineCount())
	assert.Equal(t, 3, mdast.BuildLineIndex([]byte("a\n\n")).LineCount())
}

func TestLineIndex_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"\n",
		"# Title\n\n##### Skip\n",
		"no trailing newline",
		"crlf\r\nlines\r\n\r\nend",
		"mixed ünïcödé\n日本語のテキスト\n🙂🙃\n",
		"\n\n\n",
		"tab\there\n  indented\n",
	}

	for _, input := range inputs {
		content := []byte(input)
		ix := mdast.BuildLineIndex(content)

		for offset := 0; offset <= len(content); offset++ {
			if offset < len(content) && !utf8.RuneStart(content[offset]) {
				// Event streams only produce rune-boundary offsets.
				continue
			}

			pos, err := ix.PositionOf(offset)
			require.NoError(t, err, "input %q offset %d", input, offset)

			back, err := ix.OffsetOf(pos)
			require.NoError(t, err, "input %q position %v", input, pos)
			assert.Equal(t, offset, back, "input %q position %v", input, pos)
		}
	}
}

func TestLineIndex_LineOf(t *testing.T) {
	t.Parallel()

	ix := mdast.BuildLineIndex([]byte("a\nbb\n\nccc"))

	for offset, want := range []int{1, 1, 2, 2, 2, 3, 4, 4, 4, 4} {
		got, err := ix.LineOf(offset)
		require.NoError(t, err)
		assert.Equal(t, want, got, "offset %d", offset)
	}
}
