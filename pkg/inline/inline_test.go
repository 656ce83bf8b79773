package inline_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcheck/pkg/inline"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// fakeExpander knows MD001 (heading-increment), MD013 (line-length) and the
// "headings" tag covering MD001 and MD025.
type fakeExpander struct{}

func (fakeExpander) Expand(key string) []string {
	switch strings.ToLower(key) {
	case "md001", "heading-increment":
		return []string{"MD001"}
	case "md013", "line-length":
		return []string{"MD013"}
	case "md025":
		return []string{"MD025"}
	case "headings":
		return []string{"MD001", "MD025"}
	default:
		return nil
	}
}

func build(t *testing.T, text string) (*inline.State, []inline.Problem) {
	t.Helper()

	doc := mdast.NewDocument("test.md", []byte(text), nil, nil)
	directives, problems := inline.Scan(doc)
	state, more := inline.Build(directives, doc.LineCount(), fakeExpander{})
	return state, append(problems, more...)
}

func TestScan(t *testing.T) {
	t.Parallel()

	text := "# T\n" +
		"<!-- markdownlint-disable MD001 line-length -->\n" +
		"text <!-- markdownlint-disable-line --> more <!-- markdownlint-enable MD001 -->\n" +
		"<!-- markdownlint-configure-file {\"MD013\": {\"line_length\": 120}} -->\n" +
		"<!-- not a directive -->\n"

	doc := mdast.NewDocument("test.md", []byte(text), nil, nil)
	directives, problems := inline.Scan(doc)
	require.Empty(t, problems)
	require.Len(t, directives, 4)

	assert.Equal(t, inline.Directive{Line: 2, Action: inline.Disable, Keys: []string{"MD001", "line-length"}}, directives[0])
	assert.Equal(t, inline.DisableLine, directives[1].Action)
	assert.Empty(t, directives[1].Keys)
	assert.Equal(t, 3, directives[2].Line)
	assert.Equal(t, inline.Enable, directives[2].Action)

	require.Equal(t, inline.ConfigureFile, directives[3].Action)
	require.NotNil(t, directives[3].Settings)
	assert.Equal(t, 120, directives[3].Settings.Rules["MD013"].Options["line_length"])
}

func TestScan_Problems(t *testing.T) {
	t.Parallel()

	text := "<!-- markdownlint-disabled MD001 -->\n<!-- markdownlint-configure-file {not json -->\n"
	doc := mdast.NewDocument("test.md", []byte(text), nil, nil)

	directives, problems := inline.Scan(doc)
	assert.Empty(t, directives)
	require.Len(t, problems, 2)
	assert.Equal(t, 1, problems[0].Line)
	assert.Contains(t, problems[0].Message, "markdownlint-disabled")
	assert.Equal(t, 2, problems[1].Line)
}

func TestScan_IgnoresCodeBlocksAndFrontMatter(t *testing.T) {
	t.Parallel()

	text := "---\nx: <!-- markdownlint-disable -->\n---\n```\n<!-- markdownlint-disable -->\n```\n<!-- markdownlint-enable -->\n"
	codeStart := strings.Index(text, "```")
	codeEnd := strings.LastIndex(text, "```") + 4

	events := []mdast.Event{
		{Phase: mdast.Enter, Kind: mdast.KindCodeBlock, Range: mdast.SourceRange{StartOffset: codeStart, EndOffset: codeEnd}},
		{Phase: mdast.Exit, Kind: mdast.KindCodeBlock, Range: mdast.SourceRange{StartOffset: codeStart, EndOffset: codeEnd}},
	}
	fm := &mdast.SourceRange{StartOffset: 0, EndOffset: codeStart}
	doc := mdast.NewDocument("test.md", []byte(text), events, fm)

	directives, problems := inline.Scan(doc)
	require.Empty(t, problems)
	require.Len(t, directives, 1)
	assert.Equal(t, 7, directives[0].Line)
}

func TestScan_IgnoresCodeSpans(t *testing.T) {
	t.Parallel()

	text := "Write `<!-- markdownlint-disable -->` to turn rules off.\n" +
		"`code` <!-- markdownlint-disable MD013 -->\n"
	quoted := strings.Index(text, "`<!--")
	quotedEnd := strings.Index(text, "-->`") + len("-->`")
	second := strings.Index(text, "`code`")

	events := []mdast.Event{
		{Phase: mdast.Leaf, Kind: mdast.KindCodeSpan, Range: mdast.SourceRange{StartOffset: quoted, EndOffset: quotedEnd}},
		{Phase: mdast.Leaf, Kind: mdast.KindCodeSpan, Range: mdast.SourceRange{StartOffset: second, EndOffset: second + len("`code`")}},
	}
	doc := mdast.NewDocument("test.md", []byte(text), events, nil)

	directives, problems := inline.Scan(doc)
	require.Empty(t, problems)
	require.Len(t, directives, 1)
	assert.Equal(t, 2, directives[0].Line)
	assert.Equal(t, inline.Disable, directives[0].Action)
	assert.Equal(t, []string{"MD013"}, directives[0].Keys)
}

func TestState_DisableEnableRange(t *testing.T) {
	t.Parallel()

	text := "line 1\n" +
		"<!-- markdownlint-disable MD001 -->\n" +
		"line 3\n" +
		"line 4\n" +
		"<!-- markdownlint-enable MD001 -->\n" +
		"line 6\n"

	state, problems := build(t, text)
	require.Empty(t, problems)

	for line := 1; line <= 6; line++ {
		want := line >= 2 && line <= 4
		assert.Equal(t, want, state.Suppressed("MD001", line), "line %d", line)
		assert.False(t, state.Suppressed("MD013", line), "line %d", line)
	}
}

func TestState_UnscopedAndNarrowing(t *testing.T) {
	t.Parallel()

	text := "<!-- markdownlint-disable -->\n" +
		"a\n" +
		"<!-- markdownlint-enable heading-increment -->\n" +
		"b\n"

	state, _ := build(t, text)

	assert.True(t, state.Suppressed("MD001", 2))
	assert.True(t, state.Suppressed("MD013", 2))
	assert.False(t, state.Suppressed("MD001", 4))
	assert.True(t, state.Suppressed("MD013", 4))
}

func TestState_LineDirectives(t *testing.T) {
	t.Parallel()

	text := "a <!-- markdownlint-disable-line MD013 -->\n" +
		"<!-- markdownlint-disable-next-line headings -->\n" +
		"c\n" +
		"d\n"

	state, _ := build(t, text)

	assert.True(t, state.Suppressed("MD013", 1))
	assert.False(t, state.Suppressed("MD001", 1))
	assert.False(t, state.Suppressed("MD001", 2))
	assert.True(t, state.Suppressed("MD001", 3))
	assert.True(t, state.Suppressed("MD025", 3))
	assert.False(t, state.Suppressed("MD013", 3))
	assert.False(t, state.Suppressed("MD001", 4))
}

func TestState_FileDirectives(t *testing.T) {
	t.Parallel()

	text := "a\nb\n<!-- markdownlint-disable-file MD013 -->\n"
	state, _ := build(t, text)

	assert.True(t, state.Suppressed("MD013", 1))
	assert.True(t, state.Suppressed("MD013", 3))
	assert.False(t, state.Suppressed("MD001", 1))
}

func TestState_CaptureRestore(t *testing.T) {
	t.Parallel()

	text := "<!-- markdownlint-disable MD013 -->\n" +
		"<!-- markdownlint-capture -->\n" +
		"<!-- markdownlint-disable MD001 -->\n" +
		"x\n" +
		"<!-- markdownlint-restore -->\n" +
		"y\n"

	state, _ := build(t, text)

	assert.True(t, state.Suppressed("MD001", 4))
	assert.False(t, state.Suppressed("MD001", 6))
	assert.True(t, state.Suppressed("MD013", 6))
}

func TestState_UnknownKey(t *testing.T) {
	t.Parallel()

	state, problems := build(t, "<!-- markdownlint-disable MD999 -->\nx\n")
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "MD999")
	assert.False(t, state.Suppressed("MD001", 2))
}

func TestState_Scopes(t *testing.T) {
	t.Parallel()

	text := "a\n" +
		"<!-- markdownlint-configure-file {\"MD013\": {\"line_length\": 120}} -->\n" +
		"b\n" +
		"<!-- markdownlint-configure-file {\"MD001\": false} -->\n" +
		"c\n"

	state, problems := build(t, text)
	require.Empty(t, problems)

	scopes := state.Scopes()
	require.Len(t, scopes, 2)

	assert.Equal(t, 2, scopes[0].StartLine)
	assert.Equal(t, 3, scopes[0].EndLine)
	assert.True(t, scopes[0].Contains(3))
	assert.False(t, scopes[0].Contains(4))

	assert.Equal(t, 4, scopes[1].StartLine)
	assert.Equal(t, 5, scopes[1].EndLine)

	// Later scopes carry earlier settings.
	assert.Contains(t, scopes[1].Settings.Rules, "MD013")
	assert.False(t, scopes[1].Settings.Rules["MD001"].IsEnabled())
	assert.NotContains(t, scopes[0].Settings.Rules, "MD001")
}
