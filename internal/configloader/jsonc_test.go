package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripJSONComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "line comment", input: "{\"a\": 1 // note\n}", want: "{\"a\": 1 \n}"},
		{name: "block comment", input: "{/* x */\"a\": 1}", want: "{\"a\": 1}"},
		{name: "slashes in string", input: `{"url": "https://e.org"}`, want: `{"url": "https://e.org"}`},
		{name: "escaped quote", input: `{"a": "\" // x"}`, want: `{"a": "\" // x"}`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, string(stripJSONComments([]byte(testCase.input))))
		})
	}
}

func TestStripTrailingCommas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "object", input: "{\"a\": 1,\n}", want: "{\"a\": 1\n}"},
		{name: "array", input: "[1, 2, ]", want: "[1, 2 ]"},
		{name: "inner comma kept", input: "[1, 2]", want: "[1, 2]"},
		{name: "comma in string", input: `["a,]"]`, want: `["a,]"]`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, string(stripTrailingCommas([]byte(testCase.input))))
		})
	}
}

func TestJSONCToYAML(t *testing.T) {
	t.Parallel()

	out, err := jsoncToYAML([]byte("{\n\t// tabs and comments\n\t\"MD013\": {\"line_length\": 120,},\n}"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "MD013:")
	assert.Contains(t, string(out), "line_length: 120")
}
