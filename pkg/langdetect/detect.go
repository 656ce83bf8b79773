// Package langdetect guesses the language of a code block's content so a
// fence info string can be suggested. It combines a few unambiguous textual
// patterns with go-enry's shebang and classifier detection.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is the fallback language when nothing is recognised.
const Text = "text"

// candidates limits the classifier to languages commonly fenced in docs.
//
//nolint:gochecknoglobals // Read-only lookup table.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// aliases maps go-enry language names to conventional fence tags.
//
//nolint:gochecknoglobals // Read-only lookup table.
var aliases = map[string]string{
	"Shell": "bash",
	"C++":   "cpp",
}

// sample holds the views of a snippet the patterns inspect.
type sample struct {
	raw     []byte
	text    string
	trimmed []byte
}

// pattern is a highly indicative textual marker for one language.
type pattern struct {
	lang  string
	match func(s sample) bool
}

// patterns are checked in order of specificity.
//
//nolint:gochecknoglobals // Read-only lookup table.
var patterns = []pattern{
	{"go", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("package "))
	}},
	{"python", isPython},
	{"html", func(s sample) bool {
		lower := bytes.ToLower(s.trimmed)
		for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if bytes.Contains(lower, []byte(tag)) {
				return true
			}
		}
		return false
	}},
	{"json", func(s sample) bool {
		return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
			bytes.Contains(s.trimmed, []byte(`"`))
	}},
	{"dockerfile", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(bytes.Contains(s.raw, []byte("\nFROM ")) && bytes.Contains(s.raw, []byte("\nRUN "))) ||
			(bytes.Contains(s.raw, []byte("WORKDIR ")) && bytes.Contains(s.raw, []byte("COPY ")))
	}},
	{"sql", func(s sample) bool {
		upper := strings.ToUpper(strings.TrimSpace(s.text))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{"rust", func(s sample) bool {
		return containsAny(s.text, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(s sample) bool {
		return containsAny(s.text, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", isYAML},
}

// Guess returns the most likely fence tag for content, and false when
// confidence is low.
func Guess(content []byte) (string, bool) {
	if len(bytes.TrimSpace(content)) == 0 {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang), true
	}

	s := sample{raw: content, text: string(content), trimmed: bytes.TrimSpace(content)}
	for _, p := range patterns {
		if p.match(s) {
			return p.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang), true
	}

	return "", false
}

// Detect returns the detected fence tag for content, or Text.
func Detect(content []byte) string {
	if lang, ok := Guess(content); ok {
		return lang
	}
	return Text
}

func isPython(s sample) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	// Go imports use "import (".
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") &&
		(strings.Contains(s.text, "from ") || strings.HasPrefix(strings.TrimSpace(s.text), "import ")) {
		return true
	}
	return containsAny(s.text, "__name__", "__main__")
}

// isYAML counts "key: value" lines and root list items.
func isYAML(s sample) bool {
	count := 0
	for line := range bytes.SplitSeq(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.Contains(line, []byte("(")) &&
			!bytes.Contains(line, []byte("{")) &&
			!bytes.HasPrefix(line, []byte(`"`)) {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if alias, ok := aliases[lang]; ok {
		return alias
	}
	return strings.ToLower(lang)
}
