// Package inline processes in-document directives: HTML comments that
// disable, enable or reconfigure rules for a range of lines.
//
//	<!-- markdownlint-disable MD013 -->
//	<!-- markdownlint-enable -->
//	<!-- markdownlint-disable-next-line no-bare-urls -->
//	<!-- markdownlint-configure-file {"MD013": {"line_length": 120}} -->
//
// A directive without rule keys applies to every rule. Keys may be rule IDs,
// names, aliases or tags. Directives inside code blocks and front matter are
// ordinary text.
package inline

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// Marker prefixes every directive keyword.
const Marker = "markdownlint-"

// Action is what a directive does.
type Action int

const (
	// Disable turns rules off from the directive's line on.
	Disable Action = iota + 1

	// Enable turns rules back on from the directive's line on.
	Enable

	// DisableLine turns rules off on the directive's line only.
	DisableLine

	// DisableNextLine turns rules off on the line after the directive.
	DisableNextLine

	// DisableFile turns rules off for the whole document.
	DisableFile

	// EnableFile turns rules on for the whole document.
	EnableFile

	// Capture saves the current line state.
	Capture

	// Restore returns to the last captured state.
	Restore

	// ConfigureFile overrides rule settings from the directive's line to the
	// next ConfigureFile or the end of the document.
	ConfigureFile
)

//nolint:gochecknoglobals // Read-only lookup table.
var actionNames = map[string]Action{
	"disable":           Disable,
	"enable":            Enable,
	"disable-line":      DisableLine,
	"disable-next-line": DisableNextLine,
	"disable-file":      DisableFile,
	"enable-file":       EnableFile,
	"capture":           Capture,
	"restore":           Restore,
	"configure-file":    ConfigureFile,
}

// String returns the directive keyword without the marker.
func (a Action) String() string {
	for name, action := range actionNames {
		if action == a {
			return name
		}
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Directive is one parsed control comment.
type Directive struct {
	// Line is the 1-based line holding the comment.
	Line int

	Action Action

	// Keys are the rule keys as written. Empty means every rule.
	Keys []string

	// Settings is the ConfigureFile payload.
	Settings *config.Config
}

// Problem is a malformed directive. Malformed directives are skipped.
type Problem struct {
	Line    int
	Message string
}

//nolint:gochecknoglobals // Compiled once.
var commentPattern = regexp.MustCompile(`<!--\s*` + regexp.QuoteMeta(Marker) + `([a-z-]+)(.*?)-->`)

// Scan returns the directives of doc in document order. Comments inside
// code blocks, code spans and front matter are text, not directives.
func Scan(doc *mdast.Document) ([]Directive, []Problem) {
	skip := literalLines(doc)
	text := withoutCodeSpans(doc)

	var (
		directives []Directive
		problems   []Problem
	)

	for n := 1; n <= doc.LineCount(); n++ {
		start, end := doc.LineBounds(n)
		line := text[start:end]
		if skip[n] || !strings.Contains(line, Marker) {
			continue
		}

		for _, match := range commentPattern.FindAllStringSubmatch(line, -1) {
			action, ok := actionNames[match[1]]
			if !ok {
				problems = append(problems, Problem{Line: n, Message: fmt.Sprintf("unknown directive %q", Marker+match[1])})
				continue
			}

			d := Directive{Line: n, Action: action}
			payload := strings.TrimSpace(match[2])

			if action == ConfigureFile {
				settings, err := config.RuleMapFromYAML([]byte(payload))
				if err != nil {
					problems = append(problems, Problem{Line: n, Message: fmt.Sprintf("invalid %s payload: %v", Marker+match[1], err)})
					continue
				}
				d.Settings = settings
			} else {
				d.Keys = strings.Fields(payload)
			}

			directives = append(directives, d)
		}
	}

	return directives, problems
}

// literalLines returns the lines whose text is not Markdown markup: code
// blocks and front matter.
func literalLines(doc *mdast.Document) map[int]bool {
	lines := make(map[int]bool)

	mark := func(r mdast.SourceRange) {
		first, err := doc.LineOf(r.StartOffset)
		if err != nil {
			return
		}
		end := r.EndOffset
		if end > r.StartOffset {
			end--
		}
		last, err := doc.LineOf(end)
		if err != nil {
			return
		}
		for n := first; n <= last; n++ {
			lines[n] = true
		}
	}

	if fm, ok := doc.FrontMatter(); ok {
		mark(fm)
	}
	for _, ev := range doc.Events() {
		if ev.Phase == mdast.Enter && ev.Kind == mdast.KindCodeBlock {
			mark(ev.Range)
		}
	}

	return lines
}

// withoutCodeSpans returns the content with every code span blanked, so a
// comment quoted in backticks never matches while the rest of its line
// still can.
func withoutCodeSpans(doc *mdast.Document) string {
	content := doc.Content()
	var out []byte
	for _, ev := range doc.Events() {
		if ev.Kind != mdast.KindCodeSpan || ev.Phase == mdast.Exit {
			continue
		}
		if out == nil {
			out = slices.Clone(content)
		}
		for i := ev.Range.StartOffset; i < ev.Range.EndOffset && i < len(out); i++ {
			if out[i] != '\n' && out[i] != '\r' {
				out[i] = ' '
			}
		}
	}
	if out == nil {
		return string(content)
	}
	return string(out)
}
