package lint_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/fix"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// plainParser builds documents without events; the test rules are line based.
type plainParser struct{}

func (plainParser) Parse(_ context.Context, path string, content []byte, _ lint.ParseOptions) (*mdast.Document, error) {
	return mdast.NewDocument(path, content, nil, nil), nil
}

// wordRule reports every occurrence of a word, and can fix it by replacing
// it with a configurable replacement.
type wordRule struct {
	lint.BaseRule
	word string
}

type wordSettings struct {
	Replacement string `mapstructure:"replacement"`
}

func newWordRule(id, name, word string, tags ...string) *wordRule {
	return &wordRule{
		BaseRule: lint.NewBaseRule(id, name, "flags "+word, tags, true),
		word:     word,
	}
}

func (r *wordRule) Check(doc *mdast.Document, settings config.RuleConfig) ([]lint.Violation, error) {
	opts := wordSettings{Replacement: strings.ToUpper(r.word)}
	if err := lint.DecodeSettings(settings, &opts); err != nil {
		return nil, err
	}

	report := lint.NewReport(r, doc)
	for n, line := range doc.Lines() {
		offset := 0
		for {
			i := strings.Index(line[offset:], r.word)
			if i < 0 {
				break
			}
			col := lint.ColumnOf(line, offset+i)
			start := mdast.Position{Line: n, Column: col}
			end := mdast.Position{Line: n, Column: col + len([]rune(r.word))}
			report.AtWithFix(n, col, fmt.Sprintf("found %q", r.word),
				fix.Replace(start, end, opts.Replacement, "replace "+r.word))
			offset += i + len(r.word)
		}
	}
	return report.Result()
}

// brokenRule fails with an internal error.
type brokenRule struct {
	lint.BaseRule
}

var errBroken = errors.New("broken")

func (r *brokenRule) Check(*mdast.Document, config.RuleConfig) ([]lint.Violation, error) {
	return nil, errBroken
}

func testRegistry() *lint.Registry {
	reg := lint.NewRegistry()
	reg.Register(newWordRule("XX001", "no-foo", "foo", "words"))
	reg.Register(newWordRule("XX002", "no-bar", "bar", "words", "short"))
	reg.Register(newWordRule("XX003", "no-baz", "baz"))
	return reg
}

func testEngine() *lint.Engine {
	return lint.NewEngine(plainParser{}, testRegistry())
}
