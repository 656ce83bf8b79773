package inline

import (
	"fmt"
	"maps"
	"sort"

	"github.com/yaklabco/mdcheck/pkg/config"
)

// Expander maps a rule key (ID, name, alias or tag) to rule IDs.
// Unknown keys expand to nil.
type Expander interface {
	Expand(key string) []string
}

// ruleSet says which rules are on: those in except follow their own flag,
// every other rule follows all.
type ruleSet struct {
	all    bool
	except map[string]bool
}

func allEnabled() ruleSet {
	return ruleSet{all: true}
}

func (s ruleSet) enabled(id string) bool {
	if on, ok := s.except[id]; ok {
		return on
	}
	return s.all
}

// with returns a copy with ids switched. nil ids switches every rule.
func (s ruleSet) with(ids []string, on bool) ruleSet {
	if ids == nil {
		return ruleSet{all: on}
	}
	out := ruleSet{all: s.all, except: maps.Clone(s.except)}
	if out.except == nil {
		out.except = make(map[string]bool, len(ids))
	}
	for _, id := range ids {
		out.except[id] = on
	}
	return out
}

type change struct {
	line int
	set  ruleSet
}

// Scope is a line range whose rule settings are overridden.
type Scope struct {
	// StartLine and EndLine are 1-based and inclusive.
	StartLine int
	EndLine   int

	// Settings is the accumulated ConfigureFile payload in force over the
	// range: each directive merged over the ones before it.
	Settings *config.Config
}

// Contains reports whether line falls inside the scope.
func (s Scope) Contains(line int) bool {
	return line >= s.StartLine && line <= s.EndLine
}

// State answers, for any line, which rules are suppressed there.
// It is built once per document and read-only afterwards.
type State struct {
	changes []change
	single  map[int]ruleSet // per-line overrides from DisableLine and DisableNextLine
	scopes  []Scope
}

// Build folds directives into a State for a document of lineCount lines.
// Keys that expand to no rule are reported and ignored.
func Build(directives []Directive, lineCount int, expander Expander) (*State, []Problem) {
	var problems []Problem

	expand := func(d Directive) ([]string, bool) {
		if len(d.Keys) == 0 {
			return nil, true
		}
		var ids []string
		for _, key := range d.Keys {
			matched := expander.Expand(key)
			if len(matched) == 0 {
				problems = append(problems, Problem{Line: d.Line, Message: fmt.Sprintf("unknown rule or tag %q", key)})
				continue
			}
			ids = append(ids, matched...)
		}
		return ids, len(ids) > 0
	}

	// File-level directives set the starting state wherever they appear.
	initial := allEnabled()
	for _, d := range directives {
		if d.Action != DisableFile && d.Action != EnableFile {
			continue
		}
		if ids, ok := expand(d); ok {
			initial = initial.with(ids, d.Action == EnableFile)
		}
	}

	state := &State{
		changes: []change{{line: 0, set: initial}},
		single:  make(map[int]ruleSet),
	}

	current := initial
	captured := initial
	var settings *config.Config

	for _, d := range directives {
		switch d.Action {
		case Disable, Enable:
			ids, ok := expand(d)
			if !ok {
				continue
			}
			current = current.with(ids, d.Action == Enable)
			state.push(d.Line, current)

		case DisableLine, DisableNextLine:
			ids, ok := expand(d)
			if !ok {
				continue
			}
			line := d.Line
			if d.Action == DisableNextLine {
				line++
			}
			set, exists := state.single[line]
			if !exists {
				set = allEnabled()
			}
			state.single[line] = set.with(ids, false)

		case Capture:
			captured = current

		case Restore:
			current = captured
			state.push(d.Line, current)

		case ConfigureFile:
			if settings == nil {
				settings = d.Settings.Clone()
			} else {
				settings = mergeFragments(settings, d.Settings)
			}
			if n := len(state.scopes); n > 0 {
				state.scopes[n-1].EndLine = d.Line - 1
			}
			state.scopes = append(state.scopes, Scope{StartLine: d.Line, EndLine: lineCount, Settings: settings})

		case DisableFile, EnableFile:
		}
	}

	return state, problems
}

func (s *State) push(line int, set ruleSet) {
	if last := &s.changes[len(s.changes)-1]; last.line == line {
		last.set = set
		return
	}
	s.changes = append(s.changes, change{line: line, set: set})
}

// Suppressed reports whether violations of ruleID on line are hidden.
func (s *State) Suppressed(ruleID string, line int) bool {
	if set, ok := s.single[line]; ok && !set.enabled(ruleID) {
		return true
	}

	i := sort.Search(len(s.changes), func(i int) bool { return s.changes[i].line > line }) - 1
	return !s.changes[i].set.enabled(ruleID)
}

// Scopes returns the reconfigured line ranges in document order. Ranges
// never overlap: a later ConfigureFile ends the previous scope.
func (s *State) Scopes() []Scope {
	return s.scopes
}

// mergeFragments combines two rule-map fragments without the defaults
// config.Merge adds.
func mergeFragments(base, override *config.Config) *config.Config {
	out := base.Clone()
	if override.Default != nil {
		out.Default = override.Default
	}
	out.Rules = config.MergeRules(out.Rules, override.Rules)
	return out
}
