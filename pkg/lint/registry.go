package lint

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestionDistance bounds the edit distance of "did you mean" hints.
const maxSuggestionDistance = 3

// Registry holds the rules available to an engine.
//
// Lookups are case-insensitive: "md009", "MD009" and "No-Trailing-Spaces"
// resolve to the same rule.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Rule
	byKey   map[string]Rule   // lowercase ID, name or alias -> rule
	aliases map[string]string // lowercase alias -> canonical ID
	tags    map[string][]string
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Rule),
		byKey:   make(map[string]Rule),
		aliases: make(map[string]string),
		tags:    make(map[string][]string),
	}
}

// Register adds a rule to the registry.
// If a rule with the same ID already exists, it is replaced.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byID[rule.ID()]; ok {
		r.unindex(old)
	}

	r.byID[rule.ID()] = rule
	r.byKey[strings.ToLower(rule.ID())] = rule
	r.byKey[strings.ToLower(rule.Name())] = rule

	for _, tag := range rule.Tags() {
		key := strings.ToLower(tag)
		r.tags[key] = append(r.tags[key], rule.ID())
		slices.Sort(r.tags[key])
	}
}

func (r *Registry) unindex(rule Rule) {
	delete(r.byKey, strings.ToLower(rule.ID()))
	delete(r.byKey, strings.ToLower(rule.Name()))
	for _, tag := range rule.Tags() {
		key := strings.ToLower(tag)
		r.tags[key] = slices.DeleteFunc(r.tags[key], func(id string) bool { return id == rule.ID() })
		if len(r.tags[key]) == 0 {
			delete(r.tags, key)
		}
	}
}

// RegisterAlias maps an alternative name to a canonical rule ID.
// Used for markdownlint compatibility (e.g., "ul-style" -> "MD004").
func (r *Registry) RegisterAlias(alias, ruleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, ok := r.byID[ruleID]
	if !ok {
		return fmt.Errorf("alias %q: unknown rule %q", alias, ruleID)
	}
	r.aliases[strings.ToLower(alias)] = ruleID
	r.byKey[strings.ToLower(alias)] = rule
	return nil
}

// Resolve returns the rule for an ID, name or alias.
func (r *Registry) Resolve(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.byKey[strings.ToLower(key)]
	return rule, ok
}

// GetByID retrieves a rule by its exact ID only.
func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.byID[id]
	return rule, ok
}

// IsTag reports whether key names a tag of at least one rule.
func (r *Registry) IsTag(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tags[strings.ToLower(key)]
	return ok
}

// Expand returns the IDs of the rules a key refers to: one rule for an ID,
// name or alias, every tagged rule for a tag. Unknown keys expand to nil.
func (r *Registry) Expand(key string) []string {
	if rule, ok := r.Resolve(key); ok {
		return []string{rule.ID()}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tags[strings.ToLower(key)])
}

// Rules returns all registered rules sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}

	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.ID(), b.ID())
	})

	return result
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byID))
	for id := range r.byID {
		result = append(result, id)
	}

	slices.Sort(result)
	return result
}

// Tags returns all known tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.tags))
	for tag := range r.tags {
		result = append(result, tag)
	}

	slices.Sort(result)
	return result
}

// Suggest returns known IDs, names and tags close to an unknown key, nearest first.
func (r *Registry) Suggest(key string) []string {
	r.mu.RLock()
	candidates := make([]string, 0, len(r.byID)*2+len(r.tags))
	for id, rule := range r.byID {
		candidates = append(candidates, id, rule.Name())
	}
	for tag := range r.tags {
		candidates = append(candidates, tag)
	}
	r.mu.RUnlock()

	slices.Sort(candidates)

	type suggestion struct {
		text string
		dist int
	}

	needle := []rune(strings.ToLower(key))
	var options []suggestion
	for _, candidate := range candidates {
		dist := levenshtein.DistanceForStrings(needle, []rune(strings.ToLower(candidate)), levenshtein.DefaultOptions)
		if dist <= maxSuggestionDistance {
			options = append(options, suggestion{text: candidate, dist: dist})
		}
	}

	slices.SortStableFunc(options, func(a, b suggestion) int {
		return cmp.Compare(a.dist, b.dist)
	})

	result := make([]string, len(options))
	for i, o := range options {
		result[i] = o.text
	}
	return result
}
