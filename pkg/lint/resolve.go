package lint

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
)

// Selected pairs an enabled rule with its settings.
type Selected struct {
	Rule     Rule
	Settings config.RuleConfig
}

// Warning is a non-fatal problem found while configuring or evaluating rules.
type Warning struct {
	// Source names where the problem was found: a config file, a document.
	Source string

	// Line is the 1-based document line, 0 when not applicable.
	Line int

	Message string
}

func (w Warning) String() string {
	switch {
	case w.Source == "":
		return w.Message
	case w.Line > 0:
		return fmt.Sprintf("%s:%d: %s", w.Source, w.Line, w.Message)
	default:
		return w.Source + ": " + w.Message
	}
}

// Select returns the rules enabled by cfg, sorted by ID, with their settings.
//
// For each rule, the first of these that applies decides:
//  1. entries naming the rule by ID, name or alias; several are merged in key order
//  2. entries naming one of its tags; any false disables, otherwise any entry enables
//  3. the default flag, together with the rule's own default
//
// An explicit false for the rule always disables it. A settings object
// enables it and is passed to Check; the boolean form passes no settings.
func Select(registry *Registry, cfg *config.Config) []Selected {
	if cfg == nil {
		cfg = config.Default()
	}

	var selected []Selected
	for _, rule := range registry.Rules() {
		enabled := cfg.DefaultEnabled() && rule.DefaultEnabled()
		settings := config.Enabled(true)

		if on, ok := tagSetting(cfg.Rules, rule); ok {
			enabled = on
		}

		if rc, ok := ruleSetting(registry, cfg.Rules, rule); ok {
			enabled = rc.IsEnabled()
			if !rc.IsBool() {
				settings = rc
			}
		}

		if enabled {
			selected = append(selected, Selected{Rule: rule, Settings: settings})
		}
	}

	return selected
}

func ruleSetting(registry *Registry, rules config.RuleMap, rule Rule) (config.RuleConfig, bool) {
	var (
		merged config.RuleConfig
		found  bool
	)
	for _, key := range rules.Keys() {
		match, ok := registry.Resolve(key)
		if !ok || match.ID() != rule.ID() {
			continue
		}
		if !found {
			merged = rules[key].Clone()
			found = true
			continue
		}
		merged = merged.Merge(rules[key])
	}
	return merged, found
}

func tagSetting(rules config.RuleMap, rule Rule) (bool, bool) {
	var enabled, found bool
	for _, tag := range rule.Tags() {
		for key, rc := range rules {
			if !strings.EqualFold(key, tag) {
				continue
			}
			if !rc.IsEnabled() {
				return false, true
			}
			enabled, found = true, true
		}
	}
	return enabled, found
}

// Normalize rewrites rule-map keys to canonical rule IDs, and tags to
// lowercase, so fragments naming a rule differently merge into one entry.
// Entries colliding on one ID are merged in key order. Unknown keys are
// dropped and reported, with suggestions when a close match exists.
func Normalize(registry *Registry, rules config.RuleMap, source string) (config.RuleMap, []Warning) {
	out := make(config.RuleMap, len(rules))
	var warnings []Warning

	for _, key := range rules.Keys() {
		rc := rules[key]

		var canonical string
		switch rule, ok := registry.Resolve(key); {
		case ok:
			canonical = rule.ID()
		case registry.IsTag(key):
			canonical = strings.ToLower(key)
		default:
			warnings = append(warnings, Warning{Source: source, Message: unknownRuleMessage(registry, key)})
			continue
		}

		if existing, ok := out[canonical]; ok {
			out[canonical] = existing.Merge(rc)
			continue
		}
		out[canonical] = rc.Clone()
	}

	return out, warnings
}

// maxSuggestions bounds the alternatives listed for an unknown key.
const maxSuggestions = 3

func unknownRuleMessage(registry *Registry, key string) string {
	msg := fmt.Sprintf("unknown rule or tag %q", key)
	if suggestions := registry.Suggest(key); len(suggestions) > 0 {
		suggestions = suggestions[:min(len(suggestions), maxSuggestions)]
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, " or "))
	}
	return msg
}
