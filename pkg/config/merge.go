package config

import "maps"

// Merge folds fragments, in order, over Default(). Later fragments win:
//
//   - scalar fields: a present value replaces the earlier one
//   - Globs and Ignores: appended
//   - Rules: merged per key with RuleConfig.Merge
//
// nil fragments are skipped. The inputs are never modified.
func Merge(fragments ...*Config) *Config {
	result := Default()
	for _, fragment := range fragments {
		if fragment == nil {
			continue
		}
		result = combine(result, fragment)
	}
	return result
}

// combine returns base overlaid with override.
func combine(base, override *Config) *Config {
	out := base.Clone()

	if override.Default != nil {
		out.Default = clonePtr(override.Default)
	}
	if override.FrontMatter != nil {
		out.FrontMatter = clonePtr(override.FrontMatter)
	}
	if override.Fix != nil {
		out.Fix = clonePtr(override.Fix)
	}
	if override.NoInlineConfig != nil {
		out.NoInlineConfig = clonePtr(override.NoInlineConfig)
	}
	if override.Gitignore != nil {
		out.Gitignore = clonePtr(override.Gitignore)
	}
	if override.Flavor != nil {
		out.Flavor = clonePtr(override.Flavor)
	}

	out.Globs = appendFresh(out.Globs, override.Globs)
	out.Ignores = appendFresh(out.Ignores, override.Ignores)
	out.Rules = MergeRules(out.Rules, override.Rules)
	out.Extends = ""

	return out
}

// MergeRules returns base overlaid with override, key by key.
func MergeRules(base, override RuleMap) RuleMap {
	out := base.Clone()
	for key, rc := range override {
		if existing, ok := out[key]; ok {
			out[key] = existing.Merge(rc)
			continue
		}
		out[key] = rc.Clone()
	}
	return out
}

// Merge returns rc overlaid with override.
//
//   - override false disables, discarding any settings
//   - override true keeps earlier settings, enabling the rule
//   - override settings over settings merge one level deep, later keys winning
//   - override settings over a boolean replace it
func (rc RuleConfig) Merge(override RuleConfig) RuleConfig {
	if override.IsBool() {
		if !override.Enabled {
			return Enabled(false)
		}
		if !rc.IsBool() {
			return rc.Clone()
		}
		return Enabled(true)
	}

	if rc.IsBool() {
		return override.Clone()
	}

	merged := maps.Clone(rc.Options)
	maps.Copy(merged, override.Options)
	return WithOptions(merged)
}

func appendFresh(base, extra []string) []string {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
