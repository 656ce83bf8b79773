// Package config defines the configuration tree and how partial configuration
// fragments combine into one effective configuration.
// These types are pure data structures; reading files is the loader's job.
package config

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true if the flavor is known.
func (f Flavor) IsValid() bool {
	return f == FlavorCommonMark || f == FlavorGFM
}

// DefaultKey is the rule-map key holding the default-enable flag.
const DefaultKey = "default"

// ExtendsKey is the rule-map key naming a configuration file to load first.
const ExtendsKey = "extends"

// Config is one configuration fragment, or the effective configuration once
// fragments have been merged.
//
// Pointer fields distinguish "absent" (inherit) from an explicit value.
// List fields accumulate across fragments.
type Config struct {
	// Default is the default-enable flag for rules not named in Rules.
	Default *bool `yaml:"-"`

	// Rules maps rule identifiers, names, aliases and tags to their settings.
	Rules RuleMap `yaml:"config"`

	// Globs are include patterns for file discovery.
	Globs []string `yaml:"globs"`

	// Ignores are exclude patterns for file discovery.
	Ignores []string `yaml:"ignores"`

	// FrontMatter is a regular expression matching the front matter block.
	FrontMatter *string `yaml:"frontMatter"`

	// Fix enables fixing.
	Fix *bool `yaml:"fix"`

	// NoInlineConfig disables in-document directives.
	NoInlineConfig *bool `yaml:"noInlineConfig"`

	// Gitignore excludes paths listed in the root .gitignore from discovery.
	Gitignore *bool `yaml:"gitignore"`

	// Flavor selects the Markdown flavor.
	Flavor *Flavor `yaml:"flavor"`

	// Extends names a rule-map file loaded before this fragment. Resolved by
	// the loader; never merged.
	Extends string `yaml:"-"`
}

// New returns an empty fragment: every field absent.
func New() *Config {
	return &Config{Rules: make(RuleMap)}
}

// Default returns the base configuration every merge starts from.
func Default() *Config {
	return &Config{
		Default:        ptr(true),
		Rules:          make(RuleMap),
		Fix:            ptr(false),
		NoInlineConfig: ptr(false),
		Gitignore:      ptr(true),
		Flavor:         ptr(FlavorCommonMark),
	}
}

// UnmarshalYAML decodes a fragment. The "default" and "extends" rule-map
// keys are lifted into Default and Extends.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Rules          yaml.Node `yaml:"config"`
		Globs          []string  `yaml:"globs"`
		Ignores        []string  `yaml:"ignores"`
		FrontMatter    *string   `yaml:"frontMatter"`
		Fix            *bool     `yaml:"fix"`
		NoInlineConfig *bool     `yaml:"noInlineConfig"`
		Gitignore      *bool     `yaml:"gitignore"`
		Flavor         *Flavor   `yaml:"flavor"`
	}
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	*c = Config{
		Globs:          raw.Globs,
		Ignores:        raw.Ignores,
		FrontMatter:    raw.FrontMatter,
		Fix:            raw.Fix,
		NoInlineConfig: raw.NoInlineConfig,
		Gitignore:      raw.Gitignore,
		Flavor:         raw.Flavor,
		Rules:          make(RuleMap),
	}

	if raw.Rules.Kind == 0 {
		return nil
	}

	rules, extends, err := DecodeRuleMap(&raw.Rules)
	if err != nil {
		return err
	}
	c.Rules = rules
	c.Extends = extends
	c.liftDefault()

	return nil
}

// DecodeRuleMap decodes a YAML mapping of rule keys. The "extends" entry, a
// file path, is returned separately.
func DecodeRuleMap(node *yaml.Node) (RuleMap, string, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("line %d: rule configuration must be a mapping", node.Line)
	}

	rules := make(RuleMap, len(node.Content)/2)
	var extends string

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		if key == ExtendsKey {
			if err := value.Decode(&extends); err != nil {
				return nil, "", fmt.Errorf("line %d: extends must be a path: %w", value.Line, err)
			}
			continue
		}
		if key == "$schema" {
			continue
		}

		var rc RuleConfig
		if err := value.Decode(&rc); err != nil {
			return nil, "", fmt.Errorf("rule %q: %w", key, err)
		}
		rules[key] = rc
	}

	return rules, extends, nil
}

// liftDefault moves a boolean "default" entry from Rules into Default.
func (c *Config) liftDefault() {
	rc, ok := c.Rules[DefaultKey]
	if !ok {
		return
	}
	delete(c.Rules, DefaultKey)
	if rc.IsBool() {
		c.Default = ptr(rc.Enabled)
	}
}

// FromRuleMap builds a fragment from a bare rule map, the shape of
// .markdownlint.* files and configure-file directives.
func FromRuleMap(rules RuleMap) *Config {
	cfg := New()
	for key, rc := range rules {
		cfg.Rules[key] = rc
	}
	cfg.liftDefault()
	return cfg
}

// DefaultEnabled returns the default-enable flag, true when unset.
func (c *Config) DefaultEnabled() bool {
	return valueOr(c.Default, true)
}

// FixEnabled returns whether fixing was requested.
func (c *Config) FixEnabled() bool {
	return valueOr(c.Fix, false)
}

// InlineConfigEnabled returns whether in-document directives are honoured.
func (c *Config) InlineConfigEnabled() bool {
	return !valueOr(c.NoInlineConfig, false)
}

// GitignoreEnabled returns whether .gitignore entries are excluded from discovery.
func (c *Config) GitignoreEnabled() bool {
	return valueOr(c.Gitignore, true)
}

// FlavorOrDefault returns the configured flavor, CommonMark when unset or invalid.
func (c *Config) FlavorOrDefault() Flavor {
	if c.Flavor == nil || !c.Flavor.IsValid() {
		return FlavorCommonMark
	}
	return *c.Flavor
}

// FrontMatterPattern returns the custom front matter pattern, or "".
func (c *Config) FrontMatterPattern() string {
	return valueOr(c.FrontMatter, "")
}

// Clone returns a copy that shares no mutable state with c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	return &Config{
		Default:        clonePtr(c.Default),
		Rules:          c.Rules.Clone(),
		Globs:          slices.Clone(c.Globs),
		Ignores:        slices.Clone(c.Ignores),
		FrontMatter:    clonePtr(c.FrontMatter),
		Fix:            clonePtr(c.Fix),
		NoInlineConfig: clonePtr(c.NoInlineConfig),
		Gitignore:      clonePtr(c.Gitignore),
		Flavor:         clonePtr(c.Flavor),
		Extends:        c.Extends,
	}
}

// Clone returns a copy of the rule map. Settings maps are copied one level deep.
func (m RuleMap) Clone() RuleMap {
	if m == nil {
		return make(RuleMap)
	}
	out := make(RuleMap, len(m))
	for key, rc := range m {
		out[key] = rc.Clone()
	}
	return out
}

// Keys returns the rule-map keys in sorted order.
func (m RuleMap) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

func ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// Bool returns a pointer to b, for building fragments in code.
func Bool(b bool) *bool {
	return &b
}

// String returns a pointer to s, for building fragments in code.
func String(s string) *string {
	return &s
}
