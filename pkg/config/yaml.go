package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML parses a full configuration fragment, the shape of
// .markdownlint-cli2.* files. JSON is valid YAML, so JSON input works too.
func FromYAML(data []byte) (*Config, error) {
	cfg := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Rules == nil {
		cfg.Rules = make(RuleMap)
	}
	return cfg, nil
}

// RuleMapFromYAML parses a bare rule map, the shape of .markdownlint.* files
// and configure-file directives, into a fragment.
func RuleMapFromYAML(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	rules, extends, err := DecodeRuleMap(&node)
	if err != nil {
		return nil, err
	}

	cfg := FromRuleMap(rules)
	cfg.Extends = extends
	return cfg, nil
}

// ToYAML serializes the configuration with the default flag folded back
// into the rule map.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// MarshalYAML writes the on-disk shape.
func (c *Config) MarshalYAML() (any, error) {
	type plain struct {
		Rules          RuleMap  `yaml:"config,omitempty"`
		Globs          []string `yaml:"globs,omitempty"`
		Ignores        []string `yaml:"ignores,omitempty"`
		FrontMatter    *string  `yaml:"frontMatter,omitempty"`
		Fix            *bool    `yaml:"fix,omitempty"`
		NoInlineConfig *bool    `yaml:"noInlineConfig,omitempty"`
		Gitignore      *bool    `yaml:"gitignore,omitempty"`
		Flavor         *Flavor  `yaml:"flavor,omitempty"`
	}

	rules := c.Rules.Clone()
	if c.Default != nil {
		rules[DefaultKey] = Enabled(*c.Default)
	}

	return plain{
		Rules:          rules,
		Globs:          c.Globs,
		Ignores:        c.Ignores,
		FrontMatter:    c.FrontMatter,
		Fix:            c.Fix,
		NoInlineConfig: c.NoInlineConfig,
		Gitignore:      c.Gitignore,
		Flavor:         c.Flavor,
	}, nil
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
