package config

import (
	"errors"
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRuleConfig is returned when a rule value is neither a boolean nor a mapping.
var ErrInvalidRuleConfig = errors.New("rule configuration must be a boolean or a mapping")

// RuleMap maps a rule key (ID, name, alias or tag) to its configuration.
type RuleMap map[string]RuleConfig

// RuleConfig is the tagged value configuring one rule or tag: either a bare
// boolean, or a settings object. A settings object implies enabled.
//
// Settings are opaque here; only the owning rule interprets them.
type RuleConfig struct {
	// Enabled is the boolean form. Ignored when Options is non-nil.
	Enabled bool

	// Options is the settings object form. nil means the boolean form.
	Options map[string]any
}

// Enabled returns a boolean-form RuleConfig.
func Enabled(on bool) RuleConfig {
	return RuleConfig{Enabled: on}
}

// WithOptions returns a settings-object RuleConfig.
func WithOptions(options map[string]any) RuleConfig {
	if options == nil {
		options = map[string]any{}
	}
	return RuleConfig{Enabled: true, Options: options}
}

// IsBool reports whether the value is the boolean form.
func (rc RuleConfig) IsBool() bool {
	return rc.Options == nil
}

// IsEnabled reports whether the value enables the rule.
func (rc RuleConfig) IsEnabled() bool {
	return rc.Options != nil || rc.Enabled
}

// Clone copies the settings map one level deep.
func (rc RuleConfig) Clone() RuleConfig {
	if rc.Options == nil {
		return rc
	}
	return RuleConfig{Enabled: true, Options: maps.Clone(rc.Options)}
}

// Option returns a single raw setting.
func (rc RuleConfig) Option(key string) (any, bool) {
	if rc.Options == nil {
		return nil, false
	}
	v, ok := rc.Options[key]
	return v, ok
}

// Decode decodes the settings object into target, a pointer to a struct
// tagged with `mapstructure`. Fields absent from the settings keep their
// current values, so callers pre-fill target with defaults. Unknown keys are
// ignored; values of the wrong type are an error.
func (rc RuleConfig) Decode(target any) error {
	if len(rc.Options) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return fmt.Errorf("create settings decoder: %w", err)
	}

	if err := decoder.Decode(rc.Options); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}

	return nil
}

// UnmarshalYAML accepts `true`, `false`, or a mapping.
func (rc *RuleConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, ErrInvalidRuleConfig)
		}
		*rc = Enabled(b)
		return nil

	case yaml.MappingNode:
		var options map[string]any
		if err := node.Decode(&options); err != nil {
			return fmt.Errorf("line %d: decode rule settings: %w", node.Line, err)
		}
		*rc = WithOptions(options)
		return nil

	case yaml.DocumentNode, yaml.SequenceNode, yaml.AliasNode:
		return fmt.Errorf("line %d: %w", node.Line, ErrInvalidRuleConfig)

	default:
		return fmt.Errorf("line %d: %w", node.Line, ErrInvalidRuleConfig)
	}
}

// MarshalYAML writes the boolean or mapping form.
func (rc RuleConfig) MarshalYAML() (any, error) {
	if rc.Options == nil {
		return rc.Enabled, nil
	}
	return rc.Options, nil
}
