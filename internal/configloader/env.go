package configloader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
)

// envVarPrefix is the prefix for all mdcheck environment variables.
const envVarPrefix = "MDCHECK_"

// EnvSource labels the environment fragment in sources and warnings.
const EnvSource = "environment"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FIX":              {field: "fix", typ: envTypeBool, description: "Apply fixes: true or false"},
	"NO_INLINE_CONFIG": {field: "noInlineConfig", typ: envTypeBool, description: "Ignore inline directives: true or false"},
	"FLAVOR":           {field: "flavor", typ: envTypeString, description: "Markdown flavor: commonmark or gfm"},
	"GITIGNORE":        {field: "gitignore", typ: envTypeBool, description: "Skip paths matched by .gitignore: true or false"},
	"IGNORES":          {field: "ignores", typ: envTypeSlice, description: "Comma-separated list of ignore globs"},
}

// FromEnv builds a configuration fragment from MDCHECK_* variables read
// through lookup. It returns nil when none is set.
func FromEnv(lookup func(string) (string, bool)) (*config.Config, error) {
	var cfg *config.Config

	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	slices.Sort(suffixes)

	for _, suffix := range suffixes {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if cfg == nil {
			cfg = config.New()
		}
		if err := applyEnvValue(cfg, envMappings[suffix], value, envVar); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		flavor := config.Flavor(strings.ToLower(value))
		cfg.Flavor = &flavor
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "fix":
		cfg.Fix = config.Bool(value)
	case "noInlineConfig":
		cfg.NoInlineConfig = config.Bool(value)
	case "gitignore":
		cfg.Gitignore = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignores":
		cfg.Ignores = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
