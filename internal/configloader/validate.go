package configloader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mdcheck/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "ignores[0]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the first error, or nil.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &r.Errors[0]
}

// Validate checks the non-rule fields of a fragment. Rule keys are checked
// separately by lint.Normalize, which only warns.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != nil && !cfg.Flavor.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "flavor",
			Value:   *cfg.Flavor,
			Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", *cfg.Flavor),
		})
	}

	if cfg.FrontMatter != nil && *cfg.FrontMatter != "" {
		if _, err := regexp.Compile(*cfg.FrontMatter); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "frontMatter",
				Value:   *cfg.FrontMatter,
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	validatePatterns(result, "globs", cfg.Globs)
	validatePatterns(result, "ignores", cfg.Ignores)

	return result
}

// validatePatterns checks that each pattern compiles as a glob.
func validatePatterns(result *ValidationResult, field string, patterns []string) {
	for i, pattern := range patterns {
		if _, err := glob.Compile(strings.TrimPrefix(pattern, "!"), '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates a fragment and attributes errors to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	return result
}
