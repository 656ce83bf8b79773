package analysis

import "github.com/yaklabco/mdcheck/pkg/config"

// SortField orders the ByFile and ByRule aggregates.
type SortField string

const (
	// SortByCount puts the most violations first; ties sort by key.
	SortByCount SortField = "count"
	SortByAlpha SortField = "alpha"
)

func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha:
		return true
	}
	return false
}

// Options configures Analyze.
type Options struct {
	// IncludeViolations keeps the flat violation list in the report; the
	// summary format only needs the aggregates.
	IncludeViolations bool
	SortBy            SortField
	RuleFormat        config.RuleFormat
	// WorkingDir, when set, makes file paths relative to it.
	WorkingDir string
}

// DefaultOptions lists violations, sorts by count and labels rules by name.
func DefaultOptions() Options {
	return Options{IncludeViolations: true, SortBy: SortByCount, RuleFormat: config.RuleFormatName}
}
