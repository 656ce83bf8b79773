package analysis

// Report contains pre-computed views of lint results.
// Computed once by Analyze, used by all renderers.
type Report struct {
	Version string `json:"version"`

	// Violations is the flat list for detailed output.
	Violations []ViolationEntry `json:"violations"`

	ByFile []FileAnalysis `json:"byFile,omitempty"`
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// Errors lists files that could not be processed.
	Errors []FileError `json:"errors,omitempty"`

	// Warnings are configuration and directive problems.
	Warnings []string `json:"warnings,omitempty"`

	Totals Totals `json:"summary"`
}

// ViolationEntry is one violation with its display path.
type ViolationEntry struct {
	FilePath string    `json:"filePath"`
	RuleID   string    `json:"ruleId"`
	RuleName string    `json:"ruleName"`
	Rule     string    `json:"rule"`
	Message  string    `json:"message"`
	Line     int       `json:"line"`
	Column   int       `json:"column,omitempty"`
	Fixable  bool      `json:"fixable"`
	Fix      *FixEntry `json:"fix,omitempty"`
}

// FixEntry describes a proposed replacement by 1-based positions.
type FixEntry struct {
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Replacement string `json:"replacement"`
}

// FileError is a file that could not be processed.
type FileError struct {
	FilePath string `json:"filePath"`
	Error    string `json:"error"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesModified   int `json:"filesModified"`
	FilesErrored    int `json:"filesErrored"`
	Violations      int `json:"totalViolations"`
	Fixable         int `json:"fixable"`
	FixesApplied    int `json:"fixesApplied"`
}

// HasIssues returns true if there are any violations.
func (t Totals) HasIssues() bool {
	return t.Violations > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path       string   `json:"path"`
	Violations int      `json:"violations"`
	Fixable    int      `json:"fixable"`
	Rules      []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	RuleID     string   `json:"ruleId"`
	RuleName   string   `json:"ruleName"`
	Rule       string   `json:"rule"`
	Violations int      `json:"violations"`
	Fixable    int      `json:"fixable"`
	Files      []string `json:"files,omitempty"`
}
