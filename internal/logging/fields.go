package logging

// Field names for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldWorkingDir = "working_dir"
	FieldRoot       = "root"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldSources = "sources"
	FieldFlavor  = "flavor"
	FieldFix     = "fix"
	FieldDryRun  = "dry_run"
	FieldJobs    = "jobs"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldViolationsTotal  = "violations_total"
	FieldFilesModified    = "files_modified"
	FieldFixPasses        = "fix_passes"
	FieldFixesApplied     = "fixes_applied"
	FieldConflictsDropped = "conflicts_dropped"

	// Version fields.
	FieldVersion   = "version"
	FieldCommit    = "commit"
	FieldBuilt     = "built"
	FieldGoVersion = "go"
	FieldPlatform  = "platform"
	FieldRules     = "rules"

	// Rule fields.
	FieldRule = "rule"
)
