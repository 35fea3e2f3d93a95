package logging

// Structured logging keys.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Formatting options.
	FieldIndentUnit  = "indent_unit"
	FieldRawBlocks   = "reindent_raw_blocks"
	FieldCaseSpacing = "separate_cases"
	FieldWrite       = "write"
	FieldCheck       = "check"
	FieldJobs        = "jobs"

	// Per-file results.
	FieldEncoding   = "encoding"
	FieldLineEnding = "line_ending"
	FieldChanges    = "changes"
	FieldInserted   = "inserted"
	FieldBlocks     = "blocks"
	FieldLanguage   = "language"
	FieldReason     = "reason"

	// Run statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesFailed     = "files_failed"
	FieldDuration        = "duration"

	// Watch mode.
	FieldEvent = "event"

	// Version.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
