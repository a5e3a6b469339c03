package logging

// Field names for structured log records.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run settings.
	FieldOutDir   = "out_dir"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"
	FieldCache    = "cache"
	FieldDocument = "document"

	// Per-file and aggregate results.
	FieldBytes           = "bytes"
	FieldDuration        = "duration"
	FieldCached          = "cached"
	FieldFilesDiscovered = "files_discovered"
	FieldFilesRendered   = "files_rendered"
	FieldFilesUnchanged  = "files_unchanged"
	FieldFilesErrored    = "files_errored"

	// Render cache.
	FieldEntries = "entries"
	FieldHits    = "hits"
	FieldMisses  = "misses"

	FieldFlavor = "flavor"

	// Build information.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
