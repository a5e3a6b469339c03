package runner

import "time"

// FileOutcome is the result of rendering one file.
type FileOutcome struct {
	// Path is the source file.
	Path string

	// Output is the file the HTML was (or, in a dry run, would be) written to.
	Output string

	// Bytes is the size of the rendered HTML.
	Bytes int

	// Cached is set when the HTML came from the render cache.
	Cached bool

	// Written is set when Output was created or changed.
	Written bool

	// Diff is the unified diff of a dry run that would change Output.
	Diff string

	Duration time.Duration

	// Error is set if the file could not be rendered or written.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int

	// FilesRendered counts files whose output was produced without error.
	FilesRendered int

	// FilesUnchanged counts rendered files whose output already matched.
	FilesUnchanged int

	// FilesCached counts rendered files served by the cache.
	FilesCached int

	FilesErrored int

	// BytesWritten is the total size of outputs that were written.
	BytesWritten int64
}

// Result is the overall runner result, ordered by source path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file failed to render.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// Failed returns the outcomes that carry an error.
func (r *Result) Failed() []FileOutcome {
	if r == nil {
		return nil
	}
	var out []FileOutcome
	for _, f := range r.Files {
		if f.Error != nil {
			out = append(out, f)
		}
	}
	return out
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesRendered++
	if outcome.Cached {
		r.Stats.FilesCached++
	}
	if outcome.Written {
		r.Stats.BytesWritten += int64(outcome.Bytes)
	} else {
		r.Stats.FilesUnchanged++
	}
}
