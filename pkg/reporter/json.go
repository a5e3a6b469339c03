package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/snoomark/pkg/runner"
)

// jsonVersion is bumped when the document shape changes incompatibly.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	DryRun  bool             `json:"dryRun,omitempty"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string  `json:"path"`
	Output     string  `json:"output"`
	Bytes      int     `json:"bytes"`
	Written    bool    `json:"written"`
	Cached     bool    `json:"cached,omitempty"`
	DurationMS float64 `json:"durationMs"`
	Diff       string  `json:"diff,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int   `json:"filesDiscovered"`
	FilesRendered   int   `json:"filesRendered"`
	FilesWritten    int   `json:"filesWritten"`
	FilesUnchanged  int   `json:"filesUnchanged"`
	FilesCached     int   `json:"filesCached"`
	FilesErrored    int   `json:"filesErrored"`
	BytesWritten    int64 `json:"bytesWritten"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesErrored, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		DryRun:  r.opts.DryRun,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:       displayPath(file.Path, r.opts.WorkingDir),
			Output:     displayPath(file.Output, r.opts.WorkingDir),
			Bytes:      file.Bytes,
			Written:    file.Written,
			Cached:     file.Cached,
			DurationMS: float64(file.Duration.Microseconds()) / 1000,
			Diff:       file.Diff,
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesRendered:   stats.FilesRendered,
		FilesWritten:    stats.FilesRendered - stats.FilesUnchanged,
		FilesUnchanged:  stats.FilesUnchanged,
		FilesCached:     stats.FilesCached,
		FilesErrored:    stats.FilesErrored,
		BytesWritten:    stats.BytesWritten,
	}

	return output
}
