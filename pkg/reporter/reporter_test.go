package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snoomark/pkg/reporter"
	"github.com/yaklabco/snoomark/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "unknown format", input: "xml", wantErr: true},
		{name: "case sensitive", input: "JSON", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatJSON, true},
		{reporter.Format("sarif"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{
				Writer: &buf,
				Format: tt.format,
				Color:  "never",
			})
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func workDir() string {
	return filepath.FromSlash("/work")
}

func createTestResult() *runner.Result {
	dir := workDir()
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:     filepath.Join(dir, "a.md"),
				Output:   filepath.Join(dir, "a.html"),
				Bytes:    120,
				Written:  true,
				Duration: 1500 * time.Microsecond,
			},
			{
				Path:   filepath.Join(dir, "docs", "b.md"),
				Output: filepath.Join(dir, "docs", "b.html"),
				Bytes:  80,
				Cached: true,
			},
			{
				Path:   filepath.Join(dir, "c.md"),
				Output: filepath.Join(dir, "c.html"),
				Error:  errors.New("permission denied"),
			},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3,
			FilesRendered:   2,
			FilesUnchanged:  1,
			FilesCached:     1,
			FilesErrored:    1,
			BytesWritten:    120,
		},
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, "No markdown files found\n", buf.String())
}

func TestTextReporter_Result(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  workDir(),
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a.md -> a.html (120 bytes)", lines[0])
	assert.Equal(t, "c.md: error: permission denied", lines[1])
	assert.Equal(t, "Rendered 2 files: 1 written, 1 unchanged, 1 cached, 1 failed", lines[2])
}

func TestTextReporter_ShowUnchanged(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:        &buf,
		Color:         "never",
		ShowUnchanged: true,
		WorkingDir:    workDir(),
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	want := filepath.Join("docs", "b.md") + " -> " + filepath.Join("docs", "b.html") + " (unchanged, cached)"
	assert.Contains(t, buf.String(), want)
	assert.NotContains(t, buf.String(), "Rendered")
}

func TestTextReporter_DetailedSummary(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:          &buf,
		Color:           "never",
		ShowSummary:     true,
		DetailedSummary: true,
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Summary")
	assert.Contains(t, buf.String(), "Render failed")
}

func TestTextReporter_DryRun(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		DryRun:      true,
		WorkingDir:  workDir(),
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "a.md -> a.html (would write 120 bytes)")
	assert.Contains(t, buf.String(), "Dry run: Rendered 2 files")
}

func TestReporter_Diff(t *testing.T) {
	diff := "--- /work/a.html\n+++ /work/a.html\n@@ -1 +1 @@\n-<p>a</p>\n+<p>b</p>\n"
	result := createTestResult()
	result.Files[0].Diff = diff

	var text bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &text, Color: "never", DryRun: true, WorkingDir: workDir()})
	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, text.String(), "a.md -> a.html (would write 120 bytes)\n"+diff)

	var js bytes.Buffer
	_, err = reporter.NewJSONReporter(reporter.Options{Writer: &js, WorkingDir: workDir()}).Report(context.Background(), result)
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(js.Bytes(), &output))
	assert.Equal(t, diff, output.Files[0].Diff)
	assert.Empty(t, output.Files[1].Diff)
}

func TestTextReporter_PathsOutsideWorkingDir(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:     &buf,
		Color:      "never",
		WorkingDir: filepath.FromSlash("/elsewhere"),
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), filepath.Join(workDir(), "a.md"))
}

func TestJSONReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.NotNil(t, output.Files)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_Result(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: workDir()})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 3)
	assert.Equal(t, reporter.JSONFileResult{
		Path:       "a.md",
		Output:     "a.html",
		Bytes:      120,
		Written:    true,
		DurationMS: 1.5,
	}, output.Files[0])
	assert.True(t, output.Files[1].Cached)
	assert.Equal(t, "permission denied", output.Files[2].Error)

	assert.Equal(t, reporter.JSONSummary{
		FilesDiscovered: 3,
		FilesRendered:   2,
		FilesWritten:    1,
		FilesUnchanged:  1,
		FilesCached:     1,
		FilesErrored:    1,
		BytesWritten:    120,
	}, output.Summary)
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{
		Writer:  &buf,
		Compact: true,
		DryRun:  true,
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "compact output is a single line")
	assert.Contains(t, buf.String(), `"dryRun":true`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReporter_WriteError(t *testing.T) {
	for _, format := range []reporter.Format{reporter.FormatText, reporter.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			rep, err := reporter.New(reporter.Options{
				Writer:      failingWriter{},
				Format:      format,
				Color:       "never",
				ShowSummary: true,
			})
			require.NoError(t, err)

			_, err = rep.Report(context.Background(), createTestResult())
			require.Error(t, err)
		})
	}
}
