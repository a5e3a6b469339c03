package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/snoomark/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func pluralFiles(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Rendered 4 files: 2 written, 2 unchanged, 1 cached, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, dryRun bool) string {
	if stats.FilesDiscovered == 0 {
		return s.Warning.Render("No markdown files found") + "\n"
	}

	head := fmt.Sprintf("Rendered %d %s", stats.FilesRendered, pluralFiles(stats.FilesRendered))
	if dryRun {
		head = "Dry run: " + head
	}

	var parts []string
	if written := stats.FilesRendered - stats.FilesUnchanged; written > 0 {
		verb := "written"
		if dryRun {
			verb = "would change"
		}
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s", written, verb)))
	}
	if stats.FilesUnchanged > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d unchanged", stats.FilesUnchanged)))
	}
	if stats.FilesCached > 0 {
		parts = append(parts, s.Info.Render(fmt.Sprintf("%d cached", stats.FilesCached)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	if len(parts) == 0 {
		return head + "\n"
	}
	return head + ": " + strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files rendered:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesRendered)) + "\n")

	if written := stats.FilesRendered - stats.FilesUnchanged; written > 0 {
		builder.WriteString("    Written:         " +
			s.Success.Render(strconv.Itoa(written)) + "\n")
	}
	if stats.FilesUnchanged > 0 {
		builder.WriteString("    Unchanged:       " +
			s.Dim.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")
	}
	if stats.FilesCached > 0 {
		builder.WriteString("    From cache:      " +
			s.Info.Render(strconv.Itoa(stats.FilesCached)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("  Bytes written:     " +
		s.SummaryValue.Render(strconv.FormatInt(stats.BytesWritten, 10)) + "\n")

	builder.WriteString("\n")

	if stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Render failed"))
	} else {
		builder.WriteString(s.Success.Render("Render complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
