package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/snoomark/pkg/runner"
)

// FormatOutcome formats one rendered file as a single line. path and output
// are the display forms of outcome.Path and outcome.Output.
//
//	docs/a.md -> docs/a.html (412 bytes, cached)
//	docs/b.md: error: read docs/b.md: permission denied
func (s *Styles) FormatOutcome(outcome runner.FileOutcome, path, output string, dryRun bool) string {
	if outcome.Error != nil {
		return fmt.Sprintf("%s: %s\n",
			s.FilePath.Render(path),
			s.Error.Render(fmt.Sprintf("error: %v", outcome.Error)),
		)
	}

	var notes []string
	switch {
	case !outcome.Written:
		notes = append(notes, "unchanged")
	case dryRun:
		notes = append(notes, fmt.Sprintf("would write %d bytes", outcome.Bytes))
	default:
		notes = append(notes, fmt.Sprintf("%d bytes", outcome.Bytes))
	}
	if outcome.Cached {
		notes = append(notes, "cached")
	}

	return fmt.Sprintf("%s %s %s %s\n",
		s.FilePath.Render(path),
		s.Arrow.Render("->"),
		s.Output.Render(output),
		s.Dim.Render("("+strings.Join(notes, ", ")+")"),
	)
}

// FormatDiff colors a unified diff line by line: file headers bold, hunk
// headers as info, additions and removals as success and failure.
func (s *Styles) FormatDiff(diff string) string {
	if diff == "" {
		return ""
	}

	var b strings.Builder
	for line := range strings.Lines(diff) {
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"):
			text = s.Bold.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = s.Info.Render(text)
		case strings.HasPrefix(text, "+"):
			text = s.Success.Render(text)
		case strings.HasPrefix(text, "-"):
			text = s.Failure.Render(text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}
