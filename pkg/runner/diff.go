package runner

import (
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// unifiedDiff describes how writing rendered to output would change it.
// A missing output diffs against /dev/null.
func unifiedDiff(output string, existing []byte, exists bool, rendered []byte) (string, error) {
	from := output
	if !exists {
		from = os.DevNull
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(existing),
		B:        splitLines(rendered),
		FromFile: from,
		ToFile:   output,
		Context:  diffContext,
	})
}

// splitLines keeps line terminators and terminates a final partial line so
// difflib never joins it with the next diff line.
func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(b), "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	lines[last] += "\n"
	return lines
}
