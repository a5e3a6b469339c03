package cli

import (
	"errors"

	"github.com/yaklabco/snoomark/pkg/runner"
)

// ErrConversionFailed signals that at least one file failed to render.
// The failures have already been reported, so callers only map it to an
// exit code.
var ErrConversionFailed = errors.New("conversion failed")

// Exit codes for snoomark.
const (
	// ExitSuccess indicates every file rendered.
	ExitSuccess = 0

	// ExitConversionFailed indicates one or more files failed to render.
	ExitConversionFailed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code for a render result.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil || !result.HasFailures() {
		return ExitSuccess
	}
	return ExitConversionFailed
}
