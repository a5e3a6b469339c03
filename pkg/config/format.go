package config

import "fmt"

// OutputFormat selects how run results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid reports whether f names a known format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts s into an OutputFormat. Empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	if s == "" {
		return FormatText, nil
	}
	f := OutputFormat(s)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q (valid: text, json)", s)
	}
	return f, nil
}
