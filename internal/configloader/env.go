package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/snoomark/pkg/config"
)

// envVarPrefix is the prefix for all snoomark environment variables.
const envVarPrefix = "SNOOMARK_"

// envVar describes one supported environment variable.
type envVar struct {
	suffix      string
	description string
	apply       func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{
		suffix:      "OUT_DIR",
		description: "Directory that receives rendered files",
		apply: func(cfg *config.Config, value string) error {
			cfg.OutDir = value
			return nil
		},
	},
	{
		suffix:      "JOBS",
		description: "Number of parallel workers (0 = auto)",
		apply: func(cfg *config.Config, value string) error {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid integer %q", value)
			}
			cfg.Jobs = n
			return nil
		},
	},
	{
		suffix:      "IGNORE",
		description: "Comma-separated list of ignore patterns",
		apply: func(cfg *config.Config, value string) error {
			cfg.Ignore = parseSliceValue(value)
			return nil
		},
	},
	{
		suffix:      "DOCUMENT",
		description: "Wrap output in a full HTML page: true or false",
		apply: func(cfg *config.Config, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
			}
			cfg.Document.Enabled = b
			return nil
		},
	},
	{
		suffix:      "CACHE",
		description: "Enable the render cache: true or false",
		apply: func(cfg *config.Config, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
			}
			cfg.Cache.Enabled = b
			return nil
		},
	},
}

// LoadFromEnv applies SNOOMARK_* overrides to cfg. Unset and empty
// variables are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, ev := range envVars {
		name := envVarPrefix + ev.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// parseSliceValue splits a comma-separated list, trimming each element and
// dropping empty ones.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns the supported environment variables with their
// descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for _, ev := range envVars {
		out[envVarPrefix+ev.suffix] = ev.description
	}
	return out
}
