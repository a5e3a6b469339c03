package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snoomark/internal/configloader"
	"github.com/yaklabco/snoomark/internal/ui/pretty"
	"github.com/yaklabco/snoomark/pkg/config"
)

// errInvalidConfig is returned by "config validate" when a file has errors.
var errInvalidConfig = errors.New("configuration is invalid")

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate snoomark configuration",
		Long: `Inspect and validate snoomark configuration.

Configuration is layered: defaults, the user file
($XDG_CONFIG_HOME/snoomark/config.yaml), the nearest .snoomark.yml,
--config, SNOOMARK_* environment variables and finally flags.`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigValidateCommand())
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			header := "# Effective snoomark configuration"
			if len(loaded.sources) > 0 {
				header += "\n# Loaded from: " + strings.Join(loaded.sources, ", ")
			}
			data, err := loaded.cfg.ToYAMLWithHeader(header)
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file for errors and warnings",
		Long: `Check a configuration file for errors and warnings.

Without an argument the nearest .snoomark.yml (or .snoomark.yaml) is
checked, searching upward from the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				found, err := configloader.FindProjectConfig(commandContext(cmd), "")
				if err != nil {
					return err
				}
				if found == "" {
					return errors.New("no project configuration found; run \"snoomark init\"")
				}
				path = found
			}

			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
			return validateConfigFile(cmd.OutOrStdout(), styles, path)
		},
	}
}

// validateConfigFile prints every finding for path and returns
// errInvalidConfig when any of them is an error.
func validateConfigFile(out io.Writer, styles *pretty.Styles, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.FromYAML(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	result := configloader.ValidateWithFile(cfg, path)
	if result.Valid() && !result.HasWarnings() {
		fmt.Fprintf(out, "%s: %s\n", styles.FilePath.Render(path), styles.Success.Render("OK"))
		return nil
	}

	for _, msg := range result.AllMessages() {
		style := styles.Warning
		if strings.HasPrefix(msg, "error: ") {
			style = styles.Error
		}
		fmt.Fprintln(out, style.Render(msg))
	}
	if !result.Valid() {
		return errInvalidConfig
	}
	return nil
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the supported SNOOMARK_* environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := configloader.ListEnvVars()
			names := make([]string, 0, len(vars))
			width := 0
			for name := range vars {
				names = append(names, name)
				width = max(width, len(name))
			}
			slices.Sort(names)

			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-*s  %s\n", width, name, vars[name])
			}
			return nil
		},
	}
}
