package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/snoomark/internal/configloader"
	"github.com/yaklabco/snoomark/internal/logging"
	"github.com/yaklabco/snoomark/pkg/config"
	"github.com/yaklabco/snoomark/pkg/fsutil"
)

// errInitDeclined is returned when the user answers no to the overwrite
// prompt.
var errInitDeclined = errors.New("init cancelled")

type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a snoomark configuration file",
		Long: `Create a commented .snoomark.yml in the current directory.

An existing file is only replaced with --force, or after confirmation when
running in a terminal.

Examples:
  snoomark init                       Create .snoomark.yml
  snoomark init --force               Replace an existing file
  snoomark init --output site.yml     Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags, isInteractive())
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigName,
		"output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags, interactive bool) error {
	logger := logging.NewInteractive()
	ctx := commandContext(cmd)

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		switch {
		case flags.force:
			logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
		case interactive:
			ok, err := confirmOverwrite(cmd.InOrStdin(), cmd.ErrOrStderr(), flags.output)
			if err != nil {
				return err
			}
			if !ok {
				return errInitDeclined
			}
		default:
			return fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)
		}
	}

	if err := fsutil.WriteAtomic(ctx, absPath, config.DefaultTemplate(), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'snoomark render' to render markdown in this directory")

	return nil
}

// confirmOverwrite asks whether path may be replaced. Only an explicit yes
// confirms.
func confirmOverwrite(in io.Reader, out io.Writer, path string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s already exists. Overwrite? [y/N] ", path); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
