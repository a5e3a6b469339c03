package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snoomark/pkg/config"
	"github.com/yaklabco/snoomark/pkg/fsutil"
	"github.com/yaklabco/snoomark/pkg/redditmd"
	"github.com/yaklabco/snoomark/pkg/runner"
)

func newHTMLCommand() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "html [file|-]",
		Short: "Convert one file or stdin and print the HTML",
		Long: `Convert a single markdown file, or standard input when the argument is
"-" or missing, and write the HTML to standard output.

Examples:
  snoomark html post.md
  echo '>!spoiler!<' | snoomark html
  snoomark html --document --title Notes notes.md > notes.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTML(cmd, args, &cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.Document.Enabled, "document", false, "wrap output in a complete HTML page")
	cmd.Flags().StringVar(&cfg.Document.Title, "title", "", "page title (default: first heading)")
	cmd.Flags().StringVar(&cfg.Document.Stylesheet, "stylesheet", "", "stylesheet linked from the page")
	cmd.Flags().StringVar(&cfg.Document.Lang, "lang", "", "html lang attribute (default en)")

	return cmd
}

func runHTML(cmd *cobra.Command, args []string, cfg *config.Config) error {
	ctx := commandContext(cmd)

	path := fsutil.StdinPath
	if len(args) == 1 {
		path = args[0]
	}

	loaded, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	src, err := fsutil.ReadInput(ctx, path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	out, err := redditmd.Convert(string(src))
	if err != nil {
		return fmt.Errorf("convert %s: %w", inputName(path), err)
	}

	if doc := loaded.cfg.Document; doc.Enabled {
		out = runner.WrapDocument(out, doc, inputName(path))
	} else {
		out += "\n"
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// inputName is the fallback page title for path: the file name without its
// extension, or "stdin".
func inputName(path string) string {
	if path == "" || path == fsutil.StdinPath {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
