package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snoomark/internal/logging"
	"github.com/yaklabco/snoomark/internal/ui/pretty"
	"github.com/yaklabco/snoomark/pkg/fsutil"
	"github.com/yaklabco/snoomark/pkg/outline"
	"github.com/yaklabco/snoomark/pkg/reporter"
)

type inspectFlags struct {
	format     string
	flavor     string
	commonmark bool
}

func newInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Show the structure of a markdown document",
		Long: `Show the headings, links, code blocks and tables of a markdown document
as a CommonMark parser sees them. Code block languages come from the fence
info string, or are guessed from the content.

With --commonmark the document is rendered by the CommonMark renderer
instead, for comparison with "snoomark html".

Examples:
  snoomark inspect post.md
  snoomark inspect --format json post.md
  snoomark inspect --commonmark post.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.flavor, "flavor", outline.FlavorGFM, "parser flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.commonmark, "commonmark", false, "print the CommonMark HTML rendering")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, flags *inspectFlags) error {
	ctx := commandContext(cmd)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	path := fsutil.StdinPath
	if len(args) == 1 {
		path = args[0]
	}
	src, err := fsutil.ReadInput(ctx, path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	parser := outline.New(flags.flavor)
	if parser.Flavor() != flags.flavor {
		logging.FromContext(ctx).Warn("unknown flavor, using commonmark", logging.FieldFlavor, flags.flavor)
	}
	out := cmd.OutOrStdout()

	if flags.commonmark {
		html, err := parser.RenderCommonMark(ctx, src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, html)
		return err
	}

	doc, err := parser.Outline(ctx, src)
	if err != nil {
		return err
	}

	if format == reporter.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	_, err = io.WriteString(out, formatOutline(styles, doc))
	return err
}

// formatOutline renders an outline as indented text sections.
func formatOutline(s *pretty.Styles, doc *outline.Outline) string {
	var b strings.Builder

	section := func(title string, n int) {
		fmt.Fprintf(&b, "%s %s\n", s.Bold.Render(title), s.Dim.Render(fmt.Sprintf("(%d)", n)))
	}

	section("Headings", len(doc.Headings))
	for _, h := range doc.Headings {
		fmt.Fprintf(&b, "  %s%s %s\n",
			strings.Repeat("  ", h.Level-1),
			strings.Repeat("#", h.Level),
			h.Text+s.Dim.Render(fmt.Sprintf(" :%d", h.Line)),
		)
	}

	section("Links", len(doc.Links))
	for _, l := range doc.Links {
		line := fmt.Sprintf("  %-8s %s", l.Kind, s.Output.Render(l.Destination))
		if l.Text != "" {
			line += " " + s.Dim.Render(fmt.Sprintf("%q", l.Text))
		}
		b.WriteString(line + "\n")
	}

	section("Code blocks", len(doc.CodeBlocks))
	for _, c := range doc.CodeBlocks {
		kind := "indented"
		if c.Fenced {
			kind = "fenced"
		}
		fmt.Fprintf(&b, "  %-8s %s %s\n", kind, c.Language.Language,
			s.Dim.Render(fmt.Sprintf("(%d lines, by %s)", c.Lines, c.Language.Method)))
	}

	fmt.Fprintf(&b, "%s %d\n", s.Bold.Render("Tables"), doc.Tables)
	return b.String()
}
