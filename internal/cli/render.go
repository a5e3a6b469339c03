package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/snoomark/internal/logging"
	"github.com/yaklabco/snoomark/pkg/cache"
	"github.com/yaklabco/snoomark/pkg/config"
	"github.com/yaklabco/snoomark/pkg/reporter"
	"github.com/yaklabco/snoomark/pkg/runner"
)

type renderFlags struct {
	format        string
	ignore        []string
	extensions    []string
	cache         bool
	cachePath     string
	compact       bool
	summary       bool
	showUnchanged bool
	diff          bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:     "render [paths...]",
		Aliases: []string{"build"},
		Short:   "Render markdown files to HTML",
		Long:    renderLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	addRenderFlags(cmd, &cfg, flags)

	return cmd
}

const renderLongDescription = `Render markdown files to HTML.

By default, renders all .md and .markdown files in the current directory
and subdirectories, writing name.html beside each source. Outputs whose
content would not change are left untouched.

Examples:
  snoomark render                        # Render current directory
  snoomark render posts/                 # Render one directory
  snoomark render --out-dir public       # Mirror output under public/
  snoomark render --document --lang de   # Write complete HTML pages
  snoomark render --dry-run              # Report what would change
  snoomark render --diff                 # Show how outputs would change
  snoomark render --cache                # Reuse previous renders
  snoomark render --format json          # Machine-readable report`

func runRender(cmd *cobra.Command, args []string, cfg *config.Config, flags *renderFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	// Only explicitly provided flags override the lower layers.
	if cmd.Flags().Changed("format") {
		format, err := config.ParseOutputFormat(flags.format)
		if err != nil {
			return fmt.Errorf("invalid format: %w", err)
		}
		cfg.Format = format
	}
	cfg.Ignore = flags.ignore
	cfg.Extensions = flags.extensions
	cfg.Cache.Enabled = flags.cache
	cfg.Cache.Path = flags.cachePath
	if flags.diff {
		cfg.DryRun = true
	}

	loaded, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}
	finalCfg := loaded.cfg

	logger.Debug("configuration loaded",
		logging.FieldOutDir, finalCfg.OutDir,
		logging.FieldDocument, finalCfg.Document.Enabled,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
		logging.FieldCache, finalCfg.Cache.Enabled,
	)

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	runOpts := runner.OptionsFromConfig(finalCfg, args)
	runOpts.WorkingDir = loaded.workDir
	runOpts.Diff = flags.diff

	if finalCfg.Cache.Enabled {
		renderCache, err := openCache(finalCfg.Cache.Path)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := renderCache.Close(); cerr != nil {
				logger.Warn("close cache", logging.FieldError, cerr)
			}
		}()
		runOpts.Cache = renderCache
	}

	logger.Debug("starting render",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, err := runner.New().Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("render run failed"), err)
	}
	if runOpts.Cache != nil {
		logCacheStats(logger, runOpts.Cache)
	}

	logger.Debug("render finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesRendered, result.Stats.FilesRendered,
		logging.FieldFilesUnchanged, result.Stats.FilesUnchanged,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:          cmd.OutOrStdout(),
		Format:          format,
		Color:           colorMode(cmd),
		ShowSummary:     true,
		DetailedSummary: flags.summary,
		ShowUnchanged:   flags.showUnchanged,
		DryRun:          finalCfg.DryRun,
		Compact:         flags.compact,
		WorkingDir:      loaded.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return fmt.Errorf("%w: %d of %d files", ErrConversionFailed, len(result.Failed()), len(result.Files))
	}
	return nil
}

// logCacheStats reports the cache size and this run's hit rate at debug
// level.
func logCacheStats(logger *log.Logger, c *cache.Cache) {
	st, err := c.Stats()
	if err != nil {
		logger.Warn("read cache stats", logging.FieldCache, c.Path(), logging.FieldError, err)
		return
	}
	logger.Debug("render cache",
		logging.FieldCache, c.Path(),
		logging.FieldEntries, st.Entries,
		logging.FieldHits, st.Hits,
		logging.FieldMisses, st.Misses,
	)
}

// openCache opens the render cache at path, or at the default location
// when path is empty.
func openCache(path string) (*cache.Cache, error) {
	if path == "" {
		var err error
		path, err = cache.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locate cache: %w", err)
		}
	}
	c, err := cache.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return c, nil
}

func addRenderFlags(cmd *cobra.Command, cfg *config.Config, flags *renderFlags) {
	cmd.Flags().StringVarP(&cfg.OutDir, "out-dir", "o", "", "write output under this directory instead of beside sources")
	cmd.Flags().StringVar(&flags.format, "format", "text", "report format: text, json")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to render (default .md, .markdown)")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "render without writing files")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "show a unified diff of outputs that would change (implies --dry-run)")
	cmd.Flags().BoolVarP(&cfg.Force, "force", "f", false, "bypass the cache and rewrite unchanged outputs")
	cmd.Flags().BoolVar(&cfg.Document.Enabled, "document", false, "wrap output in a complete HTML page")
	cmd.Flags().StringVar(&cfg.Document.Title, "title", "", "page title (default: first heading)")
	cmd.Flags().StringVar(&cfg.Document.Stylesheet, "stylesheet", "", "stylesheet linked from each page")
	cmd.Flags().StringVar(&cfg.Document.Lang, "lang", "", "html lang attribute (default en)")
	cmd.Flags().BoolVar(&flags.cache, "cache", false, "reuse cached renders of unchanged sources")
	cmd.Flags().StringVar(&flags.cachePath, "cache-path", "", "cache database file (default: user cache dir)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "compact JSON output")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a detailed summary block")
	cmd.Flags().BoolVar(&flags.showUnchanged, "show-unchanged", false, "list files whose output was already current")
}
