// Package runner renders batches of markdown files to HTML.
package runner

import (
	"github.com/yaklabco/snoomark/pkg/cache"
	"github.com/yaklabco/snoomark/pkg/config"
)

// Options controls a batch render.
type Options struct {
	// Paths are files or directories to render. Empty means WorkingDir.
	Paths []string

	// WorkingDir resolves relative Paths and anchors ignore globs and the
	// OutDir mirror. Empty means the process working directory.
	WorkingDir string

	// Extensions are the lowercase extensions, with leading dot, treated as
	// markdown. Empty means config.DefaultExtensions.
	Extensions []string

	// ExcludeGlobs skip matching files and directories, relative to
	// WorkingDir. "**" matches any number of path segments.
	ExcludeGlobs []string

	// FollowSymlinks walks symlinked directories.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent workers; 0 means one per CPU.
	Jobs int

	// OutDir mirrors output under this directory. Empty writes each
	// rendered file beside its source.
	OutDir string

	// Document wraps fragments in a full page when Enabled.
	Document config.DocumentConfig

	// DryRun renders without writing anything.
	DryRun bool

	// Diff records, in a dry run, a unified diff of each output that would
	// change.
	Diff bool

	// Force bypasses the cache and rewrites outputs even when unchanged.
	Force bool

	// Cache, when set, serves and stores rendered HTML.
	Cache *cache.Cache
}

// OptionsFromConfig builds Options for paths from a resolved configuration.
// The cache is opened by the caller.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Paths:        paths,
		Extensions:   cfg.Extensions,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		OutDir:       cfg.OutDir,
		Document:     cfg.Document,
		DryRun:       cfg.DryRun,
		Force:        cfg.Force,
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
