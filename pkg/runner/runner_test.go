package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snoomark/pkg/cache"
	"github.com/yaklabco/snoomark/pkg/config"
	"github.com/yaklabco/snoomark/pkg/redditmd"
	"github.com/yaklabco/snoomark/pkg/runner"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, runner.Stats{}, result.Stats)
	assert.False(t, result.HasFailures())
}

func TestRunner_Run_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"post.md": "**bold**"})
	opts := runner.Options{WorkingDir: dir}

	result, err := runner.New().Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	out := result.Files[0]
	assert.Equal(t, filepath.Join(dir, "post.html"), out.Output)
	assert.True(t, out.Written)
	assert.Equal(t, "<p><strong>bold</strong></p>\n", readFile(t, out.Output))
	assert.Equal(t, 1, result.Stats.FilesRendered)
	assert.Equal(t, int64(out.Bytes), result.Stats.BytesWritten)

	// A second run finds the output already up to date.
	result, err = runner.New().Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Files[0].Written)
	assert.Equal(t, 1, result.Stats.FilesUnchanged)
	assert.Zero(t, result.Stats.BytesWritten)
}

func TestRunner_Run_OutDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.md":      "# Home",
		"docs/guide.md": "- a\n- b",
	})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, OutDir: "public"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.FilesRendered)

	assert.Equal(t, "<h1>Home</h1>\n", readFile(t, filepath.Join(dir, "public", "index.html")))
	assert.Equal(t, "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n", readFile(t, filepath.Join(dir, "public", "docs", "guide.html")))
	assert.NoFileExists(t, filepath.Join(dir, "index.html"))
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "text"})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, DryRun: true})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.True(t, result.Files[0].Written, "dry run reports the output would change")
	assert.NoFileExists(t, filepath.Join(dir, "a.html"))
}

func TestRunner_Run_DryRunDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"new.md":    "fresh",
		"old.md":    "# Title\n\nafter",
		"old.html":  "<h1>Title</h1>\n\n<p>before</p>\n",
		"same.md":   "same",
		"same.html": "<p>same</p>\n",
	})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, DryRun: true, Diff: true})
	require.NoError(t, err)
	require.Len(t, result.Files, 3)

	created := result.Files[0]
	assert.Contains(t, created.Diff, "--- /dev/null\n")
	assert.Contains(t, created.Diff, "+<p>fresh</p>\n")

	changed := result.Files[1]
	assert.Contains(t, changed.Diff, "-<p>before</p>\n")
	assert.Contains(t, changed.Diff, "+<p>after</p>\n")
	assert.Contains(t, changed.Diff, " <h1>Title</h1>\n")

	assert.False(t, result.Files[2].Written)
	assert.Empty(t, result.Files[2].Diff)
	assert.Equal(t, "<h1>Title</h1>\n\n<p>before</p>\n", readFile(t, filepath.Join(dir, "old.html")))
	assert.NoFileExists(t, filepath.Join(dir, "new.html"))
}

func TestRunner_Run_Document(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"notes.md": "# Hello & bye\n\ntext"})

	_, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Document:   config.DocumentConfig{Enabled: true, Lang: "en", Stylesheet: "site.css"},
	})
	require.NoError(t, err)

	page := readFile(t, filepath.Join(dir, "notes.html"))
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, `<html lang="en">`)
	assert.Contains(t, page, "<title>Hello &amp; bye</title>")
	assert.Contains(t, page, `<link rel="stylesheet" href="site.css">`)
	assert.Contains(t, page, "<h1>Hello &amp; bye</h1>\n\n<p>text</p>")
}

func TestRunner_Run_Cache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "x^2 y"})

	c, err := cache.Open(filepath.Join(t.TempDir(), "render.db"))
	require.NoError(t, err)
	defer c.Close()

	var calls atomic.Int32
	r := runner.NewWithConverter(func(md string) (string, error) {
		calls.Add(1)
		return redditmd.Convert(md)
	})
	opts := runner.Options{WorkingDir: dir, Cache: c}

	result, err := r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Files[0].Cached)

	result, err = r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, result.Files[0].Cached)
	assert.Equal(t, 1, result.Stats.FilesCached)
	assert.Equal(t, int32(1), calls.Load())

	opts.Force = true
	result, err = r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Files[0].Cached)
	assert.True(t, result.Files[0].Written)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "<p>x<sup>2</sup> y</p>\n", readFile(t, filepath.Join(dir, "a.html")))
}

func TestRunner_Run_ConvertError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"good.md": "ok", "bad.md": "boom"})

	errBoom := errors.New("boom")
	r := runner.NewWithConverter(func(md string) (string, error) {
		if md == "boom" {
			return "", errBoom
		}
		return redditmd.Convert(md)
	})

	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesRendered)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(dir, "bad.md"), failed[0].Path)
	require.ErrorIs(t, failed[0].Error, errBoom)
	assert.NoFileExists(t, filepath.Join(dir, "bad.html"))
}

func TestRunner_Run_WriteError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "text"})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a.html"), 0o755))

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FilesErrored)
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("f%02d.md", i)] = fmt.Sprintf("# Doc %d\n\n*item* %d", i, i)
	}

	run := func(jobs int) []string {
		dir := t.TempDir()
		writeTree(t, dir, files)
		result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: jobs})
		require.NoError(t, err)

		var out []string
		for _, f := range result.Files {
			out = append(out, filepath.Base(f.Path)+"="+readFile(t, f.Output))
		}
		return out
	}

	assert.Equal(t, run(1), run(8))
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New().Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"drafts/**"}
	cfg.OutDir = "site"
	cfg.Jobs = 2
	cfg.Force = true

	opts := runner.OptionsFromConfig(cfg, []string{"docs"})
	assert.Equal(t, []string{"docs"}, opts.Paths)
	assert.Equal(t, cfg.Ignore, opts.ExcludeGlobs)
	assert.Equal(t, "site", opts.OutDir)
	assert.Equal(t, 2, opts.Jobs)
	assert.True(t, opts.Force)
	assert.Equal(t, cfg.Document, opts.Document)
}
