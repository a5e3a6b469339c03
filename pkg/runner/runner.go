package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/snoomark/internal/logging"
	"github.com/yaklabco/snoomark/pkg/cache"
	"github.com/yaklabco/snoomark/pkg/fsutil"
	"github.com/yaklabco/snoomark/pkg/redditmd"
)

// ErrSourceChanged is reported for a file modified while it was rendered.
var ErrSourceChanged = errors.New("source changed during render")

// convertFunc turns markdown into an HTML fragment.
type convertFunc func(markdown string) (string, error)

// Runner renders files concurrently.
type Runner struct {
	convert convertFunc
}

// New creates a Runner using redditmd.Convert.
func New() *Runner {
	return &Runner{convert: redditmd.Convert}
}

func newWithConverter(convert convertFunc) *Runner {
	return &Runner{convert: convert}
}

// Run discovers files under opts.Paths and renders them with a worker
// pool. Per-file failures are recorded in the result; the returned error
// is reserved for discovery failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logging.FromContext(ctx).Debug("rendering",
		logging.FieldFiles, len(files),
		logging.FieldJobs, jobs,
		logging.FieldDryRun, opts.DryRun,
		logging.FieldCache, opts.Cache != nil,
	)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range workCh {
				outcome := r.renderFile(ctx, path, workDir, opts)
				select {
				case <-ctx.Done():
					return
				case outCh <- outcome:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; index by path and rebuild in file order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

// renderFile runs the per-file pipeline: read, cache lookup, convert,
// optional page wrapper, then an atomic write of changed output.
func (r *Runner) renderFile(ctx context.Context, path, workDir string, opts Options) FileOutcome {
	start := time.Now()
	logger := logging.FromContext(ctx)
	outcome := FileOutcome{Path: path, Output: OutputPath(path, workDir, opts.OutDir)}

	fail := func(err error) FileOutcome {
		outcome.Error = err
		outcome.Duration = time.Since(start)
		logger.Debug("render failed", logging.FieldPath, path, logging.FieldError, err)
		return outcome
	}

	src, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fail(err)
	}

	out, cached, err := r.produce(path, src, opts)
	if err != nil {
		return fail(err)
	}
	outcome.Bytes = len(out)
	outcome.Cached = cached

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return fail(err)
	}
	if modified {
		return fail(fmt.Errorf("%w: %s", ErrSourceChanged, path))
	}

	switch {
	case opts.DryRun:
		existing, rerr := os.ReadFile(outcome.Output)
		outcome.Written = rerr != nil || string(existing) != string(out)
		if opts.Diff && outcome.Written {
			diff, err := unifiedDiff(outcome.Output, existing, rerr == nil, out)
			if err != nil {
				return fail(fmt.Errorf("diff %s: %w", outcome.Output, err))
			}
			outcome.Diff = diff
		}
	case opts.Force:
		if err := fsutil.WriteAtomic(ctx, outcome.Output, out, 0); err != nil {
			return fail(err)
		}
		outcome.Written = true
	default:
		written, err := fsutil.WriteAtomicIfChanged(ctx, outcome.Output, out, 0)
		if err != nil {
			return fail(err)
		}
		outcome.Written = written
	}

	outcome.Duration = time.Since(start)
	logger.Debug("rendered",
		logging.FieldPath, path,
		logging.FieldOutput, outcome.Output,
		logging.FieldBytes, outcome.Bytes,
		logging.FieldCached, cached,
		logging.FieldDuration, outcome.Duration,
	)
	return outcome
}

// produce returns the final HTML for src, from the cache when possible.
func (r *Runner) produce(path string, src []byte, opts Options) ([]byte, bool, error) {
	key := cache.NewKey(cacheVariant(opts, path), src)
	if opts.Cache != nil && !opts.Force {
		if out, ok, err := opts.Cache.Get(key); err != nil {
			return nil, false, err
		} else if ok {
			return out, true, nil
		}
	}

	fragment, err := r.convert(string(src))
	if err != nil {
		return nil, false, fmt.Errorf("convert %s: %w", path, err)
	}
	if opts.Document.Enabled {
		base := filepath.Base(path)
		fragment = WrapDocument(fragment, opts.Document, base[:len(base)-len(filepath.Ext(base))])
	} else {
		fragment += "\n"
	}

	out := []byte(fragment)
	if opts.Cache != nil {
		if err := opts.Cache.Put(key, out); err != nil {
			return nil, false, err
		}
	}
	return out, false, nil
}

// cacheVariant distinguishes cached renderings by the options that shape
// the output. Without a configured title the page title may come from the
// file name, so the name becomes part of the variant.
func cacheVariant(opts Options, path string) string {
	if !opts.Document.Enabled {
		return "fragment"
	}
	d := opts.Document
	v := "document\x00" + d.Title + "\x00" + d.Stylesheet + "\x00" + d.Lang
	if d.Title == "" {
		v += "\x00" + filepath.Base(path)
	}
	return v
}
