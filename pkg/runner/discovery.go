package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// matcher decides which paths take part in a run.
type matcher struct {
	workDir    string
	extensions []string
	exclude    []string
	// outDir is skipped during walks so a previous run's output tree is
	// never treated as input.
	outDir string
}

func newMatcher(workDir string, opts Options) matcher {
	m := matcher{
		workDir: workDir,
		exclude: opts.ExcludeGlobs,
	}
	for _, ext := range opts.effectiveExtensions() {
		m.extensions = append(m.extensions, strings.ToLower(ext))
	}
	if opts.OutDir != "" {
		m.outDir = absUnder(workDir, opts.OutDir)
	}
	return m
}

func absUnder(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workDir, path)
}

func (m matcher) rel(path string) string {
	rel, err := filepath.Rel(m.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (m matcher) excluded(path string) bool {
	rel := m.rel(path)
	for _, pattern := range m.exclude {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

func (m matcher) skipDir(path, root string) bool {
	if path == root {
		return false
	}
	return strings.HasPrefix(filepath.Base(path), ".") || path == m.outDir || m.excluded(path)
}

func (m matcher) matchFile(path string) bool {
	return slices.Contains(m.extensions, strings.ToLower(filepath.Ext(path))) && !m.excluded(path)
}

// Discover finds the markdown files selected by opts. It returns absolute
// paths, deduplicated and sorted.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m := newMatcher(workDir, opts)
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := absUnder(workDir, input)
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			// Explicitly named files only need the extension and ignore checks.
			if m.matchFile(absPath) {
				add(absPath)
			}
			continue
		}

		found, err := m.walk(ctx, absPath, opts.FollowSymlinks)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walk collects matching files under root. Hidden entries are skipped;
// symlinked directories are walked through their target when follow is set.
func (m matcher) walk(ctx context.Context, root string, follow bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if m.skipDir(path, root) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				// Broken or inaccessible link.
				return nil //nolint:nilerr // Intentionally skip unusable symlinks
			}
			if target.IsDir() {
				if !follow || m.skipDir(path, root) {
					return nil
				}
				real, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // Intentionally skip unusable symlinks
				}
				// Walk the target; WalkDir does not descend through links.
				sub, err := m.walk(ctx, real, follow)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if m.matchFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// matchGlob matches a slash-separated relative path against pattern.
// Patterns without a slash also match the base name alone.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if strings.Contains(pattern, "**") {
		return matchDoubleStar(strings.Split(path, "/"), strings.Split(pattern, "/"))
	}

	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	ok, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && ok
}

// matchDoubleStar matches path segments against pattern segments, where a
// "**" segment consumes zero or more path segments. A pattern that matches
// a directory also matches everything below it.
func matchDoubleStar(path, pattern []string) bool {
	if len(pattern) == 0 {
		return true
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(path); i++ {
			if matchDoubleStar(path[i:], pattern[1:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	ok, err := filepath.Match(pattern[0], path[0])
	if err != nil || !ok {
		return false
	}
	return matchDoubleStar(path[1:], pattern[1:])
}
