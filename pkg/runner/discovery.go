package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoMatch indicates a path argument that is neither an existing path nor
// a glob matching any file.
var ErrNoMatch = errors.New("no such file or matching pattern")

// skippedDirs are never descended into.
//
//nolint:gochecknoglobals // Read-only lookup table.
var skippedDirs = map[string]bool{"node_modules": true}

// Discover finds Markdown files matching opts under the working directory.
// It returns a deterministically sorted list of absolute file paths.
//
// An argument naming an existing file is processed if it has a Markdown
// extension and is not excluded. A directory is walked. Anything else is a
// glob pattern matched against paths below the working directory.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	ignores := slices.Clone(opts.Ignores)
	if opts.Gitignore {
		fromGit, err := readGitignore(workDir)
		if err != nil {
			return nil, err
		}
		ignores = append(ignores, fromGit...)
	}

	patterns, err := newPatternSet(opts.Globs, ignores)
	if err != nil {
		return nil, err
	}

	walker := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		patterns:   patterns,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := walker.add(input); err != nil {
			return nil, err
		}
	}

	slices.Sort(walker.files)
	return walker.files, nil
}

type walker struct {
	ctx        context.Context
	workDir    string
	extensions []string
	patterns   *patternSet
	follow     bool
	seen       map[string]struct{}
	files      []string
}

func (w *walker) add(input string) error {
	select {
	case <-w.ctx.Done():
		return fmt.Errorf("discovery cancelled: %w", w.ctx.Err())
	default:
	}

	absPath := input
	if !filepath.IsAbs(input) {
		absPath = filepath.Join(w.workDir, input)
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	switch {
	case err == nil && info.IsDir():
		return w.walk(absPath, nil)
	case err == nil:
		if w.matchesFile(absPath, nil) {
			w.keep(absPath)
		}
		return nil
	case !isGlob(input):
		return fmt.Errorf("stat %s: %w", input, err)
	}

	extra, err := compilePattern(input)
	if err != nil {
		return err
	}

	before := len(w.files)
	if err := w.walk(w.workDir, &extra); err != nil {
		return err
	}
	if len(w.files) == before && !w.anySeenMatches(extra) {
		return fmt.Errorf("%w: %s", ErrNoMatch, input)
	}
	return nil
}

// walk collects Markdown files under root. A non-nil only pattern further
// restricts the files kept.
func (w *walker) walk(root string, only *pattern) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || skippedDirs[entry.Name()] {
				return filepath.SkipDir
			}
			if w.patterns.excluded(w.rel(path), true) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Inaccessible targets are skipped.
			}
			if info.IsDir() {
				if !w.follow {
					return nil
				}
				// Walk the target: WalkDir does not follow a symlinked root.
				return w.walk(realPath, only)
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if w.matchesFile(path, only) {
			w.keep(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}

	return nil
}

func (w *walker) matchesFile(path string, only *pattern) bool {
	if !hasMatchingExtension(path, w.extensions) {
		return false
	}

	rel := w.rel(path)
	if w.patterns.excluded(rel, false) || !w.patterns.included(rel) {
		return false
	}
	return only == nil || only.match(rel, false)
}

func (w *walker) keep(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) anySeenMatches(p pattern) bool {
	for path := range w.seen {
		if p.match(w.rel(path), false) {
			return true
		}
	}
	return false
}

// rel returns path relative to the working directory, slash-separated.
func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
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

func hasMatchingExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func isGlob(input string) bool {
	return strings.ContainsAny(input, "*?[{")
}
