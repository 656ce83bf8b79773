package runner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// pattern is one compiled glob. Patterns without a slash also match the
// base name, so "*.md" matches at any depth.
type pattern struct {
	matcher  glob.Glob
	basename bool
	dirOnly  bool
}

func compilePattern(source string) (pattern, error) {
	expr := filepath.ToSlash(source)
	dirOnly := strings.HasSuffix(expr, "/")
	expr = strings.TrimSuffix(expr, "/")
	expr = strings.TrimPrefix(expr, "./")
	basename := !strings.Contains(expr, "/")

	// "**/" may also match nothing, so "docs/**/*.md" covers docs/a.md.
	matcher, err := glob.Compile(strings.ReplaceAll(expr, "**/", "{**/,}"), '/')
	if err != nil {
		return pattern{}, fmt.Errorf("invalid glob %q: %w", source, err)
	}

	return pattern{
		matcher:  matcher,
		basename: basename,
		dirOnly:  dirOnly,
	}, nil
}

func (p pattern) match(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if p.matcher.Match(rel) {
		return true
	}
	return p.basename && p.matcher.Match(path.Base(rel))
}

// patternSet matches slash-separated paths relative to the working directory.
type patternSet struct {
	include []pattern
	exclude []pattern
}

// newPatternSet compiles include globs and exclude patterns. In globs, a
// leading "!" marks an exclusion.
func newPatternSet(globs, ignores []string) (*patternSet, error) {
	set := &patternSet{}

	for _, source := range globs {
		negated := strings.HasPrefix(source, "!")
		compiled, err := compilePattern(strings.TrimPrefix(source, "!"))
		if err != nil {
			return nil, err
		}
		if negated {
			set.exclude = append(set.exclude, compiled)
		} else {
			set.include = append(set.include, compiled)
		}
	}

	for _, source := range ignores {
		compiled, err := compilePattern(source)
		if err != nil {
			return nil, err
		}
		set.exclude = append(set.exclude, compiled)
	}

	return set, nil
}

// excluded reports whether rel, or for a directory everything under it, is excluded.
func (s *patternSet) excluded(rel string, isDir bool) bool {
	for _, p := range s.exclude {
		if p.match(rel, isDir) {
			return true
		}
		if isDir && p.matcher.Match(rel+"/") {
			return true
		}
	}
	return false
}

// included reports whether a file passes the include globs.
func (s *patternSet) included(rel string) bool {
	if len(s.include) == 0 {
		return true
	}
	for _, p := range s.include {
		if p.match(rel, false) {
			return true
		}
	}
	return false
}

// readGitignore turns the .gitignore in dir into exclude patterns.
// Negated entries are not supported and are skipped.
func readGitignore(dir string) ([]string, error) {
	content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read .gitignore: %w", err)
	}

	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		anchored := strings.HasPrefix(line, "/")
		line = strings.TrimPrefix(line, "/")
		if !anchored && strings.Contains(strings.TrimSuffix(line, "/"), "/") {
			anchored = true
		}

		if anchored {
			patterns = append(patterns, line)
		} else {
			patterns = append(patterns, line, "**/"+line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read .gitignore: %w", err)
	}

	return patterns, nil
}
