package goldmark

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// ErrFrontMatterPattern indicates an invalid custom front matter expression.
var ErrFrontMatterPattern = errors.New("invalid front matter pattern")

// defaultFrontMatter matches YAML ("---"), TOML ("+++") and JSON ("{")
// blocks at the very start of the document, including the closing line's
// terminator.
//
//nolint:gochecknoglobals // Compiled once, read-only.
var defaultFrontMatter = regexp.MustCompile(
	`\A(?:` +
		`---[ \t]*\r?\n(?:.*\r?\n)*?---[ \t]*` +
		`|\+\+\+[ \t]*\r?\n(?:.*\r?\n)*?(?:\+\+\+|\.\.\.)[ \t]*` +
		`|\{[ \t]*\r?\n(?:.*\r?\n)*?\}[ \t]*` +
		`)(?:\r?\n|\z)`,
)

// FindFrontMatter returns the range of the front matter block at the start
// of content, or nil when there is none. A non-empty pattern replaces the
// built-in detection; its match must begin at offset 0.
func FindFrontMatter(content []byte, pattern string) (*mdast.SourceRange, error) {
	re := defaultFrontMatter
	if pattern != "" {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFrontMatterPattern, err)
		}
		re = compiled
	}

	loc := re.FindIndex(content)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return nil, nil //nolint:nilnil // No front matter is not an error.
	}

	return &mdast.SourceRange{StartOffset: 0, EndOffset: loc[1]}, nil
}
