package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a file, given its slash-separated path relative to
// the walk root, should be returned by MatchFiles.
type Matcher func(rel string) bool

// GlobMatcher returns a Matcher accepting paths that match any of the
// doublestar patterns (for example "**/*.ts").
func GlobMatcher(patterns []string) (Matcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("at least one include pattern is required")
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q", p)
		}
	}

	return func(rel string) bool {
		for _, p := range patterns {
			// Patterns were validated above, so Match cannot fail.
			if ok, _ := doublestar.Match(p, rel); ok {
				return true
			}
		}
		return false
	}, nil
}

// SuffixMatcher returns a Matcher accepting paths whose base name ends in
// one of the given suffixes.
func SuffixMatcher(suffixes []string) Matcher {
	return func(rel string) bool {
		name := path.Base(rel)
		for _, s := range suffixes {
			if strings.HasSuffix(name, s) {
				return true
			}
		}
		return false
	}
}

// MatchFiles walks root recursively and returns the slash-separated relative
// paths of regular files accepted by match, in lexical order. A symlink is
// returned when it resolves to a regular file; symlinked directories are not
// descended into and dangling links are ignored.
func MatchFiles(root string, match Matcher) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !isRegularFile(p, d) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if match(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return files, nil
}

// isRegularFile reports whether d is a regular file, following symlinks.
func isRegularFile(p string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
