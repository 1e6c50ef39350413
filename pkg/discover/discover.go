// Package discover locates POM files under a directory tree using
// doublestar glob patterns.
package discover

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pomgrid/pomgrid/pkg/errors"
)

// DefaultPattern matches every pom.xml in the tree, including one at
// the root itself.
const DefaultPattern = "**/pom.xml"

// DefaultExcludes skips build output and vendored frontend trees,
// which routinely contain copied POMs that are not part of the
// workspace.
var DefaultExcludes = []string{
	"**/target/**",
	"**/node_modules/**",
}

// Discover returns the absolute paths of all files under root that
// match pattern and none of the exclude patterns. Results are sorted
// so downstream processing is deterministic. An empty pattern falls
// back to DefaultPattern; excludes are used as given (callers pass
// DefaultExcludes explicitly when they want them).
func Discover(root, pattern string, excludes []string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if err := errors.ValidatePattern(pattern); err != nil {
		return nil, err
	}
	for _, ex := range excludes {
		if err := errors.ValidatePattern(ex); err != nil {
			return nil, err
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve scan root %s", root)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "scan root does not exist: %s", root)
		}
		return nil, errors.Wrap(errors.ErrCodePermissionDenied, err, "stat scan root %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "scan root is not a directory: %s", root)
	}

	matches, err := doublestar.Glob(os.DirFS(absRoot), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "glob %q", pattern)
	}

	var paths []string
	for _, match := range matches {
		if excluded(match, excludes) {
			continue
		}
		paths = append(paths, filepath.Join(absRoot, filepath.FromSlash(match)))
	}
	sort.Strings(paths)
	return paths, nil
}

// excluded reports whether the slash-separated relative path matches
// any exclude pattern. Patterns were validated up front, so the
// unvalidated matcher is safe here.
func excluded(path string, excludes []string) bool {
	for _, ex := range excludes {
		if doublestar.MatchUnvalidated(ex, path) {
			return true
		}
	}
	return false
}
