// Package selector enumerates the files or directories a batch operates on.
package selector

import (
	"cmp"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/fdn/internal/apperr"
)

// Type selects regular files or directories.
type Type int

const (
	TypeFile Type = iota
	TypeDirectory
)

func (t Type) String() string {
	if t == TypeDirectory {
		return "d"
	}
	return "f"
}

// ParseType accepts "f"/"file" and "d"/"dir"/"directory".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "f", "file":
		return TypeFile, nil
	case "d", "dir", "directory":
		return TypeDirectory, nil
	}
	return TypeFile, fmt.Errorf("selector: unknown file type %q: %w", s, apperr.ErrInvalidInput)
}

// Options configures Select.
type Options struct {
	// MaxDepth limits descent: the root is depth 0, its children depth 1.
	MaxDepth int
	// Excludes holds path prefixes or doublestar globs.
	Excludes      []string
	Type          Type
	IncludeHidden bool
	Logger        *slog.Logger
}

// Select returns the absolute paths under root that match opts. A file root
// yields itself in file mode. Directory results never include the root and
// are ordered deepest first (see SortDeepestFirst); file results are sorted.
//
// Entries that cannot be visited are skipped; only a root that cannot be
// inspected is an error.
func Select(root string, opts Options) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("selector: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("selector: stat root: %w", err)
	}
	ex := NewMatcher(abs, opts.Excludes)

	if !info.IsDir() {
		if opts.Type == TypeDirectory {
			return nil, fmt.Errorf("selector: %s is not a directory: %w", abs, apperr.ErrInvalidInput)
		}
		if ex.Match(abs) || (!opts.IncludeHidden && IsHidden(abs)) {
			return []string{}, nil
		}
		return []string{abs}, nil
	}

	// WalkDir does not descend into a root that is a symlink, so walk the
	// target and report paths under the root as given.
	walkRoot := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		walkRoot = resolved
	}

	out := []string{}
	walkErr := filepath.WalkDir(walkRoot, func(wp string, d fs.DirEntry, err error) error {
		if wp == walkRoot {
			if err != nil {
				return err
			}
			if opts.MaxDepth <= 0 {
				return filepath.SkipDir
			}
			return nil
		}
		p := underRoot(abs, walkRoot, wp)
		if err != nil {
			logger.Debug("selector: skipped entry",
				slog.String("path", p),
				slog.String("error", fmt.Errorf("%w: %w", apperr.ErrTraversal, err).Error()))
			return nil
		}

		depth := DepthBelow(abs, p)
		if ex.Match(p) || (!opts.IncludeHidden && IsHidden(p)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case opts.Type == TypeFile && d.Type().IsRegular():
			out = append(out, p)
		case opts.Type == TypeDirectory && d.IsDir():
			out = append(out, p)
		}

		if d.IsDir() && depth >= opts.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("selector: walk %s: %w", abs, walkErr)
	}

	if opts.Type == TypeDirectory {
		SortDeepestFirst(out)
	} else {
		slices.Sort(out)
	}
	return out, nil
}

// underRoot maps a path found below walkRoot to the same entry below root.
func underRoot(root, walkRoot, p string) string {
	if root == walkRoot {
		return p
	}
	rel, err := filepath.Rel(walkRoot, p)
	if err != nil {
		return p
	}
	return filepath.Join(root, rel)
}

// SortDeepestFirst orders paths in reverse lexicographic order, ties broken
// by longer length first. A directory always sorts after everything nested
// inside it, so renaming it never invalidates a path still to be visited.
func SortDeepestFirst(paths []string) {
	slices.SortStableFunc(paths, func(a, b string) int {
		if c := strings.Compare(b, a); c != 0 {
			return c
		}
		return cmp.Compare(len(b), len(a))
	})
}

// DepthBelow returns how many levels p lies under root; children of root
// are at depth 1.
func DepthBelow(root, p string) int {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}

// Matcher decides whether a path is excluded. Plain entries are absolute
// path prefixes compared by whole components; entries containing glob
// metacharacters are doublestar patterns matched against the path relative
// to the root and against the absolute path.
type Matcher struct {
	root     string
	prefixes []string
	globs    []string
}

// NewMatcher builds a Matcher for paths under root.
func NewMatcher(root string, excludes []string) Matcher {
	ex := Matcher{root: root}
	for _, e := range excludes {
		if e == "" {
			continue
		}
		if strings.ContainsAny(e, "*?[{") {
			ex.globs = append(ex.globs, strings.TrimPrefix(filepath.ToSlash(e), "./"))
			continue
		}
		abs, err := filepath.Abs(e)
		if err != nil {
			continue
		}
		ex.prefixes = append(ex.prefixes, abs)
	}
	return ex
}

// Match reports whether p is excluded.
func (ex Matcher) Match(p string) bool {
	for _, pre := range ex.prefixes {
		if hasPathPrefix(p, pre) {
			return true
		}
	}
	if len(ex.globs) == 0 {
		return false
	}
	slashed := filepath.ToSlash(p)
	rel, err := filepath.Rel(ex.root, p)
	if err != nil {
		rel = p
	}
	rel = filepath.ToSlash(rel)
	for _, g := range ex.globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, slashed); ok {
			return true
		}
	}
	return false
}

// hasPathPrefix compares whole path components: /r/ab does not start with /r/a.
func hasPathPrefix(p, prefix string) bool {
	if p == prefix {
		return true
	}
	sep := string(os.PathSeparator)
	return strings.HasPrefix(p, strings.TrimSuffix(prefix, sep)+sep)
}
