//go:build !windows

package selector

import (
	"path/filepath"
	"strings"
)

// IsHidden reports whether the final component of path starts with a dot.
func IsHidden(path string) bool {
	name := filepath.Base(path)
	return name != "." && name != ".." && strings.HasPrefix(name, ".")
}
