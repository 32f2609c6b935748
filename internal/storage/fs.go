package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/fdn/internal/apperr"
)

// FS implements Provider backed by the local file system.
type FS struct{}

// NewFS creates a new FS provider.
func NewFS() *FS {
	return &FS{}
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)

// ValidateName rejects names that would move an entry out of its directory.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("storage: invalid name %q: %w", name, apperr.ErrInvalidInput)
	case strings.ContainsRune(name, '/'), strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("storage: name %q contains a path separator: %w", name, apperr.ErrInvalidInput)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("storage: name %q contains NUL: %w", name, apperr.ErrInvalidInput)
	}
	return nil
}

// Kind reports the entry type without following a final symlink.
func (f *FS) Kind(path string) (Kind, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return KindOther, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	switch {
	case info.Mode().IsRegular():
		return KindFile, nil
	case info.IsDir():
		return KindDir, nil
	}
	return KindOther, nil
}

// Rename renames path to newName within its parent directory. The native
// rename error is surfaced unchanged apart from wrapping; an existing
// target is not handled specially.
func (f *FS) Rename(path, newName string) (string, error) {
	if err := ValidateName(newName); err != nil {
		return "", err
	}
	target := filepath.Join(filepath.Dir(path), newName)
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("storage: rename %s: %w: %w", path, apperr.ErrRename, err)
	}
	return target, nil
}
