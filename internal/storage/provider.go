// Package storage defines the file-system operations fdn performs on entries.
package storage

// Kind is the type of a file-system entry.
type Kind int

const (
	KindOther Kind = iota
	KindFile
	KindDir
)

// Provider is the interface for renaming entries in place.
type Provider interface {
	// Kind reports whether path is a regular file, a directory or something else.
	Kind(path string) (Kind, error)
	// Rename renames the entry at path to newName inside the same directory
	// and returns the new absolute path.
	Rename(path, newName string) (string, error)
}
