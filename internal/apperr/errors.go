// Package apperr defines the error taxonomy shared by every fdn component.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrTraversal marks an entry that could not be visited. Traversal errors are skipped.
	ErrTraversal = errors.New("traversal error")
	// ErrEncoding marks a path component that is not valid UTF-8 text.
	ErrEncoding = errors.New("encoding error")
	// ErrStore marks a failure of the backing store. It aborts the whole invocation.
	ErrStore = errors.New("store error")
	// ErrCrypto marks a history entry that cannot be decrypted with the current name.
	ErrCrypto = errors.New("crypto error")
	// ErrRename marks a native rename failure.
	ErrRename = errors.New("rename error")
)

// Fatal reports whether err must stop the whole batch rather than a single entry.
func Fatal(err error) bool {
	return errors.Is(err, ErrStore)
}
