// Package renamer runs rename batches: forward normalization, literal moves
// and reversal through the history ledger.
package renamer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"unicode/utf8"

	"github.com/starford/fdn/internal/apperr"
	"github.com/starford/fdn/internal/ledger"
	"github.com/starford/fdn/internal/models"
	"github.com/starford/fdn/internal/rules"
	"github.com/starford/fdn/internal/storage"
)

// History is the part of the ledger a batch uses.
type History interface {
	Record(oldName, newName string) (models.Record, error)
	ResolvePrevious(current string) (*ledger.Entry, error)
	ResolveUnused(current string, used ledger.Pending) (*ledger.Entry, error)
	Consume(rec models.Record) error
}

// Presenter displays one processed entry.
type Presenter interface {
	Show(original, edited string, applied bool) error
}

// Options controls a batch.
type Options struct {
	// Apply performs renames; otherwise the batch only previews them.
	Apply bool
	// Chain makes Reverse walk back through every recorded step.
	Chain bool
	// MaxChainDepth caps a chain walk; zero means ledger.DefaultMaxChainDepth.
	MaxChainDepth int
}

// Renamer executes batches. It is not safe for concurrent use.
type Renamer struct {
	fs      storage.Provider
	history History
	out     Presenter
	logger  *slog.Logger
}

// New creates a Renamer.
func New(fs storage.Provider, history History, out Presenter, logger *slog.Logger) *Renamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renamer{fs: fs, history: history, out: out, logger: logger}
}

// Forward normalizes the bare name of every path with rs. Entry failures are
// logged and collected while the batch continues; a store failure aborts it.
func (r *Renamer) Forward(paths []string, rs rules.Rules, opts Options) error {
	return r.batch(paths, func(p string) error {
		return r.Normalize(p, rs, opts.Apply)
	})
}

// Reverse undoes the last recorded rename of every path, or the whole chain
// of renames when opts.Chain is set.
func (r *Renamer) Reverse(paths []string, opts Options) error {
	return r.batch(paths, func(p string) error {
		return r.reverseOne(p, opts)
	})
}

// Normalize renames a single entry to its rules target. Nothing happens when
// the name is already normalized.
func (r *Renamer) Normalize(path string, rs rules.Rules, apply bool) error {
	name, err := bareName(path)
	if err != nil {
		return err
	}
	kind, err := r.fs.Kind(path)
	if err != nil {
		return fmt.Errorf("renamer: %s: %w: %w", path, apperr.ErrTraversal, err)
	}
	edited := rs.Target(name, kind != storage.KindDir)
	if edited == name {
		return nil
	}
	return r.rename(path, name, edited, apply)
}

// Move renames source to the literal target name, bypassing the rules. The
// rename is always applied and recorded.
func (r *Renamer) Move(source, target string) error {
	if err := storage.ValidateName(target); err != nil {
		return err
	}
	name, err := bareName(source)
	if err != nil {
		return err
	}
	if _, err := r.fs.Kind(source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("renamer: %s: %w", source, apperr.ErrNotFound)
		}
		return err
	}
	if name == target {
		return nil
	}
	return r.rename(source, name, target, true)
}

func (r *Renamer) rename(path, name, edited string, apply bool) error {
	if err := storage.ValidateName(edited); err != nil {
		return fmt.Errorf("renamer: %s: %w", path, err)
	}
	if apply {
		if _, err := r.fs.Rename(path, edited); err != nil {
			return err
		}
		if _, err := r.history.Record(name, edited); err != nil {
			return err
		}
		r.logger.Debug("renamer: renamed", slog.String("path", path), slog.String("name", edited))
	}
	return r.out.Show(name, edited, apply)
}

func (r *Renamer) reverseOne(path string, opts Options) error {
	name, err := bareName(path)
	if err != nil {
		return err
	}
	maxDepth := opts.MaxChainDepth
	if maxDepth <= 0 {
		maxDepth = ledger.DefaultMaxChainDepth
	}

	current := path
	used := ledger.Pending{}
	for depth := 0; ; depth++ {
		if opts.Chain && depth >= maxDepth {
			r.logger.Warn("renamer: chain depth limit reached",
				slog.String("path", current), slog.Int("max_depth", maxDepth))
			return nil
		}
		var entry *ledger.Entry
		if opts.Apply {
			entry, err = r.history.ResolvePrevious(name)
		} else {
			entry, err = r.history.ResolveUnused(name, used)
		}
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		if opts.Apply {
			next, err := r.fs.Rename(current, entry.Previous)
			if err != nil {
				return err
			}
			if err := r.history.Consume(entry.Record); err != nil {
				return err
			}
			current = next
			r.logger.Debug("renamer: restored", slog.String("path", current))
		} else {
			used.Consume(entry.Record)
		}
		if err := r.out.Show(name, entry.Previous, opts.Apply); err != nil {
			return err
		}
		if !opts.Chain {
			return nil
		}
		name = entry.Previous
	}
}

func (r *Renamer) batch(paths []string, fn func(string) error) error {
	var errs []error
	for _, p := range paths {
		err := fn(p)
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if apperr.Fatal(err) {
			return errors.Join(errs...)
		}
		r.logger.Error("renamer: entry failed", slog.String("path", p), slog.String("error", err.Error()))
	}
	return errors.Join(errs...)
}

func bareName(path string) (string, error) {
	name := filepath.Base(path)
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("renamer: %q: %w", path, apperr.ErrEncoding)
	}
	return name, nil
}
