// Package watcher normalizes entries as they appear under a directory.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/fdn/internal/apperr"
	"github.com/starford/fdn/internal/selector"
)

// DefaultSettle is how long the watcher waits after the last event before
// handling the entries that appeared.
const DefaultSettle = 200 * time.Millisecond

// Handler processes one new entry.
type Handler func(path string) error

// Options restricts which entries reach the handler.
type Options struct {
	MaxDepth      int
	Type          selector.Type
	IncludeHidden bool
	Excludes      []string
	// Settle overrides DefaultSettle when positive.
	Settle time.Duration
}

// Watch runs until ctx is cancelled, passing every created entry that
// matches opts to handle. Events are debounced and the collected entries are
// handled deepest first. New directories within MaxDepth are watched too,
// and entries already inside them are handled.
//
// A handler error is logged and the watch continues, except for store
// failures which stop the watch and are returned.
func Watch(ctx context.Context, root string, opts Options, logger *slog.Logger, handle Handler) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	// fsnotify reports paths under the directory actually watched.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	ex := selector.NewMatcher(abs, opts.Excludes)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirs(w, abs, abs, opts, ex); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", abs), slog.Int("max_depth", opts.MaxDepth))

	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(settle)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settle)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			selector.SortDeepestFirst(paths)
			for _, p := range paths {
				if err := handle(p); err != nil {
					if apperr.Fatal(err) {
						return err
					}
					logger.Warn("watcher: handle failed", slog.String("path", p), slog.String("error", err.Error()))
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			p := ev.Name

			switch {
			case ev.Op&fsnotify.Create != 0:
				if ex.Match(p) || (!opts.IncludeHidden && selector.IsHidden(p)) {
					continue
				}
				info, statErr := os.Lstat(p)
				if statErr != nil {
					continue
				}
				depth := selector.DepthBelow(abs, p)
				if depth > opts.MaxDepth {
					continue
				}

				if info.IsDir() {
					if depth < opts.MaxDepth {
						if addErr := addDirs(w, abs, p, opts, ex); addErr != nil {
							logger.Warn("watcher: add new dir failed",
								slog.String("path", p),
								slog.String("error", addErr.Error()))
						} else {
							logger.Debug("watcher: watching new dir", slog.String("path", p))
						}
						queueExisting(abs, p, depth, opts, pending, logger)
					}
				}
				if matches(info, opts.Type) {
					pending[p] = struct{}{}
				}
				schedule()

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, p)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func matches(info fs.FileInfo, t selector.Type) bool {
	if t == selector.TypeDirectory {
		return info.IsDir()
	}
	return info.Mode().IsRegular()
}

// queueExisting adds entries already present in a new directory.
func queueExisting(root, dir string, depth int, opts Options, pending map[string]struct{}, logger *slog.Logger) {
	found, err := selector.Select(dir, selector.Options{
		MaxDepth:      opts.MaxDepth - depth,
		Type:          opts.Type,
		IncludeHidden: opts.IncludeHidden,
		Excludes:      opts.Excludes,
		Logger:        logger,
	})
	if err != nil {
		logger.Debug("watcher: scan new dir failed", slog.String("path", dir), slog.String("error", err.Error()))
		return
	}
	for _, p := range found {
		pending[p] = struct{}{}
	}
}

// addDirs watches dir and every directory below it that can still have
// children within MaxDepth of root.
func addDirs(w *fsnotify.Watcher, root, dir string, opts Options, ex selector.Matcher) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root {
			if ex.Match(path) || (!opts.IncludeHidden && selector.IsHidden(path)) {
				return filepath.SkipDir
			}
			if selector.DepthBelow(root, path) >= opts.MaxDepth {
				return filepath.SkipDir
			}
		}
		return w.Add(path)
	})
}
