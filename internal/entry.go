// Package internal provides the application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/fdn/internal/apperr"
	"github.com/starford/fdn/internal/diff"
	"github.com/starford/fdn/internal/ledger"
	"github.com/starford/fdn/internal/mcpserver"
	"github.com/starford/fdn/internal/namecrypt"
	"github.com/starford/fdn/internal/registry"
	"github.com/starford/fdn/internal/renamer"
	"github.com/starford/fdn/internal/selector"
	"github.com/starford/fdn/internal/storage"
	"github.com/starford/fdn/internal/store"
	"github.com/starford/fdn/internal/watcher"
)

// App holds the components of one invocation. The store connection is
// opened by Open and released by Close.
type App struct {
	config *Config
	stdout io.Writer
	logger *slog.Logger

	db       *store.DB
	Registry *registry.Registry
	Ledger   *ledger.Ledger
	Renamer  *renamer.Renamer
}

// Open initializes the application with the given options.
func Open(opts ...Option) (*App, error) {
	app := &App{stdout: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(app.logger)
	logger := app.logger

	logger.Debug("Configuration loaded",
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Int("max_passes", cfg.Rules.MaxPasses),
		slog.Int("max_chain_depth", cfg.History.MaxChainDepth))

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := db.Seed(cfg.Rules.SeedToSepWords); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed store: %w", err)
	}
	app.db = db

	mode := diff.Plain
	if cfg.Display.Align {
		mode = diff.Aligned
	}
	out, _ := app.stdout.(*os.File)
	presenter := diff.NewPresenter(app.stdout, diff.NewComparer(mode, diff.ColorEnabled(cfg.Display.Color, out)))

	app.Registry = registry.New(db, cfg.Rules.MaxPasses, logger)
	app.Ledger = ledger.New(db, namecrypt.AESGCM{}, logger)
	app.Renamer = renamer.New(storage.NewFS(), app.Ledger, presenter, logger)

	return app, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.db.Close()
}

// Output is where diffs and listings are written.
func (a *App) Output() io.Writer {
	return a.stdout
}

// RenameRequest describes one batch over one or more roots.
type RenameRequest struct {
	Roots     []string
	Selection selector.Options
	Apply     bool
	Reverse   bool
	Chain     bool
}

// Rename selects entries under every root and normalizes or reverses them.
// Failures of single roots or entries are joined into the returned error;
// a store failure stops the run.
func (a *App) Rename(req RenameRequest) error {
	sel := req.Selection
	if sel.Logger == nil {
		sel.Logger = a.logger
	}
	opts := renamer.Options{
		Apply:         req.Apply,
		Chain:         req.Chain,
		MaxChainDepth: a.config.History.MaxChainDepth,
	}

	var errs []error
	for _, root := range req.Roots {
		paths, err := selector.Select(root, sel)
		if err != nil {
			a.logger.Error("select failed", slog.String("root", root), slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		a.logger.Debug("selected entries", slog.String("root", root), slog.Int("count", len(paths)))

		if req.Reverse {
			err = a.Renamer.Reverse(paths, opts)
		} else {
			rs, rulesErr := a.Registry.Rules()
			if rulesErr != nil {
				return errors.Join(append(errs, rulesErr)...)
			}
			err = a.Renamer.Forward(paths, rs, opts)
		}
		if err != nil {
			errs = append(errs, err)
			if apperr.Fatal(err) {
				break
			}
		}
	}
	return errors.Join(errs...)
}

// Move renames source to the literal target name and records it.
func (a *App) Move(source, target string) error {
	return a.Renamer.Move(source, target)
}

// Watch normalizes entries created under root until SIGINT, SIGTERM or
// cancellation of ctx.
func (a *App) Watch(ctx context.Context, root string, sel selector.Options, apply bool) error {
	logger := a.logger
	rs, err := a.Registry.Rules()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watcher.Watch(gCtx, root, watcher.Options{
			MaxDepth:      sel.MaxDepth,
			Type:          sel.Type,
			IncludeHidden: sel.IncludeHidden,
			Excludes:      sel.Excludes,
		}, logger, func(p string) error {
			return a.Renamer.Normalize(p, rs, apply)
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ServeMCP serves the MCP tools on stdio until the client disconnects.
func (a *App) ServeMCP(version string) error {
	srv := mcpserver.New(a.Registry, a.Ledger, a.config.History.MaxChainDepth, version)
	a.logger.Debug("MCP server starting on stdio")
	return srv.ServeStdio()
}
