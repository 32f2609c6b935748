package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/fdn/internal"
	"github.com/starford/fdn/internal/registry"
	"github.com/starford/fdn/internal/selector"
	pkgconfig "github.com/starford/fdn/pkg/config"
)

// Set with -ldflags "-X main.version=... -X main.build=...".
var (
	version = "dev"
	build   = "unknown"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config-file"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if db := cmd.String("db"); db != "" {
		cfg.SQLite.Path = db
	}
	if cmd.Bool("verbose") {
		cfg.App.LogLevel = slog.LevelDebug
	}
	if color := cmd.String("color"); color != "" {
		cfg.Display.Color = color
	}
	if cmd.Bool("align") {
		cfg.Display.Align = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func openApp(cmd *cli.Command) (*internal.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	app, err := internal.Open(internal.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("app init error: %w", err)
	}
	return app, nil
}

func selection(cmd *cli.Command) (selector.Options, error) {
	t, err := selector.ParseType(cmd.String("filetype"))
	if err != nil {
		return selector.Options{}, err
	}
	return selector.Options{
		MaxDepth:      int(cmd.Int("max-depth")),
		Excludes:      cmd.StringSlice("exclude-path"),
		Type:          t,
		IncludeHidden: cmd.Bool("not-ignore-hidden"),
	}, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("version") {
		fmt.Fprintf(cmd.Root().Writer, "fdn\nVersion %s\nBuild %s\n", version, build)
		return nil
	}

	sel, err := selection(cmd)
	if err != nil {
		return err
	}
	roots := cmd.Args().Slice()
	if len(roots) == 0 {
		roots = []string{cmd.String("file-path")}
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	reverse := cmd.Bool("reverse") || cmd.Bool("reverse-chainly")
	return app.Rename(internal.RenameRequest{
		Roots:     roots,
		Selection: sel,
		Apply:     cmd.Bool("in-place"),
		Reverse:   reverse,
		Chain:     cmd.Bool("reverse-chainly"),
	})
}

func runConfig(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	reg := app.Registry
	out := app.Output()
	var touched []registry.Kind

	if cmd.IsSet("add") {
		kind, err := reg.Add(cmd.String("add"))
		if err != nil {
			return err
		}
		touched = append(touched, kind)
	}
	if cmd.IsSet("delete") {
		kind, ok, err := reg.Delete(cmd.String("delete"))
		if err != nil {
			return err
		}
		if !ok {
			slog.Warn("no matching rule", slog.String("word", cmd.String("delete")))
		}
		touched = append(touched, kind)
	}
	if cmd.IsSet("add-separator") {
		if err := reg.AddSeparator(cmd.String("add-separator")); err != nil {
			return err
		}
		touched = append(touched, registry.KindSeparator)
	}
	if cmd.IsSet("delete-separator") {
		ok, err := reg.DeleteSeparator(cmd.String("delete-separator"))
		if err != nil {
			return err
		}
		if !ok {
			slog.Warn("no matching separator", slog.String("value", cmd.String("delete-separator")))
		}
		touched = append(touched, registry.KindSeparator)
	}

	if cmd.Bool("list") || len(touched) == 0 {
		return reg.List(out)
	}
	return reg.List(out, touched...)
}

func runMove(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("mv requires SOURCE and TARGET")
	}
	if len(args) > 2 {
		slog.Warn("ignoring extra arguments", slog.Any("args", args[2:]))
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Move(args[0], args[1])
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	sel, err := selection(cmd)
	if err != nil {
		return err
	}
	root := cmd.String("file-path")
	if cmd.Args().Present() {
		root = cmd.Args().First()
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Watch(ctx, root, sel, cmd.Bool("in-place"))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.ServeMCP(version)
}

func main() {
	cmd := &cli.Command{
		Name:      "fdn",
		Usage:     "Normalize file and directory names with reversible history",
		ArgsUsage: "[PATH...]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file-path",
				Aliases: []string{"f"},
				Usage:   "Root to process when no PATH is given",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:    "in-place",
				Aliases: []string{"i"},
				Usage:   "Apply renames instead of previewing them",
			},
			&cli.IntFlag{
				Name:    "max-depth",
				Aliases: []string{"d"},
				Usage:   "Maximum traversal depth",
				Value:   1,
			},
			&cli.StringFlag{
				Name:    "filetype",
				Aliases: []string{"t"},
				Usage:   "Entry type: f (regular files) or d (directories)",
				Value:   "f",
			},
			&cli.BoolFlag{
				Name:    "not-ignore-hidden",
				Aliases: []string{"I"},
				Usage:   "Include hidden entries",
			},
			&cli.StringSliceFlag{
				Name:    "exclude-path",
				Aliases: []string{"X"},
				Usage:   "Exclude a path prefix or glob (repeatable)",
			},
			&cli.BoolFlag{
				Name:    "reverse",
				Aliases: []string{"r"},
				Usage:   "Undo the last recorded rename of each entry",
			},
			&cli.BoolFlag{
				Name:    "reverse-chainly",
				Aliases: []string{"R"},
				Usage:   "Undo every recorded rename of each entry",
			},
			&cli.BoolFlag{
				Name:    "align",
				Aliases: []string{"a"},
				Usage:   "Align original and edited names in the output",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"V"},
				Usage:   "Print version information",
			},
			&cli.StringFlag{
				Name:        "config-file",
				Usage:       "Path to config file",
				DefaultText: "$XDG_CONFIG_HOME/fdn/config.yaml",
				Value:       internal.DefaultConfigFile(),
				Sources:     cli.EnvVars("FDN_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the SQLite database",
				Sources: cli.EnvVars("FDN_DB"),
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "Colorize output: auto, always or never",
				DefaultText: "display.color from the config file, else auto",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "List or edit the naming rules",
				Action: runConfig,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "list",
						Aliases: []string{"l"},
						Usage:   "List all rule tables",
					},
					&cli.StringFlag{
						Name:    "add",
						Aliases: []string{"c"},
						Usage:   "Add a word replaced by the separator, or KEY:VALUE for a term substitution",
					},
					&cli.StringFlag{
						Name:  "delete",
						Usage: "Delete a word, or KEY:VALUE for a term substitution",
					},
					&cli.StringFlag{
						Name:  "add-separator",
						Usage: "Add a separator (the oldest one is active)",
					},
					&cli.StringFlag{
						Name:  "delete-separator",
						Usage: "Delete a separator",
					},
				},
			},
			{
				Name:      "mv",
				Usage:     "Rename SOURCE to the literal TARGET name and record it",
				ArgsUsage: "SOURCE TARGET",
				Action:    runMove,
			},
			{
				Name:      "watch",
				Usage:     "Normalize entries created under PATH until interrupted",
				ArgsUsage: "[PATH]",
				Action:    runWatch,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
