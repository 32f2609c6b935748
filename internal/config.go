package internal

import (
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fdn/internal/ledger"
	"github.com/starford/fdn/internal/rules"
)

// Color settings.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Rules   RulesConfig       `yaml:"rules"`
	History HistoryConfig     `yaml:"history"`
	Display DisplayConfig     `yaml:"display"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	if err := c.History.Validate(); err != nil {
		return err
	}
	return c.Display.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// RulesConfig tunes the transformation pipeline.
type RulesConfig struct {
	MaxPasses int `yaml:"max_passes"`
	// SeedToSepWords are stored once when the database is created.
	SeedToSepWords []string `yaml:"seed_to_sep_words"`
}

// Validate validates the rules configuration.
func (c *RulesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxPasses, validation.Required, validation.Min(1)),
		validation.Field(&c.SeedToSepWords, validation.Each(validation.Required)),
	)
}

// HistoryConfig holds rename history configuration.
type HistoryConfig struct {
	MaxChainDepth int `yaml:"max_chain_depth"`
}

// Validate validates the history configuration.
func (c *HistoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxChainDepth, validation.Required, validation.Min(1)),
	)
}

// DisplayConfig controls diff output.
type DisplayConfig struct {
	Color string `yaml:"color"`
	Align bool   `yaml:"align"`
}

// Validate validates the display configuration.
func (c *DisplayConfig) Validate() error {
	if c.Color == "" {
		c.Color = ColorAuto
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Color, validation.In(ColorAuto, ColorAlways, ColorNever)),
	)
}

// DefaultConfigFile returns the config path under the XDG config home.
func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "fdn", "config.yaml")
}

// DefaultDBPath returns the database path under the XDG data home.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "fdn", "fdn.db")
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		SQLite: SQLiteConfig{
			Path: DefaultDBPath(),
		},
		Rules: RulesConfig{
			MaxPasses:      rules.DefaultMaxPasses,
			SeedToSepWords: []string{" "},
		},
		History: HistoryConfig{
			MaxChainDepth: ledger.DefaultMaxChainDepth,
		},
		Display: DisplayConfig{
			Color: ColorAuto,
		},
	}
}
