package internal

import (
	"io"
	"log/slog"
)

// Option is a functional option for configuring the application.
type Option func(*App)

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithOutput sets where rename diffs and listings are written.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.stdout = w
	}
}

// WithLogger replaces the stderr text logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}
