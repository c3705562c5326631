package tui

import "github.com/Veraticus/aneks/internal/tui/themes"

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Width       int
	Height      int
	FlaggedOnly bool
	AltScreen   bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Width:     100,
		Height:    30,
		AltScreen: true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithFlaggedOnly starts the browser filtered to flagged clients.
func WithFlaggedOnly(enabled bool) Option {
	return func(c *Config) {
		c.FlaggedOnly = enabled
	}
}

// WithAltScreen controls whether the browser takes over the terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
