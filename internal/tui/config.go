package tui

import (
	"context"

	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scan"
	"github.com/Veraticus/pym/internal/service"
)

// Scanner runs scans.
type Scanner interface {
	Run(ctx context.Context, text string, labeler service.Labeler) (scan.Outcome, error)
	Busy() bool
}

// History is the subset of the history manager the UI drives.
type History interface {
	List() []model.ScanRecord
	Rename(ctx context.Context, id int64, label string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Clear(ctx context.Context) error
}

// ThemeStore persists the selected theme.
type ThemeStore interface {
	SetTheme(ctx context.Context, name string) (model.Theme, error)
}

// Config holds TUI configuration.
type Config struct {
	Scanner  Scanner
	History  History
	Themes   ThemeStore
	Theme    model.Theme
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    model.DefaultTheme,
		Width:    100,
		Height:   30,
		ShowHelp: true,
	}
}

// WithScanner sets the scan orchestrator.
func WithScanner(s Scanner) Option {
	return func(c *Config) {
		c.Scanner = s
	}
}

// WithHistory sets the history manager.
func WithHistory(h History) Option {
	return func(c *Config) {
		c.History = h
	}
}

// WithThemeStore sets where theme changes are saved.
func WithThemeStore(s ThemeStore) Option {
	return func(c *Config) {
		c.Themes = s
	}
}

// WithTheme sets the initial theme.
func WithTheme(theme model.Theme) Option {
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
