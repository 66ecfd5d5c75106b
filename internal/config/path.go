package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appDir = "pym"

// ExpandPath expands a leading ~ and $VAR references. SQLite's ":memory:"
// and other paths without either pass through unchanged.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// ConfigDir is where config.yaml is looked for: $XDG_CONFIG_HOME/pym, or
// ~/.config/pym.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir holds the database: $XDG_DATA_HOME/pym, or ~/.local/share/pym.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// DefaultDatabasePath is pym.db inside DataDir, falling back to the
// unexpanded home-relative location when no home directory is known.
func DefaultDatabasePath() string {
	dir, err := DataDir()
	if err != nil {
		return "$HOME/.local/share/pym/pym.db"
	}
	return filepath.Join(dir, "pym.db")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" && filepath.IsAbs(base) {
		return filepath.Join(base, appDir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, fallback, appDir), nil
}
