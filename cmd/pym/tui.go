package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen writing interface",
		Long: `Tui opens an editor with a live word count, scanning, and a history
sidebar. Logs go to logging.file while it runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closeLog, err := redirectLogs()
			if err != nil {
				return err
			}
			defer closeLog()

			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(cmd.Context(),
				tui.WithScanner(a.orchestrator),
				tui.WithHistory(a.history),
				tui.WithThemeStore(a.settings),
				tui.WithTheme(a.prefs.Theme),
			)
		},
	}
}

// redirectLogs sends logs to logging.file, or discards them, so they do not
// draw over the alternate screen.
func redirectLogs() (func(), error) {
	var w io.Writer = io.Discard
	closeFn := func() {}

	if path := appConfig.Logging.File; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() {
			if err := f.Close(); err != nil {
				slog.Warn("Failed to close log file", "error", err)
			}
		}
	}

	if err := common.SetupLogger(w, appConfig.Logging.Level, appConfig.Logging.Format); err != nil {
		closeFn()
		return nil, err
	}
	return closeFn, nil
}
