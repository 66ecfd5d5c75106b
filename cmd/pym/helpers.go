package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pym/internal/cli"
	"github.com/Veraticus/pym/internal/config"
	"github.com/Veraticus/pym/internal/history"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scan"
	"github.com/Veraticus/pym/internal/scorer"
	"github.com/Veraticus/pym/internal/service"
	"github.com/Veraticus/pym/internal/settings"
	"github.com/Veraticus/pym/internal/storage"
)

// app holds the services shared by the commands.
type app struct {
	cfg          *config.Config
	store        service.Store
	settings     *settings.Manager
	history      *history.Manager
	orchestrator *scan.Orchestrator
	prefs        model.Preferences
}

// initStorage opens the database for the configured instance and migrates it.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	store, err := storage.NewSQLiteStorage(dbPath, cfg.Instance.ID)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close storage", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// scorerConfig builds the remote scorer configuration.
func scorerConfig(cfg *config.Config, baseURL string) scorer.Config {
	return scorer.Config{
		BaseURL:   baseURL,
		RateLimit: cfg.Scorer.RateLimit,
		Logger:    slog.Default(),
	}
}

// openStore returns the SQLite store, or a MemoryStore for --ephemeral runs.
func openStore(ctx context.Context, cfg *config.Config) (service.Store, func(), error) {
	if ephemeral {
		slog.Debug("Using in-memory storage", "instance", cfg.Instance.ID)
		return storage.NewMemoryStore(), func() {}, nil
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}, nil
}

// scanDelay maps a configured delay onto scan.Config, where zero selects the
// standard delay. A configured 0 means no wait at all.
func scanDelay(d time.Duration) time.Duration {
	if d == 0 {
		return scan.NoDelay
	}
	return d
}

// newApp wires storage, preferences, history and the scan orchestrator.
// The returned cleanup closes the database.
func newApp(ctx context.Context) (*app, func(), error) {
	cfg := appConfig
	if cfg == nil {
		return nil, nil, errors.New("configuration not loaded")
	}

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	prefsManager := settings.NewManager(store)
	prefs, err := prefsManager.Load(ctx)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	cli.ApplyTheme(prefs.Theme)

	hist := history.NewManager(store, history.WithLogger(slog.Default()))
	if err := hist.Load(ctx); err != nil {
		// A corrupt history starts over empty rather than blocking scans.
		slog.Warn("Starting with empty history", "error", err)
	}

	baseURL := cfg.Scorer.BaseURL
	if cfg.Scorer.Backend == scorer.BackendClassifier {
		baseURL = cfg.Scorer.ClassifierURL
	}
	remote, err := scorer.NewRemote(cfg.Scorer.Backend, scorerConfig(cfg, baseURL))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	orchestratorCfg := scan.Config{
		Preferences:       prefsManager,
		Remote:            remote,
		History:           hist,
		Logger:            slog.Default(),
		NoCredentialDelay: scanDelay(cfg.Scorer.MockDelay),
		FallbackDelay:     scanDelay(cfg.Scorer.FallbackDelay),
	}
	if cfg.Scorer.Seed != 0 {
		orchestratorCfg.Mock = scorer.NewMockScorer(cfg.Scorer.Seed, cfg.Scorer.MockDelay)
	}

	return &app{
		cfg:          cfg,
		store:        store,
		settings:     prefsManager,
		history:      hist,
		orchestrator: scan.New(orchestratorCfg),
		prefs:        prefs,
	}, cleanup, nil
}

// readText reads the text to analyze from the named file, or from in when
// the argument is missing or "-".
func readText(args []string, in io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// fromStdin reports whether readText would consume standard input.
func fromStdin(args []string) bool {
	return len(args) == 0 || args[0] == "-"
}

func printLine(cmd *cobra.Command, s string) {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}

func printf(cmd *cobra.Command, format string, args ...any) {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}

// parseID parses a history record id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid scan id %q", arg)
	}
	return id, nil
}
