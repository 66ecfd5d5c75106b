package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pym/internal/cli"
	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scorer"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsThemeCmd())
	cmd.AddCommand(settingsModelCmd())
	cmd.AddCommand(settingsKeyCmd())

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			printLine(cmd, cli.RenderPreferences(a.prefs))

			keys, err := a.store.Keys(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list stored keys: %w", err)
			}
			printLine(cmd, cli.SubtleStyle.Render(fmt.Sprintf("Instance %s · stored: %s",
				a.cfg.Instance.ID, strings.Join(keys, ", "))))
			return nil
		},
	}
}

func settingsThemeCmd() *cobra.Command {
	names := make([]string, 0, len(model.Themes()))
	for _, t := range model.Themes() {
		names = append(names, string(t))
	}

	return &cobra.Command{
		Use:       "theme <" + strings.Join(names, "|") + ">",
		Short:     "Set the display theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			theme, err := a.settings.SetTheme(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, common.ErrInvalidConfig) {
					return common.NewUserError(fmt.Sprintf("Unknown theme %q. Choose one of: %s.",
						args[0], strings.Join(names, ", ")), err)
				}
				return err
			}

			cli.ApplyTheme(theme)
			printLine(cmd, cli.FormatSuccess("Theme set to "+string(theme)))
			return nil
		},
	}
}

func settingsModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model <id>",
		Short: "Select the model used for scans",
		Long: `Model selects the chat model used for remote scans. The id is checked
against the model catalog; unknown ids are saved with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			modelID := strings.TrimSpace(args[0])
			catalog := scorer.NewCatalog(scorerConfig(a.cfg, a.cfg.Catalog.BaseURL))
			models, _, _ := catalog.ListOrFallback(cmd.Context())
			if !scorer.Contains(models, modelID) {
				printLine(cmd, cli.FormatWarning(fmt.Sprintf("%s is not in the model catalog", modelID)))
			}

			if err := a.settings.SetModel(cmd.Context(), modelID); err != nil {
				return err
			}

			printLine(cmd, cli.FormatSuccess("Model set to "+modelID))
			return nil
		},
	}
}

func settingsKeyCmd() *cobra.Command {
	var clearKey bool

	cmd := &cobra.Command{
		Use:   "key [value]",
		Short: "Set or clear the API key",
		Long: `Key stores the API key used for remote scans. Without a value the key is
read from standard input. Without a key, scans show mock results.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if clearKey {
				if err := a.settings.ClearCredential(cmd.Context()); err != nil {
					return err
				}
				printLine(cmd, cli.FormatSuccess("API key cleared; scans will use mock data"))
				return nil
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				prompter := cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				key, err = prompter.Ask(cmd.Context(), "API key")
				if err != nil {
					return err
				}
			}

			if err := a.settings.SetCredential(cmd.Context(), key); err != nil {
				return err
			}

			if strings.TrimSpace(key) == "" {
				printLine(cmd, cli.FormatInfo("Empty key; API key cleared"))
				return nil
			}
			prefs := model.Preferences{Credential: strings.TrimSpace(key)}
			printLine(cmd, cli.FormatSuccess("API key saved: "+prefs.MaskedCredential()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearKey, "clear", false, "Remove the stored API key")
	return cmd
}
