package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/pym/internal/cli"
	"github.com/Veraticus/pym/internal/scorer"
)

func modelsCmd() *cobra.Command {
	var freeOnly bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models available for scans",
		Long: `Models lists the chat models from the router catalog, free models first.
When the catalog cannot be fetched a built-in list is shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			catalog := scorer.NewCatalog(scorerConfig(a.cfg, a.cfg.Catalog.BaseURL))
			models, fromCatalog, fetchErr := catalog.ListOrFallback(cmd.Context())
			if !fromCatalog {
				printLine(cmd, cli.FormatWarning("Model catalog unavailable; showing the built-in list"))
				if fetchErr != nil {
					printLine(cmd, cli.SubtleStyle.Render(fetchErr.Error()))
				}
			}

			free, paid := scorer.Partition(models)
			if freeOnly {
				paid = nil
			}

			printLine(cmd, cli.RenderModels(free, paid, a.prefs.ModelID))
			return nil
		},
	}

	cmd.Flags().BoolVar(&freeOnly, "free", false, "Only list free models")
	return cmd
}
