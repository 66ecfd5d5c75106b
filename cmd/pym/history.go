package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pym/internal/cli"
	"github.com/Veraticus/pym/internal/common"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage past scans",
		Long:  `History keeps the most recent scans, newest first.`,
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyRenameCmd())
	cmd.AddCommand(historyDeleteCmd())
	cmd.AddCommand(historyClearCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List past scans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			printLine(cmd, cli.RenderHistory(a.history.List()))
			return nil
		},
	}
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a past scan with its full text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			rec, ok := a.history.Find(id)
			if !ok {
				return common.NewUserError(fmt.Sprintf("No scan with id %d.", id), common.ErrNotFound)
			}

			printLine(cmd, cli.RenderRecord(rec))
			return nil
		},
	}
}

func historyRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <label>",
		Short: "Give a past scan a new title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if _, ok := a.history.Find(id); !ok {
				return common.NewUserError(fmt.Sprintf("No scan with id %d.", id), common.ErrNotFound)
			}

			renamed, err := a.history.Rename(cmd.Context(), id, args[1])
			if err != nil {
				return fmt.Errorf("failed to rename scan: %w", err)
			}
			if !renamed {
				printLine(cmd, cli.FormatInfo("Name unchanged"))
				return nil
			}

			printLine(cmd, cli.FormatSuccess(fmt.Sprintf("Renamed scan %d", id)))
			return nil
		},
	}
}

func historyDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a past scan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if !yes {
				prompter := cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				confirmed, confirmErr := prompter.Confirm(cmd.Context(), "Delete this scan?")
				if confirmErr != nil {
					return confirmErr
				}
				if !confirmed {
					printLine(cmd, cli.FormatInfo("Delete canceled"))
					return nil
				}
			}

			deleted, err := a.history.Delete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to delete scan: %w", err)
			}
			if !deleted {
				printLine(cmd, cli.FormatInfo(fmt.Sprintf("No scan with id %d", id)))
				return nil
			}

			printLine(cmd, cli.FormatSuccess(fmt.Sprintf("Deleted scan %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func historyClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every past scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if !yes {
				prompter := cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				confirmed, confirmErr := prompter.Confirm(cmd.Context(), "Clear all history?")
				if confirmErr != nil {
					return confirmErr
				}
				if !confirmed {
					printLine(cmd, cli.FormatInfo("Clear canceled"))
					return nil
				}
			}

			if err := a.history.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			printLine(cmd, cli.FormatSuccess("History cleared"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}
