package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pym/internal/cli"
	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/service"
)

func scanCmd() *cobra.Command {
	var (
		label    string
		noPrompt bool
	)

	cmd := &cobra.Command{
		Use:   "scan [file|-]",
		Short: "Score how likely a text was written by AI",
		Long: fmt.Sprintf(`Scan reads text from a file or standard input and scores how likely it is
to be AI-generated. The text must be at least %d characters.

Without an API key, or when the remote model fails, a mock score is shown and
clearly marked as such. Every scan is saved to history.`, model.MinScanLength),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, label, noPrompt)
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "Title for the scan (skips the prompt)")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Use the default title without asking")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, label string, noPrompt bool) error {
	text, err := readText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stopInterrupts := interrupts.HandleInterrupts(ctx, "Scan", "")
	defer stopInterrupts()

	prompter := cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	stopSpinner := prompter.StartSpinner("Analyzing text...")
	defer stopSpinner()

	outcome, err := a.orchestrator.Run(ctx, text, scanLabeler(prompter, stopSpinner, label, noPrompt || fromStdin(args)))
	stopSpinner()

	switch {
	case errors.Is(err, common.ErrInputTooShort):
		return common.NewUserError(
			fmt.Sprintf("Please enter at least %d characters for accurate analysis.", model.MinScanLength), err)
	case errors.Is(err, common.ErrScanInProgress):
		return common.NewUserError("A scan is already running.", err)
	case errors.Is(err, context.Canceled) && interrupts.WasInterrupted():
		return nil
	case err != nil && outcome.Verdict == "":
		return fmt.Errorf("scan failed: %w", err)
	}

	printLine(cmd, cli.RenderOutcome(outcome))
	if err != nil {
		// Scored, but not saved.
		return common.NewUserError("The result could not be saved to history.", err)
	}
	return nil
}

// scanLabeler picks the title for a scan: a fixed label, the default, or an
// interactive prompt shown once the spinner is gone.
func scanLabeler(prompter *cli.Prompter, stopSpinner func(), label string, noPrompt bool) service.Labeler {
	return service.LabelerFunc(func(ctx context.Context, suggestion string) (string, error) {
		if label != "" {
			return label, nil
		}
		if noPrompt {
			return "", nil
		}
		stopSpinner()
		return prompter.Label(ctx, suggestion)
	})
}
