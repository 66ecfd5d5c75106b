package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pym/internal/cli"
	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scan"
	"github.com/Veraticus/pym/internal/scorer"
)

// Waits for a loading model. The server's estimated load time stretches a
// wait up to classifierMaxDelay.
var (
	classifierRetryDelay = 2 * time.Second
	classifierMaxDelay   = 30 * time.Second
)

func classifyCmd() *cobra.Command {
	var retries int

	cmd := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Score text with the hosted detector model",
		Long: `Classify sends text to the hosted classifier model instead of the chat
model. A model that is still loading is retried. Results are not saved to
history and there is no mock fallback.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args, retries)
		},
	}

	cmd.Flags().IntVar(&retries, "retries", 3, "Attempts while the model is loading")
	return cmd
}

func runClassify(cmd *cobra.Command, args []string, retries int) error {
	raw, err := readText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	text, err := scan.Validate(raw)
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("Please enter at least %d characters for accurate analysis.", model.MinScanLength), err)
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

	if !a.prefs.HasCredential() {
		return common.NewUserError("No API key configured. Set one with 'pym settings key'.", common.ErrMissingConfig)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stopInterrupts := interrupts.HandleInterrupts(ctx, "Classify", "Nothing was saved.")
	defer stopInterrupts()

	classifier := scorer.NewClassifierScorer(scorerConfig(a.cfg, a.cfg.Scorer.ClassifierURL))
	req := model.ScoreRequest{Text: text, Credential: a.prefs.Credential}

	prompter := cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	stopSpinner := prompter.StartSpinner("Classifying text...")

	var score float64
	err = common.WithRetry(ctx, func() error {
		s, scoreErr := classifier.Score(ctx, req)
		if scoreErr != nil {
			return scoreErr
		}
		score = s
		return nil
	}, common.RetryOptions{
		MaxAttempts:  retries,
		InitialDelay: classifierRetryDelay,
		MaxDelay:     classifierMaxDelay,
	})
	stopSpinner()

	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return fmt.Errorf("classification failed: %w", err)
	}

	outcome := scan.Outcome{
		Score:      score,
		Percentage: model.Percentage(score),
		Verdict:    model.VerdictFor(score),
		Notice:     scan.NoticeRemote,
	}
	printLine(cmd, cli.RenderOutcome(outcome))
	return nil
}
