package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suaraedu/sentimen/internal/wire"
)

var backlogSync bool

var backlogCmd = &cobra.Command{
	Use:   "analyze-backlog",
	Short: "Analyze every review that has no sentiment prediction yet",
	Long: `Finds all reviews without a sentiment prediction and analyzes them.

By default reviews are queued for the worker pool. With --sync each review is
analyzed inline and the command reports how many succeeded and failed.

Examples:
  sentimen-cli analyze-backlog
  sentimen-cli analyze-backlog --sync`,
	RunE: runBacklog,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	backlogCmd.Flags().BoolVar(&backlogSync, "sync", false, "Analyze inline instead of queueing")
	rootCmd.AddCommand(backlogCmd)
}

func runBacklog(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app services: %w", err)
	}
	defer cleanup()

	result, err := app.Sweeper.Sweep(ctx, backlogSync)
	if err != nil {
		return fmt.Errorf("backlog sweep failed: %w", err)
	}

	if result.Found == 0 {
		successColor.Println("No reviews waiting for analysis. Everything is up to date.")
		return nil
	}

	fmt.Printf("Found %d reviews to analyze.\n", result.Found)
	if backlogSync {
		successColor.Printf("Analyzed %d reviews.\n", result.Processed)
		if result.Failed > 0 {
			errorColor.Printf("%d reviews failed; they stay in the backlog and can be retried.\n", result.Failed)
		}
		return nil
	}

	successColor.Printf("Queued %d reviews for analysis.\n", result.Enqueued)
	if result.Failed > 0 {
		warnColor.Printf("%d reviews did not fit in the queue; run the sweep again later.\n", result.Failed)
	}

	// Drain the in-process worker pool before exiting.
	dimColor.Println("Waiting for the worker pool to finish...")
	app.Dispatcher.Stop()
	successColor.Println("Done.")
	return nil
}
