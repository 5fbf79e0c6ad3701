package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/suaraedu/sentimen/internal/core"
	"github.com/suaraedu/sentimen/internal/wire"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [review-id] [label]",
	Short: "Record a manual sentiment decision for a pending review",
	Long: `Records the human verdict for a review in the manual verification queue.
The label may be positive, neutral, or negative and always overrides the
model's prediction.

Example:
  sentimen-cli verify 42 negative`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid review id %q", args[0])
		}
		label, err := core.ParseSentimentLabel(args[1])
		if err != nil {
			return err
		}

		ctx := context.Background()
		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		if err := app.Workflow.Verify(ctx, id, label); err != nil {
			return err
		}

		successColor.Printf("Review %d verified as %s.\n", id, label)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [review-id]",
	Short: "Reset a review's sentiment back to unanalyzed",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid review id %q", args[0])
		}

		ctx := context.Background()
		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		if err := app.Workflow.Reset(ctx, id); err != nil {
			return err
		}

		warnColor.Printf("Review %d reset; it will be picked up by the next backlog sweep.\n", id)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(resetCmd)
}
