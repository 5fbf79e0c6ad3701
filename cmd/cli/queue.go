package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/suaraedu/sentimen/internal/wire"
)

var (
	outputJSON  bool
	queueLimit  int
	queueOffset int
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the manual verification queue, least confident first",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		queue, err := app.Workflow.PendingQueue(ctx, queueLimit, queueOffset)
		if err != nil {
			return fmt.Errorf("failed to load verification queue: %w", err)
		}

		if outputJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(queue)
		}

		if len(queue.Items) == 0 {
			successColor.Println("No reviews are waiting for manual verification.")
			return nil
		}

		fmt.Printf("%d of %d pending reviews:\n\n", len(queue.Items), queue.Total)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tPREDICTED\tCONFIDENCE\tCONTENT")
		for _, item := range queue.Items {
			label, confidence := "unset", 0.0
			if item.PredictedLabel != nil {
				label = string(*item.PredictedLabel)
			}
			if item.ConfidenceScore != nil {
				confidence = *item.ConfidenceScore
			}
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", item.ID, label, confidence, snippet(item.Content, 60))
		}
		return w.Flush()
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	queueCmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	queueCmd.Flags().IntVar(&queueLimit, "limit", 15, "Page size")
	queueCmd.Flags().IntVar(&queueOffset, "offset", 0, "Page offset")
	rootCmd.AddCommand(queueCmd)
}

func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
