// Package verification implements the human side of the sentiment pipeline:
// the queue of low-confidence predictions and the application of an operator's
// decision.
package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suaraedu/sentimen/internal/core"
	"github.com/suaraedu/sentimen/internal/storage"
)

// DefaultPageSize matches the portal's verification screen.
const DefaultPageSize = 15

// Queue is one page of the manual verification queue.
type Queue struct {
	Items  []core.Review `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Workflow surfaces pending reviews and applies human decisions. It holds no
// state of its own; the queue may shrink concurrently as other operators work.
type Workflow struct {
	store  storage.Store
	logger *slog.Logger
}

// NewWorkflow creates a verification workflow over the given store.
func NewWorkflow(store storage.Store, logger *slog.Logger) *Workflow {
	return &Workflow{store: store, logger: logger}
}

// PendingQueue returns reviews awaiting manual verification, least confident
// first. Those predictions are the most likely to be wrong.
func (w *Workflow) PendingQueue(ctx context.Context, limit, offset int) (*Queue, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	items, total, err := w.store.ListPendingReviews(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &Queue{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Verify records the human's label for a pending review. The decision is
// final and never validated against the model's prediction; the human wins.
// A review that is no longer pending yields core.ErrNotPending.
func (w *Workflow) Verify(ctx context.Context, reviewID int64, label core.SentimentLabel) error {
	if err := w.store.VerifySentiment(ctx, reviewID, label); err != nil {
		return fmt.Errorf("cannot verify review %d: %w", reviewID, err)
	}

	w.logger.Info("review manually verified", "review_id", reviewID, "label", label)
	return nil
}

// Reset returns a review to the unanalyzed state. This is the only way to
// re-open a manually verified review for another analysis run.
func (w *Workflow) Reset(ctx context.Context, reviewID int64) error {
	if err := w.store.ResetSentiment(ctx, reviewID); err != nil {
		return fmt.Errorf("cannot reset sentiment of review %d: %w", reviewID, err)
	}

	w.logger.Info("review sentiment reset", "review_id", reviewID)
	return nil
}
