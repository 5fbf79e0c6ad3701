package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suaraedu/sentimen/internal/core"
	"github.com/suaraedu/sentimen/internal/storage"
)

// BacklogResult summarizes a backlog sweep for the operator. Per-item errors
// are logged server-side; the operator only sees the counts.
type BacklogResult struct {
	Found     int `json:"found"`
	Enqueued  int `json:"enqueued"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// BacklogSweeper finds every review without a prediction and analyzes it,
// either inline or through the dispatcher.
type BacklogSweeper struct {
	store      storage.Store
	job        core.Job
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewBacklogSweeper creates a sweeper using job for synchronous runs and
// dispatcher for queued ones.
func NewBacklogSweeper(store storage.Store, job core.Job, dispatcher core.JobDispatcher, logger *slog.Logger) *BacklogSweeper {
	return &BacklogSweeper{
		store:      store,
		job:        job,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Sweep analyzes all unanalyzed reviews. With sync set it blocks until every
// review was attempted and counts failures; otherwise it only enqueues.
func (b *BacklogSweeper) Sweep(ctx context.Context, sync bool) (BacklogResult, error) {
	ids, err := b.store.ListUnanalyzedIDs(ctx)
	if err != nil {
		return BacklogResult{}, fmt.Errorf("failed to collect analysis backlog: %w", err)
	}

	result := BacklogResult{Found: len(ids)}
	if len(ids) == 0 {
		b.logger.Info("analysis backlog is empty")
		return result, nil
	}

	b.logger.Info("sweeping analysis backlog", "reviews", len(ids), "sync", sync)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("backlog sweep interrupted: %w", err)
		}

		if sync {
			if err := b.job.Run(ctx, id); err != nil {
				result.Failed++
			} else {
				result.Processed++
			}
			continue
		}

		if err := b.dispatcher.Dispatch(ctx, id); err != nil {
			b.logger.Error("failed to enqueue review for analysis", "review_id", id, "error", err)
			result.Failed++
		} else {
			result.Enqueued++
		}
	}

	b.logger.Info("backlog sweep finished",
		"found", result.Found,
		"enqueued", result.Enqueued,
		"processed", result.Processed,
		"failed", result.Failed,
	)
	return result, nil
}
