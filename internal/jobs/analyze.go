// Package jobs defines background tasks such as sentiment analysis runs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suaraedu/sentimen/internal/classifier"
	"github.com/suaraedu/sentimen/internal/core"
	"github.com/suaraedu/sentimen/internal/sentiment"
	"github.com/suaraedu/sentimen/internal/storage"
)

// AnalyzeJob classifies a single review and applies the outcome as one atomic
// write. Both the synchronous and the queued path run through here, so the
// per-review lock serializes every analysis of the same review.
type AnalyzeJob struct {
	classifier classifier.Client
	policy     sentiment.Policy
	store      storage.Store
	logger     *slog.Logger
	locks      *keyedMutex
}

// NewAnalyzeJob creates a new AnalyzeJob with classifier, policy, store, and logger.
func NewAnalyzeJob(c classifier.Client, policy sentiment.Policy, store storage.Store, logger *slog.Logger) *AnalyzeJob {
	if c == nil {
		panic("classifier cannot be nil")
	}
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &AnalyzeJob{
		classifier: c,
		policy:     policy,
		store:      store,
		logger:     logger,
		locks:      newKeyedMutex(),
	}
}

// Run analyzes the sentiment of one review. On any failure the review is left
// exactly as it was; re-invoking Run is the retry path.
func (j *AnalyzeJob) Run(ctx context.Context, reviewID int64) error {
	unlock := j.locks.lock(reviewID)
	defer unlock()

	review, err := j.store.GetReview(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("cannot analyze review %d: %w", reviewID, err)
	}
	if review.SentimentState == core.StateManuallyVerified {
		return fmt.Errorf("cannot analyze review %d: %w", reviewID, core.ErrManuallyVerified)
	}

	// The external call happens outside any transaction or row lock; only the
	// short guarded UPDATE below touches the database.
	preds, err := j.classifier.Classify(ctx, review.Content)
	if err != nil {
		j.logger.Error("classification failed",
			"review_id", reviewID,
			"retryable", errors.Is(err, core.ErrServiceUnavailable) || errors.Is(err, core.ErrMalformedResponse),
			"error", err,
		)
		return fmt.Errorf("classification failed for review %d: %w", reviewID, err)
	}

	top := preds[0]
	decision, err := j.policy.Decide(top.Label, top.Score)
	if err != nil {
		j.logger.Warn("model returned an unmapped label",
			"review_id", reviewID,
			"raw_label", top.Label,
			"score", top.Score,
		)
		return fmt.Errorf("cannot interpret prediction for review %d: %w", reviewID, err)
	}

	if err := j.store.ApplyDecision(ctx, reviewID, decision); err != nil {
		return fmt.Errorf("failed to store decision for review %d: %w", reviewID, err)
	}

	if decision.State == core.StateAutoVerified {
		j.logger.Info("review auto-verified",
			"review_id", reviewID,
			"label", decision.PredictedLabel,
			"confidence", decision.ConfidenceScore,
		)
	} else {
		j.logger.Info("review flagged for manual verification",
			"review_id", reviewID,
			"label", decision.PredictedLabel,
			"confidence", decision.ConfidenceScore,
		)
	}
	return nil
}
