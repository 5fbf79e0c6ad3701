// Package storage implements Postgres persistence for reviews. Every sentiment
// transition is a single guarded UPDATE so concurrent writers can never leave
// a partial state behind.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	// import db drivers
	_ "github.com/lib/pq"

	"github.com/suaraedu/sentimen/internal/core"
)

// Store defines the interface for all database operations.
type Store interface {
	// CreateReview inserts a review with all sentiment fields at their
	// defaults and fills in the generated ID and timestamps.
	CreateReview(ctx context.Context, review *core.Review) error

	// GetReview loads a single review, or core.ErrReviewNotFound.
	GetReview(ctx context.Context, id int64) (*core.Review, error)

	// ApplyDecision writes all four sentiment fields of a classification run
	// in one statement. It refuses to touch a manually verified review.
	ApplyDecision(ctx context.Context, id int64, d core.Decision) error

	// VerifySentiment records a human decision. It only succeeds while the
	// review is still pending; a concurrent double-verify loses with
	// core.ErrNotPending.
	VerifySentiment(ctx context.Context, id int64, label core.SentimentLabel) error

	// ResetSentiment returns a review to the unanalyzed state, clearing all
	// sentiment fields. The only way to re-open a manually verified review.
	ResetSentiment(ctx context.Context, id int64) error

	// ListPendingReviews returns one page of the manual verification queue,
	// least confident first, plus the total queue size.
	ListPendingReviews(ctx context.Context, limit, offset int) ([]core.Review, int, error)

	// ListUnanalyzedIDs returns the IDs of all reviews without a prediction.
	ListUnanalyzedIDs(ctx context.Context) ([]int64, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store backed by Postgres.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

const reviewColumns = `id, target_id, author_id, content, rating, visibility,
	sentiment_state, predicted_label, confidence_score, verified_label,
	needs_manual_review, created_at, updated_at`

func (s *postgresStore) CreateReview(ctx context.Context, review *core.Review) error {
	if review.Visibility == "" {
		review.Visibility = core.VisibilityPublished
	}
	query := `
		INSERT INTO reviews (target_id, author_id, content, rating, visibility)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, sentiment_state, created_at, updated_at`

	row := s.db.QueryRowContext(ctx, query,
		review.TargetID, review.AuthorID, review.Content, review.Rating, review.Visibility)
	if err := row.Scan(&review.ID, &review.SentimentState, &review.CreatedAt, &review.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (s *postgresStore) GetReview(ctx context.Context, id int64) (*core.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var r core.Review
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to load review %d: %w", id, err)
	}
	return &r, nil
}

func (s *postgresStore) ApplyDecision(ctx context.Context, id int64, d core.Decision) error {
	var verified any
	if d.VerifiedLabel != "" {
		verified = string(d.VerifiedLabel)
	}

	query := `
		UPDATE reviews
		SET predicted_label = $2,
		    confidence_score = $3,
		    verified_label = $4,
		    needs_manual_review = $5,
		    sentiment_state = $6,
		    updated_at = now()
		WHERE id = $1 AND sentiment_state <> $7`

	res, err := s.db.ExecContext(ctx, query,
		id, string(d.PredictedLabel), d.ConfidenceScore, verified,
		d.NeedsReview, string(d.State), string(core.StateManuallyVerified))
	if err != nil {
		return fmt.Errorf("failed to apply sentiment decision to review %d: %w", id, err)
	}
	return s.checkGuardedUpdate(ctx, res, id, core.ErrManuallyVerified)
}

func (s *postgresStore) VerifySentiment(ctx context.Context, id int64, label core.SentimentLabel) error {
	query := `
		UPDATE reviews
		SET verified_label = $2,
		    needs_manual_review = FALSE,
		    sentiment_state = $3,
		    updated_at = now()
		WHERE id = $1 AND needs_manual_review AND verified_label IS NULL`

	res, err := s.db.ExecContext(ctx, query, id, string(label), string(core.StateManuallyVerified))
	if err != nil {
		return fmt.Errorf("failed to verify review %d: %w", id, err)
	}
	return s.checkGuardedUpdate(ctx, res, id, core.ErrNotPending)
}

func (s *postgresStore) ResetSentiment(ctx context.Context, id int64) error {
	query := `
		UPDATE reviews
		SET predicted_label = NULL,
		    confidence_score = NULL,
		    verified_label = NULL,
		    needs_manual_review = FALSE,
		    sentiment_state = $2,
		    updated_at = now()
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, string(core.StateUnanalyzed))
	if err != nil {
		return fmt.Errorf("failed to reset sentiment of review %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrReviewNotFound
	}
	return nil
}

func (s *postgresStore) ListPendingReviews(ctx context.Context, limit, offset int) ([]core.Review, int, error) {
	if limit <= 0 {
		limit = 15
	}
	if offset < 0 {
		offset = 0
	}

	const where = `needs_manual_review AND verified_label IS NULL`

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE `+where); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending reviews: %w", err)
	}

	query := `SELECT ` + reviewColumns + `
		FROM reviews
		WHERE ` + where + `
		ORDER BY confidence_score ASC, id ASC
		LIMIT $1 OFFSET $2`

	reviews := []core.Review{}
	if err := s.db.SelectContext(ctx, &reviews, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list pending reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *postgresStore) ListUnanalyzedIDs(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	query := `SELECT id FROM reviews WHERE predicted_label IS NULL ORDER BY id ASC`
	if err := s.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to list unanalyzed reviews: %w", err)
	}
	return ids, nil
}

// checkGuardedUpdate maps a zero-row guarded UPDATE to either "review does not
// exist" or the precondition error the guard protects.
func (s *postgresStore) checkGuardedUpdate(ctx context.Context, res sql.Result, id int64, precondition error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("failed to check review %d: %w", id, err)
	}
	if !exists {
		return core.ErrReviewNotFound
	}
	return precondition
}
