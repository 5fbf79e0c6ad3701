// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"
	"time"
)

// SentimentLabel is one of the three domain sentiment classes.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// ParseSentimentLabel validates a label supplied by an operator.
func ParseSentimentLabel(s string) (SentimentLabel, error) {
	switch SentimentLabel(s) {
	case LabelPositive, LabelNeutral, LabelNegative:
		return SentimentLabel(s), nil
	default:
		return "", fmt.Errorf("invalid sentiment label %q", s)
	}
}

// SentimentState is the tagged lifecycle state of a review's sentiment fields.
// The flat nullable columns always agree with it; ValidateSentiment checks that.
type SentimentState string

const (
	StateUnanalyzed       SentimentState = "unanalyzed"
	StateAutoVerified     SentimentState = "auto_verified"
	StatePendingReview    SentimentState = "pending_review"
	StateManuallyVerified SentimentState = "manually_verified"
)

// Visibility values for a review on the public portal.
const (
	VisibilityPublished = "published"
	VisibilityHidden    = "hidden"
)

// Review is a citizen-submitted feedback item targeting a staff member or
// division, together with its sentiment analysis fields.
type Review struct {
	ID              int64           `db:"id" json:"id"`
	TargetID        int64           `db:"target_id" json:"target_id"`
	AuthorID        int64           `db:"author_id" json:"author_id"`
	Content         string          `db:"content" json:"content"`
	Rating          *int16          `db:"rating" json:"rating,omitempty"`
	Visibility      string          `db:"visibility" json:"visibility"`
	SentimentState  SentimentState  `db:"sentiment_state" json:"sentiment_state"`
	PredictedLabel  *SentimentLabel `db:"predicted_label" json:"predicted_label,omitempty"`
	ConfidenceScore *float64        `db:"confidence_score" json:"confidence_score,omitempty"`
	VerifiedLabel   *SentimentLabel `db:"verified_label" json:"verified_label,omitempty"`
	NeedsReview     bool            `db:"needs_manual_review" json:"needs_manual_review"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Decision is the policy engine's verdict for a single classification run.
// It is applied to a review as one atomic write.
type Decision struct {
	PredictedLabel  SentimentLabel
	ConfidenceScore float64
	VerifiedLabel   SentimentLabel // empty unless auto-verified
	NeedsReview     bool
	State           SentimentState // StateAutoVerified or StatePendingReview
}

// ValidateSentiment checks the invariants between the tagged state and the
// flat sentiment columns. A review loaded from storage must always pass.
func (r *Review) ValidateSentiment() error {
	if r.NeedsReview && r.VerifiedLabel != nil {
		return fmt.Errorf("review %d: needs_manual_review set on a verified review", r.ID)
	}
	if r.NeedsReview && r.PredictedLabel == nil {
		return fmt.Errorf("review %d: needs_manual_review set without a prediction", r.ID)
	}
	if (r.PredictedLabel == nil) != (r.ConfidenceScore == nil) {
		return fmt.Errorf("review %d: confidence_score and predicted_label must be set together", r.ID)
	}

	switch r.SentimentState {
	case StateUnanalyzed:
		if r.PredictedLabel != nil || r.VerifiedLabel != nil || r.NeedsReview {
			return fmt.Errorf("review %d: unanalyzed review has sentiment data", r.ID)
		}
	case StateAutoVerified, StateManuallyVerified:
		if r.VerifiedLabel == nil || r.NeedsReview {
			return fmt.Errorf("review %d: verified review missing verified_label or still flagged", r.ID)
		}
	case StatePendingReview:
		if !r.NeedsReview || r.VerifiedLabel != nil {
			return fmt.Errorf("review %d: pending review must be flagged and unverified", r.ID)
		}
	default:
		return fmt.Errorf("review %d: unknown sentiment state %q", r.ID, r.SentimentState)
	}
	return nil
}
