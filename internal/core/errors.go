package core

import "errors"

// Failure modes of the analysis and verification pipeline. Callers branch on
// these with errors.Is; everything else is wrapped context.
var (
	// ErrMissingCredentials means the classifier API token is not configured.
	// Fatal for the classifier until an operator fixes the config; never
	// worth a blind retry.
	ErrMissingCredentials = errors.New("classifier API token is not configured")

	// ErrServiceUnavailable covers timeouts, connection failures and non-2xx
	// responses from the classification service. Retryable.
	ErrServiceUnavailable = errors.New("classification service unavailable")

	// ErrMalformedResponse means the service answered 2xx but the body did not
	// contain a usable prediction. Retryable, but logged distinctly because it
	// can indicate an upstream contract change.
	ErrMalformedResponse = errors.New("malformed classification response")

	// ErrUnknownLabel means the model returned a label token outside the
	// configured mapping. Needs a mapping fix, not a retry.
	ErrUnknownLabel = errors.New("unknown raw sentiment label")

	// ErrNotPending is returned when verify is called on a review that is not
	// awaiting manual verification, including the loser of a double-verify race.
	ErrNotPending = errors.New("review is not pending manual verification")

	// ErrManuallyVerified rejects re-analysis of a review a human already
	// verified. The sentiment must be reset explicitly first.
	ErrManuallyVerified = errors.New("review was manually verified; reset sentiment before re-analysis")

	// ErrReviewNotFound is returned for operations on a nonexistent review.
	ErrReviewNotFound = errors.New("review not found")
)
