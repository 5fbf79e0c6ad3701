// Package sentiment holds the pure decision logic that turns a raw model
// prediction into the stored sentiment fields. It performs no I/O.
package sentiment

import (
	"fmt"

	"github.com/suaraedu/sentimen/internal/core"
)

// DefaultThreshold is the confidence cutoff separating auto-acceptance from
// manual verification. Scores at or above the threshold are trusted.
const DefaultThreshold = 0.70

// DefaultLabelMap maps the model's raw label tokens to domain sentiment.
func DefaultLabelMap() map[string]core.SentimentLabel {
	return map[string]core.SentimentLabel{
		"LABEL_0": core.LabelPositive,
		"LABEL_1": core.LabelNeutral,
		"LABEL_2": core.LabelNegative,
	}
}

// Policy carries the tunable parts of the decision: the acceptance threshold
// and the raw-label mapping. It is injected rather than hard-coded so tests
// can exercise boundary values.
type Policy struct {
	Threshold float64
	LabelMap  map[string]core.SentimentLabel
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		Threshold: DefaultThreshold,
		LabelMap:  DefaultLabelMap(),
	}
}

// Decide interprets the top-ranked prediction. An unmapped raw token yields
// core.ErrUnknownLabel; the engine never guesses a default class.
func (p Policy) Decide(rawLabel string, score float64) (core.Decision, error) {
	mapped, ok := p.LabelMap[rawLabel]
	if !ok {
		return core.Decision{}, fmt.Errorf("%w: %q", core.ErrUnknownLabel, rawLabel)
	}

	d := core.Decision{
		PredictedLabel:  mapped,
		ConfidenceScore: score,
	}
	if score >= p.Threshold {
		d.VerifiedLabel = mapped
		d.State = core.StateAutoVerified
	} else {
		d.NeedsReview = true
		d.State = core.StatePendingReview
	}
	return d, nil
}
