package sentiment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suaraedu/sentimen/internal/core"
)

func TestPolicyDecide(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name        string
		rawLabel    string
		score       float64
		wantLabel   core.SentimentLabel
		wantState   core.SentimentState
		wantPending bool
	}{
		{
			name:      "high confidence positive auto-verifies",
			rawLabel:  "LABEL_0",
			score:     0.85,
			wantLabel: core.LabelPositive,
			wantState: core.StateAutoVerified,
		},
		{
			name:        "low confidence negative needs review",
			rawLabel:    "LABEL_2",
			score:       0.55,
			wantLabel:   core.LabelNegative,
			wantState:   core.StatePendingReview,
			wantPending: true,
		},
		{
			name:      "score exactly at threshold auto-verifies",
			rawLabel:  "LABEL_1",
			score:     0.70,
			wantLabel: core.LabelNeutral,
			wantState: core.StateAutoVerified,
		},
		{
			name:        "score just below threshold needs review",
			rawLabel:    "LABEL_1",
			score:       0.6999,
			wantLabel:   core.LabelNeutral,
			wantState:   core.StatePendingReview,
			wantPending: true,
		},
		{
			name:      "perfect confidence",
			rawLabel:  "LABEL_2",
			score:     1.0,
			wantLabel: core.LabelNegative,
			wantState: core.StateAutoVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := policy.Decide(tt.rawLabel, tt.score)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLabel, d.PredictedLabel)
			assert.Equal(t, tt.score, d.ConfidenceScore)
			assert.Equal(t, tt.wantState, d.State)
			assert.Equal(t, tt.wantPending, d.NeedsReview)

			if tt.wantPending {
				assert.Empty(t, d.VerifiedLabel, "pending decision must not carry a verified label")
			} else {
				assert.Equal(t, tt.wantLabel, d.VerifiedLabel, "auto-verified decision must carry the mapped label")
			}
		})
	}
}

func TestPolicyDecideLabelMappingTotality(t *testing.T) {
	policy := DefaultPolicy()

	want := map[string]core.SentimentLabel{
		"LABEL_0": core.LabelPositive,
		"LABEL_1": core.LabelNeutral,
		"LABEL_2": core.LabelNegative,
	}
	for raw, mapped := range want {
		d, err := policy.Decide(raw, 0.9)
		require.NoError(t, err, "raw token %s", raw)
		assert.Equal(t, mapped, d.PredictedLabel, "raw token %s", raw)
	}
}

func TestPolicyDecideUnknownLabel(t *testing.T) {
	policy := DefaultPolicy()

	for _, raw := range []string{"LABEL_9", "label_0", "", "POSITIVE"} {
		d, err := policy.Decide(raw, 0.99)
		require.Error(t, err, "raw token %q", raw)
		assert.True(t, errors.Is(err, core.ErrUnknownLabel), "raw token %q should map to ErrUnknownLabel", raw)
		assert.Zero(t, d, "unknown token %q must not produce a decision", raw)
	}
}

func TestPolicyDecideInjectedThreshold(t *testing.T) {
	policy := Policy{
		Threshold: 0.5,
		LabelMap:  DefaultLabelMap(),
	}

	d, err := policy.Decide("LABEL_0", 0.5)
	require.NoError(t, err)
	assert.Equal(t, core.StateAutoVerified, d.State)

	d, err = policy.Decide("LABEL_0", 0.4999)
	require.NoError(t, err)
	assert.Equal(t, core.StatePendingReview, d.State)
}
