package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/suaraedu/sentimen/internal/classifier"
	"github.com/suaraedu/sentimen/internal/core"
	"github.com/suaraedu/sentimen/internal/sentiment"
	"github.com/suaraedu/sentimen/internal/storage/storetest"
)

func TestBacklogSweepSyncCountsFailures(t *testing.T) {
	store := storetest.New()
	good := store.AddReview("ulasan pertama yang valid")
	bad := store.AddReview("ulasan dengan label aneh")
	job, client := newTestJob(t, store)

	client.EXPECT().Classify(gomock.Any(), good.Content).Return([]classifier.Prediction{
		{Label: "LABEL_0", Score: 0.9},
	}, nil)
	client.EXPECT().Classify(gomock.Any(), bad.Content).Return([]classifier.Prediction{
		{Label: "LABEL_99", Score: 0.9},
	}, nil)

	sweeper := NewBacklogSweeper(store, job, nil, testLogger())
	result, err := sweeper.Sweep(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Found)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Enqueued)

	// The failed review stays in the backlog for the next sweep.
	ids, err := store.ListUnanalyzedIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{bad.ID}, ids)
}

func TestBacklogSweepAsyncEnqueuesAll(t *testing.T) {
	store := storetest.New()
	first := store.AddReview("ulasan pertama di antrean")
	second := store.AddReview("ulasan kedua di antrean")
	job, client := newTestJob(t, store)

	client.EXPECT().Classify(gomock.Any(), first.Content).Return([]classifier.Prediction{
		{Label: "LABEL_0", Score: 0.9},
	}, nil)
	client.EXPECT().Classify(gomock.Any(), second.Content).Return([]classifier.Prediction{
		{Label: "LABEL_2", Score: 0.9},
	}, nil)

	dispatcher := NewDispatcher(job, 2, 10, testLogger())
	sweeper := NewBacklogSweeper(store, job, dispatcher, testLogger())

	result, err := sweeper.Sweep(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Found)
	assert.Equal(t, 2, result.Enqueued)
	assert.Equal(t, 0, result.Failed)

	dispatcher.Stop()

	ids, err := store.ListUnanalyzedIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "all queued reviews should be analyzed after the pool drains")
}

func TestBacklogSweepSkipsAnalyzedReviews(t *testing.T) {
	store := storetest.New()
	done := store.AddReview("sudah punya prediksi")
	require.NoError(t, store.ApplyDecision(context.Background(), done.ID, core.Decision{
		PredictedLabel:  core.LabelPositive,
		ConfidenceScore: 0.9,
		VerifiedLabel:   core.LabelPositive,
		State:           core.StateAutoVerified,
	}))

	job, _ := newTestJob(t, store)
	sweeper := NewBacklogSweeper(store, job, nil, testLogger())

	result, err := sweeper.Sweep(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Found)
}

func TestPolicyThresholdFlowsIntoQueueOrdering(t *testing.T) {
	// Three low-confidence reviews end up in the pending queue ordered by
	// ascending confidence, regardless of analysis order.
	store := storetest.New()
	job, client := newTestJob(t, store)

	scores := []float64{0.9, 0.3, 0.65}
	policy := sentiment.Policy{Threshold: 0.95, LabelMap: sentiment.DefaultLabelMap()}
	job = NewAnalyzeJob(client, policy, store, testLogger())

	for i, score := range scores {
		review := store.AddReview("ulasan nomor " + string(rune('a'+i)) + " untuk antrean")
		client.EXPECT().Classify(gomock.Any(), review.Content).Return([]classifier.Prediction{
			{Label: "LABEL_2", Score: score},
		}, nil)
		require.NoError(t, job.Run(context.Background(), review.ID))
	}

	pending, total, err := store.ListPendingReviews(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	gotScores := []float64{}
	for _, r := range pending {
		gotScores = append(gotScores, *r.ConfidenceScore)
	}
	assert.Equal(t, []float64{0.3, 0.65, 0.9}, gotScores)
}
