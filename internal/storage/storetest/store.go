// Package storetest provides an in-memory storage.Store for tests. It applies
// the same guards as the SQL statements so precondition behavior matches
// production.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/suaraedu/sentimen/internal/core"
)

// InMemory is a thread-safe in-memory review store.
type InMemory struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]*core.Review
}

// New creates an empty store.
func New() *InMemory {
	return &InMemory{nextID: 1, reviews: make(map[int64]*core.Review)}
}

// AddReview inserts an unanalyzed review and returns a copy of it.
func (s *InMemory) AddReview(content string) *core.Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &core.Review{
		ID:             s.nextID,
		TargetID:       1,
		AuthorID:       1,
		Content:        content,
		Visibility:     core.VisibilityPublished,
		SentimentState: core.StateUnanalyzed,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	s.nextID++
	s.reviews[r.ID] = r
	return clone(r)
}

// Snapshot returns a copy of the stored review, or nil if it does not exist.
func (s *InMemory) Snapshot(id int64) *core.Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil
	}
	return clone(r)
}

func clone(r *core.Review) *core.Review {
	c := *r
	if r.PredictedLabel != nil {
		l := *r.PredictedLabel
		c.PredictedLabel = &l
	}
	if r.VerifiedLabel != nil {
		l := *r.VerifiedLabel
		c.VerifiedLabel = &l
	}
	if r.ConfidenceScore != nil {
		v := *r.ConfidenceScore
		c.ConfidenceScore = &v
	}
	if r.Rating != nil {
		v := *r.Rating
		c.Rating = &v
	}
	return &c
}

func (s *InMemory) CreateReview(_ context.Context, review *core.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	review.ID = s.nextID
	s.nextID++
	review.SentimentState = core.StateUnanalyzed
	if review.Visibility == "" {
		review.Visibility = core.VisibilityPublished
	}
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	s.reviews[review.ID] = clone(review)
	return nil
}

func (s *InMemory) GetReview(_ context.Context, id int64) (*core.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, core.ErrReviewNotFound
	}
	return clone(r), nil
}

func (s *InMemory) ApplyDecision(_ context.Context, id int64, d core.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return core.ErrReviewNotFound
	}
	if r.SentimentState == core.StateManuallyVerified {
		return core.ErrManuallyVerified
	}

	predicted := d.PredictedLabel
	confidence := d.ConfidenceScore
	r.PredictedLabel = &predicted
	r.ConfidenceScore = &confidence
	if d.VerifiedLabel != "" {
		verified := d.VerifiedLabel
		r.VerifiedLabel = &verified
	} else {
		r.VerifiedLabel = nil
	}
	r.NeedsReview = d.NeedsReview
	r.SentimentState = d.State
	r.UpdatedAt = time.Now()
	return nil
}

func (s *InMemory) VerifySentiment(_ context.Context, id int64, label core.SentimentLabel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return core.ErrReviewNotFound
	}
	if !r.NeedsReview || r.VerifiedLabel != nil {
		return core.ErrNotPending
	}
	r.VerifiedLabel = &label
	r.NeedsReview = false
	r.SentimentState = core.StateManuallyVerified
	r.UpdatedAt = time.Now()
	return nil
}

func (s *InMemory) ResetSentiment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return core.ErrReviewNotFound
	}
	r.PredictedLabel = nil
	r.ConfidenceScore = nil
	r.VerifiedLabel = nil
	r.NeedsReview = false
	r.SentimentState = core.StateUnanalyzed
	r.UpdatedAt = time.Now()
	return nil
}

func (s *InMemory) ListPendingReviews(_ context.Context, limit, offset int) ([]core.Review, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := []core.Review{}
	for _, r := range s.reviews {
		if r.NeedsReview && r.VerifiedLabel == nil {
			pending = append(pending, *clone(r))
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if *pending[i].ConfidenceScore != *pending[j].ConfidenceScore {
			return *pending[i].ConfidenceScore < *pending[j].ConfidenceScore
		}
		return pending[i].ID < pending[j].ID
	})

	total := len(pending)
	if offset > len(pending) {
		offset = len(pending)
	}
	pending = pending[offset:]
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, total, nil
}

func (s *InMemory) ListUnanalyzedIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := []int64{}
	for _, r := range s.reviews {
		if r.PredictedLabel == nil {
			ids = append(ids, r.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
