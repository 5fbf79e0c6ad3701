// Package handler provides the HTTP handlers for the sentiment core.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/suaraedu/sentimen/internal/core"
	"github.com/suaraedu/sentimen/internal/jobs"
	"github.com/suaraedu/sentimen/internal/storage"
	"github.com/suaraedu/sentimen/internal/verification"
)

// Content bounds enforced on submission, matching the public portal's rules.
const (
	minContentLen = 10
	maxContentLen = 5000
)

// ReviewHandler exposes review creation, the analysis entry points, and the
// manual verification workflow.
type ReviewHandler struct {
	store      storage.Store
	job        core.Job
	dispatcher core.JobDispatcher
	workflow   *verification.Workflow
	sweeper    *jobs.BacklogSweeper
	logger     *slog.Logger
}

// NewReviewHandler creates a handler wired to the given collaborators.
func NewReviewHandler(
	store storage.Store,
	job core.Job,
	dispatcher core.JobDispatcher,
	workflow *verification.Workflow,
	sweeper *jobs.BacklogSweeper,
	logger *slog.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		store:      store,
		job:        job,
		dispatcher: dispatcher,
		workflow:   workflow,
		sweeper:    sweeper,
		logger:     logger,
	}
}

type createReviewRequest struct {
	TargetID int64  `json:"target_id"`
	AuthorID int64  `json:"author_id"`
	Content  string `json:"content"`
	Rating   *int16 `json:"rating,omitempty"`
}

// Create persists a new review and queues its first analysis.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TargetID <= 0 || req.AuthorID <= 0 {
		writeError(w, http.StatusBadRequest, "target_id and author_id are required")
		return
	}
	if n := utf8.RuneCountInString(req.Content); n < minContentLen || n > maxContentLen {
		writeError(w, http.StatusBadRequest, "content must be between 10 and 5000 characters")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	review := &core.Review{
		TargetID: req.TargetID,
		AuthorID: req.AuthorID,
		Content:  req.Content,
		Rating:   req.Rating,
	}
	if err := h.store.CreateReview(r.Context(), review); err != nil {
		h.logger.Error("failed to create review", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create review")
		return
	}

	// Analysis is best-effort here; a full queue leaves the review in the
	// backlog for the next sweep.
	if err := h.dispatcher.Dispatch(r.Context(), review.ID); err != nil {
		h.logger.Warn("could not queue analysis for new review", "review_id", review.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, review)
}

// Sentiment returns the sentiment fields of one review.
func (h *ReviewHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	review, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSentimentView(review))
}

// Analyze triggers a classification run. The default mode queues the job and
// returns immediately; mode=sync blocks until the external call finishes.
func (h *ReviewHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("mode") == "sync" {
		if err := h.job.Run(r.Context(), id); err != nil {
			h.writeDomainError(w, err)
			return
		}
		review, err := h.store.GetReview(r.Context(), id)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSentimentView(review))
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), id); err != nil {
		h.logger.Error("failed to dispatch analysis job", "review_id", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "analysis queue is full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"review_id": id, "status": "queued"})
}

type verifyRequest struct {
	Label string `json:"label"`
}

// Verify applies a human sentiment decision to a pending review.
func (h *ReviewHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	label, err := core.ParseSentimentLabel(req.Label)
	if err != nil {
		writeError(w, http.StatusBadRequest, "label must be one of positive, neutral, negative")
		return
	}

	if err := h.workflow.Verify(r.Context(), id, label); err != nil {
		h.writeDomainError(w, err)
		return
	}

	review, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSentimentView(review))
}

// Reset clears all sentiment fields of a review.
func (h *ReviewHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	if err := h.workflow.Reset(r.Context(), id); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"review_id": id, "sentiment_state": core.StateUnanalyzed})
}

// VerificationQueue lists pending reviews, least confident first.
func (h *ReviewHandler) VerificationQueue(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", verification.DefaultPageSize)
	offset := queryInt(r, "offset", 0)

	queue, err := h.workflow.PendingQueue(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to load verification queue", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load verification queue")
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

type backlogRequest struct {
	Sync bool `json:"sync"`
}

// AnalyzeBacklog analyzes every review that has no prediction yet.
func (h *ReviewHandler) AnalyzeBacklog(w http.ResponseWriter, r *http.Request) {
	var req backlogRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.sweeper.Sweep(r.Context(), req.Sync)
	if err != nil {
		h.logger.Error("backlog sweep failed", "error", err)
		writeError(w, http.StatusInternalServerError, "backlog sweep failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// sentimentView renders the sentiment fields with explicit "unset" labels.
type sentimentView struct {
	ReviewID        int64               `json:"review_id"`
	State           core.SentimentState `json:"sentiment_state"`
	PredictedLabel  string              `json:"predicted_label"`
	ConfidenceScore *float64            `json:"confidence_score,omitempty"`
	VerifiedLabel   string              `json:"verified_label"`
	NeedsReview     bool                `json:"needs_manual_review"`
}

func newSentimentView(r *core.Review) sentimentView {
	return sentimentView{
		ReviewID:        r.ID,
		State:           r.SentimentState,
		PredictedLabel:  labelOrUnset(r.PredictedLabel),
		ConfidenceScore: r.ConfidenceScore,
		VerifiedLabel:   labelOrUnset(r.VerifiedLabel),
		NeedsReview:     r.NeedsReview,
	}
}

func labelOrUnset(l *core.SentimentLabel) string {
	if l == nil {
		return "unset"
	}
	return string(*l)
}

func (h *ReviewHandler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrReviewNotFound):
		writeError(w, http.StatusNotFound, "review not found")
	case errors.Is(err, core.ErrNotPending):
		writeError(w, http.StatusConflict, "review is not pending manual verification")
	case errors.Is(err, core.ErrManuallyVerified):
		writeError(w, http.StatusConflict, "review was manually verified; reset it first")
	case errors.Is(err, core.ErrUnknownLabel):
		writeError(w, http.StatusUnprocessableEntity, "model returned an unrecognized label")
	case errors.Is(err, core.ErrServiceUnavailable), errors.Is(err, core.ErrMalformedResponse):
		writeError(w, http.StatusBadGateway, "classification service failed; try again later")
	default:
		h.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func reviewID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid review id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
