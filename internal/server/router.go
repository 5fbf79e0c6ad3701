package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/suaraedu/sentimen/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(reviews *handler.ReviewHandler) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reviews", reviews.Create)
		r.Route("/reviews/{id}", func(r chi.Router) {
			r.Get("/sentiment", reviews.Sentiment)
			r.Post("/analyze", reviews.Analyze)
			r.Post("/verify", reviews.Verify)
			r.Post("/sentiment/reset", reviews.Reset)
		})
		r.Get("/verification-queue", reviews.VerificationQueue)
		r.Post("/analysis/backlog", reviews.AnalyzeBacklog)
	})

	return r
}
