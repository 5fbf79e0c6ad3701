package core

import "context"

// Job represents a single, executable unit of work processed by the job
// dispatcher. For this application a job analyzes the sentiment of one review.
type Job interface {
	// Run executes the job for the given review. It returns one of the typed
	// failures from errors.go when the review could not be analyzed; the
	// review is left untouched in that case.
	Run(ctx context.Context, reviewID int64) error
}

// JobDispatcher accepts reviews for asynchronous analysis. It decouples the
// entry points (HTTP handlers, CLI, backlog sweep) from the worker pool.
type JobDispatcher interface {
	// Dispatch queues a review for analysis. It returns an error if the job
	// cannot be queued, for example when the queue is full, providing a
	// mechanism for backpressure.
	Dispatch(ctx context.Context, reviewID int64) error

	// Stop shuts the worker pool down, waiting for in-flight jobs to finish.
	Stop()
}
