package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/suaraedu/sentimen/internal/core"
)

// dispatcher implements core.JobDispatcher and manages a pool of worker
// goroutines that analyze queued reviews.
type dispatcher struct {
	job        core.Job       // Job implementation executed by each worker.
	jobQueue   chan int64     // Queue of review IDs awaiting analysis.
	maxWorkers int            // Number of concurrent workers.
	wg         sync.WaitGroup // Tracks active workers for graceful shutdown.
	logger     *slog.Logger   // Logger instance for the dispatcher.
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers or queueSize is 0 or negative, sane minimums apply.
func NewDispatcher(job core.Job, maxWorkers, queueSize int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	d := &dispatcher{
		job:        job,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan int64, queueSize),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process jobs from the queue.
func (d *dispatcher) startWorkers() {
	for i := 0; i < d.maxWorkers; i++ {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes review IDs from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting analysis worker", "id", workerID)

	for reviewID := range d.jobQueue {
		d.process(workerID, reviewID)
	}

	d.logger.Info("shutting down analysis worker", "id", workerID)
}

// process runs the analyze job for one review. Failures are logged and never
// propagate; the review stays retryable and the worker moves on.
func (d *dispatcher) process(workerID int, reviewID int64) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"review_id", reviewID,
	)

	if err := d.job.Run(context.Background(), reviewID); err != nil {
		d.logger.Error("sentiment analysis job failed",
			"review_id", reviewID,
			"error", err,
		)
	}
}

// Dispatch queues a review for analysis by a worker.
func (d *dispatcher) Dispatch(_ context.Context, reviewID int64) error {
	d.logger.Info("queuing sentiment analysis job", "review_id", reviewID)

	select {
	case d.jobQueue <- reviewID:
		return nil
	default:
		return fmt.Errorf("job queue is full, cannot accept new analysis job")
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all analysis jobs have finished")
}
