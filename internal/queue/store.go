package queue

import (
	"context"
	"errors"
	"time"
)

// ErrNoJob is returned by Lease when no job in the queue is ready to run.
var ErrNoJob = errors.New("no job available")

// ErrJobNotFound is returned when acknowledging a job the store does not hold.
var ErrJobNotFound = errors.New("job not found")

// Stats are the per-queue counts surfaced by the read-only stats API.
type Stats struct {
	Waiting   int `json:"waiting"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Delayed   int `json:"delayed"`
	Total     int `json:"total"`
}

// Store is the durable queue backing the fabric. Implementations must make
// Lease exclusive: a leased job is invisible to other workers until its lease
// expires or it is acknowledged.
//
// Two implementations exist: the postgres jobstore adapter for production and
// MemStore for tests and single-process deployments.
type Store interface {
	// Enqueue persists a new job in its initial state.
	Enqueue(ctx context.Context, job *Job) error

	// Lease atomically claims the next runnable job of the queue: highest
	// priority first, then earliest availableAt. The claimed job becomes
	// Active with attempts incremented and a lease deadline of now+leaseFor.
	// Returns ErrNoJob when nothing is runnable.
	Lease(ctx context.Context, queueName string, leaseFor time.Duration) (*Job, error)

	// Complete acknowledges successful execution. The job is retained in
	// Completed state until retention cleanup removes it.
	Complete(ctx context.Context, jobID string) error

	// Retry schedules another execution after a failure, recording the error
	// and delaying the job until nextRunAt.
	Retry(ctx context.Context, jobID string, nextRunAt time.Time, lastError string) error

	// Fail marks the job terminally failed. It will never be leased again.
	Fail(ctx context.Context, jobID string, lastError string) error

	// RequeueStalled returns expired-lease Active jobs to Waiting so another
	// worker can pick them up. Returns the number of jobs requeued.
	RequeueStalled(ctx context.Context) (int, error)

	// Stats returns the per-state counts for one queue.
	Stats(ctx context.Context, queueName string) (Stats, error)

	// Queues lists every queue name the store has seen.
	Queues(ctx context.Context) ([]string, error)

	// Cleanup removes Completed jobs finished before completedBefore and
	// Failed jobs finished before failedBefore. Returns the number removed.
	Cleanup(ctx context.Context, completedBefore, failedBefore time.Time) (int, error)
}
