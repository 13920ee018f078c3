package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Enqueuer is the write side of the fabric consumed by the application layer.
// Enqueue is non-blocking: it persists the job and returns immediately.
type Enqueuer interface {
	Enqueue(ctx context.Context, queueName, jobType string, payload any, opts ...Option) (*Job, error)
}

// StatsReader is the read-only stats side of the fabric.
type StatsReader interface {
	Stats(ctx context.Context, queueName string) (Stats, error)
	AllStats(ctx context.Context) (map[string]Stats, error)
}

// Queue is the fabric facade over a Store: enqueue entry point plus the stats
// read API. Execution happens in WorkerPool instances sharing the same store.
type Queue struct {
	store  Store
	logger *slog.Logger
}

// New creates the fabric facade over the given store.
func New(store Store, logger *slog.Logger) *Queue {
	return &Queue{
		store:  store,
		logger: logger.With("component", "queue"),
	}
}

// Enqueue marshals the payload and persists a new job on the named queue.
func (q *Queue) Enqueue(ctx context.Context, queueName, jobType string, payload any, opts ...Option) (*Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", jobType, err)
	}

	job := NewJob(queueName, jobType, raw, opts...)
	if err = q.store.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue %s on %s: %w", jobType, queueName, err)
	}

	q.logger.DebugContext(ctx, "job enqueued",
		"queue", queueName, "type", jobType, "job_id", job.ID, "priority", job.Priority)
	return job, nil
}

// Stats returns the per-state counts for one queue.
func (q *Queue) Stats(ctx context.Context, queueName string) (Stats, error) {
	return q.store.Stats(ctx, queueName)
}

// AllStats returns the counts for every queue the store has seen.
func (q *Queue) AllStats(ctx context.Context) (map[string]Stats, error) {
	names, err := q.store.Queues(ctx)
	if err != nil {
		return nil, err
	}

	all := make(map[string]Stats, len(names))
	for _, name := range names {
		st, statsErr := q.store.Stats(ctx, name)
		if statsErr != nil {
			return nil, statsErr
		}
		all[name] = st
	}
	return all, nil
}

// terminalError marks a handler failure that must not be retried, regardless
// of the remaining attempt budget.
type terminalError struct {
	err error
}

func (e *terminalError) Error() string {
	return e.err.Error()
}

func (e *terminalError) Unwrap() error {
	return e.err
}

// Terminal wraps a handler error so the worker fails the job immediately
// instead of retrying. Handlers use it for validation and invalid-transition
// errors, which cannot succeed on a later attempt.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

// IsTerminal reports whether the error was marked with Terminal.
func IsTerminal(err error) bool {
	var t *terminalError
	return errors.As(err, &t)
}
