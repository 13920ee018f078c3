package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// State represents the lifecycle state of a job inside the fabric.
//
// State transitions (owned exclusively by the fabric):
//
//	Waiting ──> Active ──> Completed
//	   ▲          │
//	   │          ├──> Delayed ──> Waiting   (retry with backoff)
//	   └──────────┘                          (stalled lease requeue)
//	              └──> Failed                (terminal)
type State int

const (
	// StateUnknown catches uninitialized State values.
	StateUnknown State = iota

	// StateWaiting means the job is ready to be leased by a worker.
	StateWaiting

	// StateActive means a worker holds the lease and is executing the job.
	StateActive

	// StateCompleted means the handler returned success. Retained for a window.
	StateCompleted

	// StateFailed means the retry budget is exhausted. Terminal.
	StateFailed

	// StateDelayed means the job is scheduled for a future availableAt,
	// either by an enqueue delay or by retry backoff.
	StateDelayed
)

// String returns the persistence name of the state.
func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateDelayed:
		return "delayed"
	case StateUnknown:
		return "unknown"
	}
	return "unknown"
}

// StateFromString parses a persisted state name; unrecognized names yield StateUnknown.
func StateFromString(name string) State {
	switch name {
	case "waiting":
		return StateWaiting
	case "active":
		return StateActive
	case "completed":
		return StateCompleted
	case "failed":
		return StateFailed
	case "delayed":
		return StateDelayed
	}
	return StateUnknown
}

// Job is a unit of asynchronous work: a type, an opaque payload, and retry
// state. The payload is never interpreted by the fabric itself; handlers
// unmarshal it.
type Job struct {
	ID       string
	Queue    string
	Type     string
	Payload  json.RawMessage
	Priority int

	// Attempts counts executions started (incremented on lease).
	// Invariant: Attempts <= MaxAttempts; once equal, the job is terminal.
	Attempts    int
	MaxAttempts int
	Backoff     Backoff

	State          State
	AvailableAt    time.Time
	LeaseExpiresAt time.Time
	LastError      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob creates a waiting job with defaults applied: priority 0, three
// attempts, exponential backoff from a 2s base. Options override them.
func NewJob(queueName, jobType string, payload json.RawMessage, opts ...Option) *Job {
	now := time.Now().UTC()
	job := &Job{
		ID:          uuid.NewString(),
		Queue:       queueName,
		Type:        jobType,
		Payload:     payload,
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     DefaultBackoff(),
		State:       StateWaiting,
		AvailableAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, opt := range opts {
		opt(job)
	}

	if job.AvailableAt.After(now) {
		job.State = StateDelayed
	}

	return job
}

// Option customizes a job at enqueue time.
type Option func(*Job)

// WithPriority sets the job priority; higher values are leased first.
func WithPriority(priority int) Option {
	return func(j *Job) {
		j.Priority = priority
	}
}

// WithDelay schedules the job's first execution in the future.
func WithDelay(delay time.Duration) Option {
	return func(j *Job) {
		j.AvailableAt = j.CreatedAt.Add(delay)
	}
}

// WithMaxAttempts overrides the default retry budget.
func WithMaxAttempts(maxAttempts int) Option {
	return func(j *Job) {
		if maxAttempts > 0 {
			j.MaxAttempts = maxAttempts
		}
	}
}

// WithBackoff overrides the default backoff policy.
func WithBackoff(b Backoff) Option {
	return func(j *Job) {
		j.Backoff = b
	}
}
