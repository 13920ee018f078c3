package queue

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Retention caps for the in-memory store: completed and failed jobs kept per
// queue before the oldest are dropped.
const (
	memRetainCompleted = 10
	memRetainFailed    = 50
)

// MemStore is an in-process Store used by tests and single-instance
// deployments. All operations are guarded by one mutex; the lease semantics
// match the postgres jobstore so worker code behaves identically against both.
type MemStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewMemStore creates an empty in-memory job store.
func NewMemStore() *MemStore {
	return &MemStore{
		jobs: make(map[string]*Job),
	}
}

// Enqueue stores a copy of the job.
func (s *MemStore) Enqueue(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *job
	s.jobs[job.ID] = &clone
	return nil
}

// Lease claims the next runnable job: highest priority first, then earliest
// availableAt, then insertion order via creation time.
func (s *MemStore) Lease(_ context.Context, queueName string, leaseFor time.Duration) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var best *Job
	for _, j := range s.jobs {
		if j.Queue != queueName || !runnable(j, now) {
			continue
		}
		if best == nil || leasesBefore(j, best) {
			best = j
		}
	}

	if best == nil {
		return nil, ErrNoJob
	}

	best.State = StateActive
	best.Attempts++
	best.LeaseExpiresAt = now.Add(leaseFor)
	best.UpdatedAt = now

	clone := *best
	return &clone, nil
}

func runnable(j *Job, now time.Time) bool {
	if j.State != StateWaiting && j.State != StateDelayed {
		return false
	}
	return !j.AvailableAt.After(now)
}

func leasesBefore(a, b *Job) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.AvailableAt.Equal(b.AvailableAt) {
		return a.AvailableAt.Before(b.AvailableAt)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// Complete acknowledges a job and trims per-queue completed retention.
func (s *MemStore) Complete(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}

	j.State = StateCompleted
	j.UpdatedAt = time.Now().UTC()
	s.trim(j.Queue, StateCompleted, memRetainCompleted)
	return nil
}

// Retry schedules another execution, recording the failure.
func (s *MemStore) Retry(_ context.Context, jobID string, nextRunAt time.Time, lastError string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}

	now := time.Now().UTC()
	j.State = StateDelayed
	if !nextRunAt.After(now) {
		j.State = StateWaiting
	}
	j.AvailableAt = nextRunAt
	j.LeaseExpiresAt = time.Time{}
	j.LastError = lastError
	j.UpdatedAt = now
	return nil
}

// Fail marks the job terminally failed and trims failed retention.
func (s *MemStore) Fail(_ context.Context, jobID string, lastError string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}

	j.State = StateFailed
	j.LastError = lastError
	j.LeaseExpiresAt = time.Time{}
	j.UpdatedAt = time.Now().UTC()
	s.trim(j.Queue, StateFailed, memRetainFailed)
	return nil
}

// RequeueStalled returns expired-lease jobs to the waiting state.
func (s *MemStore) RequeueStalled(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	requeued := 0
	for _, j := range s.jobs {
		if j.State == StateActive && j.LeaseExpiresAt.Before(now) {
			j.State = StateWaiting
			j.AvailableAt = now
			j.LeaseExpiresAt = time.Time{}
			j.UpdatedAt = now
			requeued++
		}
	}
	return requeued, nil
}

// Stats counts jobs per state for one queue.
func (s *MemStore) Stats(_ context.Context, queueName string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	for _, j := range s.jobs {
		if j.Queue != queueName {
			continue
		}
		switch j.State {
		case StateWaiting:
			st.Waiting++
		case StateActive:
			st.Active++
		case StateCompleted:
			st.Completed++
		case StateFailed:
			st.Failed++
		case StateDelayed:
			st.Delayed++
		case StateUnknown:
		}
		st.Total++
	}
	return st, nil
}

// Queues lists every queue name seen by the store, sorted.
func (s *MemStore) Queues(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, j := range s.jobs {
		seen[j.Queue] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Cleanup removes completed and failed jobs older than the retention windows.
func (s *MemStore) Cleanup(_ context.Context, completedBefore, failedBefore time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, j := range s.jobs {
		if (j.State == StateCompleted && j.UpdatedAt.Before(completedBefore)) ||
			(j.State == StateFailed && j.UpdatedAt.Before(failedBefore)) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed, nil
}

// Get returns a copy of a job by ID; used by tests to observe job state.
func (s *MemStore) Get(jobID string) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, false
	}
	clone := *j
	return &clone, true
}

// trim drops the oldest jobs of a state beyond the retention cap.
func (s *MemStore) trim(queueName string, state State, keep int) {
	var candidates []*Job
	for _, j := range s.jobs {
		if j.Queue == queueName && j.State == state {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) <= keep {
		return
	}

	sort.Slice(candidates, func(i, k int) bool {
		return candidates[i].UpdatedAt.Before(candidates[k].UpdatedAt)
	})
	for _, j := range candidates[:len(candidates)-keep] {
		delete(s.jobs, j.ID)
	}
}
