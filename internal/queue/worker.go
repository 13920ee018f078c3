package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// HandlerFunc executes one job. A nil return acknowledges the job; an error
// triggers retry scheduling unless wrapped with Terminal or the attempt
// budget is spent.
type HandlerFunc func(ctx context.Context, job *Job) error

// Defaults for the worker pool. The lease must comfortably exceed the longest
// handler (a 30s-bounded supplier call plus persistence) so live jobs are not
// stolen, while keeping stalled-job recovery reasonably fast.
const (
	DefaultConcurrency  = 4
	DefaultLease        = 60 * time.Second
	DefaultPollInterval = 250 * time.Millisecond

	// ackTimeout bounds the outcome acknowledgment. Acks run on their own
	// context: a handler that spends its whole lease must still be able to
	// record its result, otherwise the stalled sweep re-runs completed jobs
	// and failed jobs lose their error and backoff delay.
	ackTimeout = 10 * time.Second
)

// WorkerPool runs a fixed number of goroutines against one queue, each
// leasing jobs from the shared store and dispatching them to the handler
// registered for the job type.
//
// A leased job is executed by exactly one worker; if that worker dies, the
// expired lease is picked up by the manager's stalled sweep and the job
// returns to waiting.
type WorkerPool struct {
	queueName    string
	store        Store
	handlers     map[string]HandlerFunc
	concurrency  int
	lease        time.Duration
	pollInterval time.Duration
	logger       *slog.Logger

	quit chan struct{}
	wg   sync.WaitGroup
}

// PoolOption customizes a WorkerPool.
type PoolOption func(*WorkerPool)

// WithConcurrency sets the number of worker goroutines.
func WithConcurrency(n int) PoolOption {
	return func(p *WorkerPool) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLease overrides the lease duration granted per execution.
func WithLease(lease time.Duration) PoolOption {
	return func(p *WorkerPool) {
		if lease > 0 {
			p.lease = lease
		}
	}
}

// WithPollInterval overrides the idle polling interval.
func WithPollInterval(interval time.Duration) PoolOption {
	return func(p *WorkerPool) {
		if interval > 0 {
			p.pollInterval = interval
		}
	}
}

// NewWorkerPool creates a pool for one queue. Handlers are registered with
// Handle before Start.
func NewWorkerPool(queueName string, store Store, logger *slog.Logger, opts ...PoolOption) *WorkerPool {
	p := &WorkerPool{
		queueName:    queueName,
		store:        store,
		handlers:     make(map[string]HandlerFunc),
		concurrency:  DefaultConcurrency,
		lease:        DefaultLease,
		pollInterval: DefaultPollInterval,
		logger:       logger.With("component", "worker_pool", "queue", queueName),
		quit:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle registers the handler for a job type. Must be called before Start.
func (p *WorkerPool) Handle(jobType string, handler HandlerFunc) {
	p.handlers[jobType] = handler
}

// Start launches the worker goroutines. It returns immediately.
func (p *WorkerPool) Start() {
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.run()
	}
	p.logger.Info("worker pool started", "concurrency", p.concurrency)
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *WorkerPool) Stop() {
	close(p.quit)
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.quit:
			return
		default:
		}

		job, err := p.store.Lease(context.Background(), p.queueName, p.lease)
		if errors.Is(err, ErrNoJob) {
			select {
			case <-p.quit:
				return
			case <-time.After(p.pollInterval):
			}
			continue
		}
		if err != nil {
			p.logger.Error("lease failed", "error", err)
			select {
			case <-p.quit:
				return
			case <-time.After(p.pollInterval):
			}
			continue
		}

		p.execute(job)
	}
}

// execute runs the handler under a context bounded by the lease, then
// acknowledges the outcome against the store on a fresh context. The lease
// context may already be expired when the handler returns; reusing it would
// turn a successful execution into a stalled one.
func (p *WorkerPool) execute(job *Job) {
	handler, ok := p.handlers[job.Type]
	if !ok {
		p.logger.Error("no handler for job type", "type", job.Type, "job_id", job.ID)
		p.acknowledge(job, errors.New("no handler registered for type "+job.Type), true)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.lease)
	err := handler(ctx, job)
	cancel()

	if err == nil {
		ackCtx, ackCancel := context.WithTimeout(context.Background(), ackTimeout)
		defer ackCancel()
		if ackErr := p.store.Complete(ackCtx, job.ID); ackErr != nil {
			p.logger.Error("complete ack failed", "job_id", job.ID, "error", ackErr)
		}
		return
	}

	terminal := IsTerminal(err) || job.Attempts >= job.MaxAttempts
	p.acknowledge(job, err, terminal)
}

func (p *WorkerPool) acknowledge(job *Job, jobErr error, terminal bool) {
	ctx, cancel := context.WithTimeout(context.Background(), ackTimeout)
	defer cancel()
	p.finalize(ctx, job, jobErr, terminal)
}

func (p *WorkerPool) finalize(ctx context.Context, job *Job, jobErr error, terminal bool) {
	if terminal {
		p.logger.Error("job failed terminally",
			"type", job.Type, "job_id", job.ID, "attempts", job.Attempts, "error", jobErr)
		if err := p.store.Fail(ctx, job.ID, jobErr.Error()); err != nil {
			p.logger.Error("fail ack failed", "job_id", job.ID, "error", err)
		}
		return
	}

	delay := job.Backoff.Delay(job.Attempts)
	nextRunAt := time.Now().UTC().Add(delay)
	p.logger.Warn("job failed, scheduling retry",
		"type", job.Type, "job_id", job.ID, "attempts", job.Attempts,
		"next_run_in", delay, "error", jobErr)
	if err := p.store.Retry(ctx, job.ID, nextRunAt, jobErr.Error()); err != nil {
		p.logger.Error("retry ack failed", "job_id", job.ID, "error", err)
	}
}
