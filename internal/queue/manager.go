package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultStalledSweepInterval is how often the manager returns expired-lease
// jobs to the waiting state. Half the default lease keeps worst-case stalled
// recovery under one lease period.
const DefaultStalledSweepInterval = 30 * time.Second

// Manager coordinates the worker pools of every queue plus the shared stalled
// sweep. Provides a unified start/stop interface for the composition root.
type Manager struct {
	store         Store
	pools         []*WorkerPool
	sweepInterval time.Duration
	logger        *slog.Logger

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewManager creates a manager over the shared store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:         store,
		sweepInterval: DefaultStalledSweepInterval,
		logger:        logger.With("component", "queue_manager"),
		quit:          make(chan struct{}),
	}
}

// AddPool registers a worker pool to be started with the manager.
func (m *Manager) AddPool(pool *WorkerPool) {
	m.pools = append(m.pools, pool)
}

// SetSweepInterval overrides the stalled-sweep interval. Must be called
// before StartAll.
func (m *Manager) SetSweepInterval(interval time.Duration) {
	if interval > 0 {
		m.sweepInterval = interval
	}
}

// StartAll starts every registered pool and the stalled-job sweeper.
func (m *Manager) StartAll() {
	for _, pool := range m.pools {
		pool.Start()
	}

	m.wg.Add(1)
	go m.sweepStalled()

	m.logger.Info("queue manager started", "pools", len(m.pools))
}

// StopAll stops the sweeper and all pools, waiting for in-flight jobs.
func (m *Manager) StopAll() {
	close(m.quit)
	m.wg.Wait()

	for _, pool := range m.pools {
		pool.Stop()
	}
	m.logger.Info("queue manager stopped")
}

func (m *Manager) sweepStalled() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.quit:
			return
		case <-ticker.C:
			requeued, err := m.store.RequeueStalled(context.Background())
			if err != nil {
				m.logger.Error("stalled sweep failed", "error", err)
				continue
			}
			if requeued > 0 {
				m.logger.Warn("requeued stalled jobs", "count", requeued)
			}
		}
	}
}
