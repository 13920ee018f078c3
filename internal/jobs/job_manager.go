package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/queue"
)

// Schedules carries the cron expression of every coordinator job. Zero-value
// fields fall back to the package defaults.
type Schedules struct {
	TrackingSync     string
	DelayedOrders    string
	Cleanup          string
	PerformanceCheck string
	Reprocess        string
}

func (s Schedules) withDefaults() Schedules {
	if s.TrackingSync == "" {
		s.TrackingSync = ScheduleTrackingSync
	}
	if s.DelayedOrders == "" {
		s.DelayedOrders = ScheduleDelayedOrderDetection
	}
	if s.Cleanup == "" {
		s.Cleanup = ScheduleCleanup
	}
	if s.PerformanceCheck == "" {
		s.PerformanceCheck = SchedulePerformanceCheck
	}
	if s.Reprocess == "" {
		s.Reprocess = ScheduleReprocess
	}
	return s
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs []managedJob
}

type managedJob struct {
	name  string
	start func() error
	stop  func()
}

// NewJobManager creates a job manager with every coordinator job wired.
// Takes command handlers and the queue store as dependencies.
func NewJobManager(
	trackingSyncHandler commands.SyncTrackingCommandHandler,
	delayedOrdersHandler commands.DetectDelayedOrdersCommandHandler,
	performanceHandler commands.CheckPerformanceCommandHandler,
	reprocessHandler commands.ReprocessFailedOrdersCommandHandler,
	store queue.Store,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	schedules = schedules.withDefaults()

	trackingSync := NewTrackingSyncJob(trackingSyncHandler, schedules.TrackingSync, logger)
	delayedOrders := NewDelayedOrderJob(delayedOrdersHandler, schedules.DelayedOrders, logger)
	cleanup := NewCleanupJob(store, schedules.Cleanup, logger)
	performance := NewPerformanceJob(performanceHandler, schedules.PerformanceCheck, logger)
	reprocess := NewReprocessJob(reprocessHandler, schedules.Reprocess, logger)

	return &JobManager{
		jobs: []managedJob{
			{"tracking sync", trackingSync.Start, trackingSync.Stop},
			{"delayed order detection", delayedOrders.Start, delayedOrders.Stop},
			{"queue cleanup", cleanup.Start, cleanup.Stop},
			{"performance check", performance.Start, performance.Stop},
			{"failed order reprocessing", reprocess.Start, reprocess.Stop},
		},
	}
}

// StartAll starts all scheduled jobs. If one fails to start, the already
// started jobs are stopped before returning.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				jm.jobs[j].stop()
			}
			return fmt.Errorf("failed to start %s job: %w", job.name, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].stop()
	}
}
