package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/queue"

	"github.com/robfig/cron/v3"
)

// ScheduleCleanup runs retention cleanup at minute 30 of every hour, offset
// from the delay sweep so the two hourly passes do not pile up.
const ScheduleCleanup = "0 30 * * * *"

// Retention windows for finished jobs. Failed jobs stay longer because they
// are the ones people investigate.
const (
	CompletedRetention = 24 * time.Hour
	FailedRetention    = 7 * 24 * time.Hour
)

// CleanupJob periodically removes finished jobs that fell out of their
// retention window.
type CleanupJob struct {
	store    queue.Store
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewCleanupJob creates the retention cleanup job over the queue store.
func NewCleanupJob(store queue.Store, schedule string, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		store:    store,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "cleanup_job"),
	}
}

// Start schedules the job.
func (j *CleanupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		now := time.Now().UTC()

		removed, err := j.store.Cleanup(ctx, now.Add(-CompletedRetention), now.Add(-FailedRetention))
		if err != nil {
			j.logger.ErrorContext(ctx, "Queue cleanup failed", "error", err)
			return
		}
		if removed > 0 {
			j.logger.InfoContext(ctx, "Queue cleanup removed finished jobs", "count", removed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cleanup job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *CleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Cleanup job stopped")
}
