package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ScheduleTrackingSync is the default tracking refresh cadence: every four
// hours, seconds field included.
const ScheduleTrackingSync = "0 0 */4 * * *"

// TrackingSyncJob periodically fans out tracking refresh jobs for every
// order that is still in flight at a supplier.
type TrackingSyncJob struct {
	handler  commands.SyncTrackingCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewTrackingSyncJob creates the tracking sync job on the given cron schedule.
func NewTrackingSyncJob(
	handler commands.SyncTrackingCommandHandler,
	schedule string,
	logger *slog.Logger,
) *TrackingSyncJob {
	return &TrackingSyncJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "tracking_sync_job"),
	}
}

// Start schedules the job.
func (j *TrackingSyncJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewSyncTrackingCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Tracking sync job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking sync job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *TrackingSyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tracking sync job stopped")
}
