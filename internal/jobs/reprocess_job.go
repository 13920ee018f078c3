package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ScheduleReprocess runs the failed-order recovery pass every 30 minutes,
// offset from the performance check.
const ScheduleReprocess = "0 15,45 * * * *"

// ReprocessJob periodically moves cooled-down FAILED orders back to PENDING
// and re-enqueues them into the pipeline.
type ReprocessJob struct {
	handler  commands.ReprocessFailedOrdersCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReprocessJob creates the failed-order reprocessing job.
func NewReprocessJob(
	handler commands.ReprocessFailedOrdersCommandHandler,
	schedule string,
	logger *slog.Logger,
) *ReprocessJob {
	return &ReprocessJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "reprocess_job"),
	}
}

// Start schedules the job.
func (j *ReprocessJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewReprocessFailedOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Failed order reprocessing failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reprocess job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *ReprocessJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reprocess job stopped")
}
