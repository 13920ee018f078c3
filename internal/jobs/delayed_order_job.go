package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ScheduleDelayedOrderDetection runs the delay sweep at the top of every hour.
const ScheduleDelayedOrderDetection = "0 0 * * * *"

// DelayedOrderJob periodically looks for orders stuck at a supplier past the
// delay threshold and notifies their customers. Detection never changes order
// state; it only produces notifications.
type DelayedOrderJob struct {
	handler  commands.DetectDelayedOrdersCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewDelayedOrderJob creates the delayed-order detection job.
func NewDelayedOrderJob(
	handler commands.DetectDelayedOrdersCommandHandler,
	schedule string,
	logger *slog.Logger,
) *DelayedOrderJob {
	return &DelayedOrderJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "delayed_order_job"),
	}
}

// Start schedules the job.
func (j *DelayedOrderJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewDetectDelayedOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Delayed order detection failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delayed order job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *DelayedOrderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Delayed order job stopped")
}
