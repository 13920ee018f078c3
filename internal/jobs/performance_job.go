package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SchedulePerformanceCheck runs the queue health check every 30 minutes.
const SchedulePerformanceCheck = "0 */30 * * * *"

// PerformanceJob periodically inspects queue depths and failure counts and
// raises log alerts when they cross the configured thresholds.
type PerformanceJob struct {
	handler  commands.CheckPerformanceCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewPerformanceJob creates the performance monitoring job.
func NewPerformanceJob(
	handler commands.CheckPerformanceCommandHandler,
	schedule string,
	logger *slog.Logger,
) *PerformanceJob {
	return &PerformanceJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "performance_job"),
	}
}

// Start schedules the job.
func (j *PerformanceJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewCheckPerformanceCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Performance check failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Performance job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *PerformanceJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Performance job stopped")
}
