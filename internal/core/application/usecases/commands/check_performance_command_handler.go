package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/queue"
)

// PerformanceThresholds are the alert levels of the health inspection.
// Crossing any of them raises an operations alert and a warning log.
type PerformanceThresholds struct {
	// MaxWaitingJobs is the per-queue backlog above which the queue is
	// considered congested.
	MaxWaitingJobs int

	// MaxFailedJobs is the per-queue count of terminally failed jobs above
	// which the queue needs operator attention.
	MaxFailedJobs int

	// MinOnTimeDeliveryRate is the minimum fraction of orders that reached
	// Delivered among delivered, failed, and overdue in-flight orders.
	// Zero disables the check.
	MinOnTimeDeliveryRate float64

	// MinSendSuccessRate is the minimum fraction of supplier calls in the
	// observation window that succeeded. Zero disables the check.
	MinSendSuccessRate float64

	// DeliveryWindow is how long an in-flight order may stay undelivered
	// before the inspection counts it as late.
	DeliveryWindow time.Duration

	// ObservationWindow bounds the communication-log sample behind the send
	// success rate.
	ObservationWindow time.Duration
}

// CheckPerformanceCommandHandler runs the periodic health inspection: queue
// depths from the fabric, the on-time delivery rate from the order store, and
// the send success rate from the communication log. Findings below threshold
// go to the structured log and to the operations alert channel.
type CheckPerformanceCommandHandler struct {
	uowFactory UoWFactory
	stats      queue.StatsReader
	alerts     AlertNotifier
	thresholds PerformanceThresholds
	logger     *slog.Logger
}

// NewCheckPerformanceCommandHandler creates a handler for the health
// inspection. alerts may be nil; findings then surface only in the log.
func NewCheckPerformanceCommandHandler(
	uowFactory UoWFactory,
	stats queue.StatsReader,
	alerts AlertNotifier,
	thresholds PerformanceThresholds,
	logger *slog.Logger,
) CheckPerformanceCommandHandler {
	return CheckPerformanceCommandHandler{
		uowFactory: uowFactory,
		stats:      stats,
		alerts:     alerts,
		thresholds: thresholds,
		logger:     logger.With("component", "performance_check"),
	}
}

// Handle processes the health inspection command.
func (h CheckPerformanceCommandHandler) Handle(ctx context.Context, cmd CheckPerformanceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.inspectQueues(ctx); err != nil {
		return err
	}
	return h.inspectRates(ctx)
}

func (h CheckPerformanceCommandHandler) inspectQueues(ctx context.Context) error {
	all, err := h.stats.AllStats(ctx)
	if err != nil {
		return err
	}

	for name, st := range all {
		switch {
		case st.Failed > h.thresholds.MaxFailedJobs:
			h.alert(ctx, "queue has too many failed jobs", map[string]string{
				"queue":     name,
				"failed":    fmt.Sprintf("%d", st.Failed),
				"threshold": fmt.Sprintf("%d", h.thresholds.MaxFailedJobs),
			})
		case st.Waiting > h.thresholds.MaxWaitingJobs:
			h.alert(ctx, "queue backlog above threshold", map[string]string{
				"queue":     name,
				"waiting":   fmt.Sprintf("%d", st.Waiting),
				"threshold": fmt.Sprintf("%d", h.thresholds.MaxWaitingJobs),
			})
		default:
			h.logger.InfoContext(ctx, "queue healthy",
				"queue", name, "waiting", st.Waiting, "active", st.Active, "failed", st.Failed)
		}
	}
	return nil
}

// inspectRates computes the on-time delivery rate and the send success rate.
// An order counts as on time when it reached Delivered; the denominator adds
// failed orders and in-flight orders older than the delivery window. The send
// success rate is the communication log's success ratio over the observation
// window.
func (h CheckPerformanceCommandHandler) inspectRates(ctx context.Context) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	delivered, err := orders.GetAllInStatus(ctx, order.Delivered)
	if err != nil {
		return err
	}
	failed, err := orders.GetAllInStatus(ctx, order.Failed)
	if err != nil {
		return err
	}
	late, err := orders.GetStuckSince(ctx,
		[]order.Status{order.SentToSupplier, order.Processing, order.Shipped},
		time.Now().UTC().Add(-h.thresholds.DeliveryWindow))
	if err != nil {
		return err
	}

	if resolved := len(delivered) + len(failed) + len(late); resolved > 0 && h.thresholds.MinOnTimeDeliveryRate > 0 {
		rate := float64(len(delivered)) / float64(resolved)
		if rate < h.thresholds.MinOnTimeDeliveryRate {
			h.alert(ctx, "on-time delivery rate below threshold", map[string]string{
				"rate":      fmt.Sprintf("%.3f", rate),
				"threshold": fmt.Sprintf("%.3f", h.thresholds.MinOnTimeDeliveryRate),
				"delivered": fmt.Sprintf("%d", len(delivered)),
				"failed":    fmt.Sprintf("%d", len(failed)),
				"late":      fmt.Sprintf("%d", len(late)),
			})
		} else {
			h.logger.InfoContext(ctx, "on-time delivery rate healthy",
				"rate", rate, "delivered", len(delivered), "failed", len(failed), "late", len(late))
		}
	}

	succeeded, failedCalls, err := uow.CommunicationLogRepository().
		CountOutcomes(ctx, time.Now().UTC().Add(-h.thresholds.ObservationWindow))
	if err != nil {
		return err
	}

	if total := succeeded + failedCalls; total > 0 && h.thresholds.MinSendSuccessRate > 0 {
		rate := float64(succeeded) / float64(total)
		if rate < h.thresholds.MinSendSuccessRate {
			h.alert(ctx, "supplier send success rate below threshold", map[string]string{
				"rate":      fmt.Sprintf("%.3f", rate),
				"threshold": fmt.Sprintf("%.3f", h.thresholds.MinSendSuccessRate),
				"succeeded": fmt.Sprintf("%d", succeeded),
				"failed":    fmt.Sprintf("%d", failedCalls),
			})
		} else {
			h.logger.InfoContext(ctx, "supplier send success rate healthy",
				"rate", rate, "succeeded", succeeded, "failed", failedCalls)
		}
	}
	return nil
}

// alert logs the finding and pushes it to the operations channel. A broken
// alert channel never fails the inspection.
func (h CheckPerformanceCommandHandler) alert(ctx context.Context, reason string, details map[string]string) {
	attrs := make([]any, 0, len(details)*2)
	for key, value := range details {
		attrs = append(attrs, key, value)
	}
	h.logger.WarnContext(ctx, reason, attrs...)

	if h.alerts == nil {
		return
	}
	if err := h.alerts.OperationsAlert(ctx, reason, details); err != nil {
		h.logger.ErrorContext(ctx, "operations alert failed", "reason", reason, "error", err)
	}
}
