package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// DetectDelayedOrdersCommandHandler sweeps for orders that have sat in
// SentToSupplier or Processing beyond the delay threshold and sends each
// customer a delay notice.
type DetectDelayedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   OrderNotifier
	threshold  time.Duration
}

// NewDetectDelayedOrdersCommandHandler creates a handler for the delay sweep.
// The threshold is how long an order may sit at the supplier before the
// customer hears about it.
func NewDetectDelayedOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	notifier OrderNotifier,
	threshold time.Duration,
) DetectDelayedOrdersCommandHandler {
	return DetectDelayedOrdersCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		threshold:  threshold,
	}
}

// Handle processes the delay sweep. Read-only: the orders keep their status,
// and an order flagged in one sweep will be flagged again in the next if it
// still has not moved.
func (h DetectDelayedOrdersCommandHandler) Handle(ctx context.Context, cmd DetectDelayedOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	delayed, err := h.loadDelayed(ctx)
	if err != nil {
		return err
	}

	for _, aggregate := range delayed {
		_ = h.notifier.OrderDelayed(ctx, aggregate)
	}
	return nil
}

func (h DetectDelayedOrdersCommandHandler) loadDelayed(ctx context.Context) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().UTC().Add(-h.threshold)
	return uow.OrderRepository().GetStuckSince(ctx,
		[]order.Status{order.SentToSupplier, order.Processing}, cutoff)
}
