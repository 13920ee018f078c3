package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/queue"
)

// ReprocessFailedOrdersCommandHandler recovers orders that failed long
// enough ago. Each one re-enters Pending with its supplier assignment
// cleared and gets a fresh PROCESS_ORDER job, so routing starts over. The
// sweep also re-enqueues routing for unassigned Pending orders older than
// the cooldown, catching orders whose routing job was lost.
//
// The cooldown keeps a persistently broken supplier from being retried in a
// tight loop: an order must sit in Failed for the full cooldown before the
// sweep picks it up.
type ReprocessFailedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	enqueuer   queue.Enqueuer
	cooldown   time.Duration
}

// NewReprocessFailedOrdersCommandHandler creates a handler for the recovery
// sweep. The cooldown is how long an order must stay Failed before recovery.
func NewReprocessFailedOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	enqueuer queue.Enqueuer,
	cooldown time.Duration,
) ReprocessFailedOrdersCommandHandler {
	return ReprocessFailedOrdersCommandHandler{
		uowFactory: uowFactory,
		enqueuer:   enqueuer,
		cooldown:   cooldown,
	}
}

// Handle processes the recovery sweep.
// Failed orders flip back to Pending in one transaction; the routing jobs
// for them and for stalled unassigned orders are enqueued only after the
// commit, mirroring order intake.
func (h ReprocessFailedOrdersCommandHandler) Handle(ctx context.Context, cmd ReprocessFailedOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	cutoff := time.Now().UTC().Add(-h.cooldown)
	stuck, err := orderRepo.GetStuckSince(ctx, []order.Status{order.Failed, order.Pending}, cutoff)
	if err != nil {
		return err
	}

	var eligible []*order.Order
	for _, aggregate := range stuck {
		switch {
		case aggregate.Status() == order.Failed:
			if err = aggregate.Reprocess(); err != nil {
				return err
			}
			if err = orderRepo.Update(ctx, aggregate); err != nil {
				return err
			}
			eligible = append(eligible, aggregate)
		case aggregate.Supplier() == nil:
			// Stuck in Pending without a supplier: the routing job was
			// lost. No state change needed, just route again.
			eligible = append(eligible, aggregate)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	var failures []error
	for _, aggregate := range eligible {
		_, enqueueErr := h.enqueuer.Enqueue(ctx, QueueOrderProcessing, JobTypeProcessOrder,
			ProcessOrderPayload{
				OrderID:         aggregate.ID().String(),
				ExternalOrderID: aggregate.ExternalOrderID(),
				CustomerID:      aggregate.CustomerID().String(),
			})
		failures = append(failures, enqueueErr)
	}
	return errors.Join(failures...)
}
