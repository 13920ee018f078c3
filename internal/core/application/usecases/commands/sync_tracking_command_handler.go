package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/queue"
)

// SyncTrackingCommandHandler fans the periodic tracking sweep out into one
// poll job per in-flight order. The polls themselves run on the
// tracking-sync queue so a slow supplier only delays its own orders.
type SyncTrackingCommandHandler struct {
	uowFactory OrderUoWFactory
	enqueuer   queue.Enqueuer
}

// NewSyncTrackingCommandHandler creates a handler for the tracking sweep.
func NewSyncTrackingCommandHandler(uowFactory OrderUoWFactory, enqueuer queue.Enqueuer) SyncTrackingCommandHandler {
	return SyncTrackingCommandHandler{
		uowFactory: uowFactory,
		enqueuer:   enqueuer,
	}
}

// Handle processes the sweep command.
// Reads the in-flight orders in one read-only transaction and enqueues a
// SYNC_TRACKING job for each after the transaction ends. Enqueue failures
// are collected rather than aborting the sweep, so one bad order does not
// starve the rest of their polls.
func (h SyncTrackingCommandHandler) Handle(ctx context.Context, cmd SyncTrackingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orders, err := h.loadInFlight(ctx)
	if err != nil {
		return err
	}

	var failures []error
	for _, aggregate := range orders {
		_, enqueueErr := h.enqueuer.Enqueue(ctx, QueueTrackingSync, JobTypeSyncTracking,
			SyncTrackingPayload{
				OrderID:      aggregate.ID().String(),
				TrackingCode: aggregate.TrackingCode(),
				Carrier:      aggregate.Carrier(),
			})
		failures = append(failures, enqueueErr)
	}
	return errors.Join(failures...)
}

func (h SyncTrackingCommandHandler) loadInFlight(ctx context.Context) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	var orders []*order.Order
	for _, status := range []order.Status{order.SentToSupplier, order.Processing, order.Shipped} {
		batch, err := orderRepo.GetAllInStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		orders = append(orders, batch...)
	}
	return orders, nil
}
