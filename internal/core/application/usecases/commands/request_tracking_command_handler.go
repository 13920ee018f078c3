package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/queue"
)

// shipFollowUpDelay schedules the first delivery poll after an order ships,
// well ahead of the next periodic sweep.
const shipFollowUpDelay = 30 * time.Minute

// RequestTrackingCommandHandler polls the supplier for one order's progress
// and advances the aggregate to match: SentToSupplier orders start
// processing, processed orders ship with their tracking data, shipped orders
// deliver. The customer hears about each milestone crossed, and a shipped
// order gets a follow-up poll enqueued for its delivery.
//
// Like the transmission handler, the supplier call runs outside the
// transaction and the order is re-read before any state change.
type RequestTrackingCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.SupplierGateway
	notifier   OrderNotifier
	enqueuer   queue.Enqueuer
}

// NewRequestTrackingCommandHandler creates a handler for tracking polls.
func NewRequestTrackingCommandHandler(
	uowFactory UoWFactory,
	gateway ports.SupplierGateway,
	notifier OrderNotifier,
	enqueuer queue.Enqueuer,
) RequestTrackingCommandHandler {
	return RequestTrackingCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
		enqueuer:   enqueuer,
	}
}

// Handle processes the tracking poll.
// Orders that are Pending, terminal, or Failed are skipped. A tracking
// answer that does not move the order forward is ignored, so repeated polls
// are harmless.
func (h RequestTrackingCommandHandler) Handle(ctx context.Context, cmd RequestTrackingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, assigned, err := h.loadInFlight(ctx, cmd)
	if err != nil || aggregate == nil {
		return err
	}

	result, err := h.gateway.RequestTracking(ctx, aggregate, assigned)
	if err != nil {
		return err
	}
	if result.Status == ports.TrackingStatusUnknown {
		return nil
	}

	return h.apply(ctx, cmd, result)
}

func (h RequestTrackingCommandHandler) loadInFlight(
	ctx context.Context,
	cmd RequestTrackingCommand,
) (*order.Order, *supplier.Supplier, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}
	if !inFlight(aggregate.Status()) || aggregate.Supplier() == nil {
		return nil, nil, nil
	}

	assigned, err := uow.SupplierRepository().Get(ctx, *aggregate.Supplier())
	if err != nil {
		return nil, nil, err
	}

	return aggregate, assigned, nil
}

// apply re-reads the order and walks it forward to the status the supplier
// reported, one transition at a time.
func (h RequestTrackingCommandHandler) apply(
	ctx context.Context,
	cmd RequestTrackingCommand,
	result *ports.TrackingResult,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !inFlight(aggregate.Status()) {
		return nil
	}

	before := aggregate.Status()
	shipped, delivered, err := advance(aggregate, result)
	if err != nil {
		return err
	}
	if aggregate.Status() == before {
		return nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if aggregate.Status() == order.Processing {
		_ = h.notifier.OrderProcessing(ctx, aggregate)
	}
	if shipped {
		_ = h.notifier.OrderShipped(ctx, aggregate)
		if !delivered {
			h.enqueueDeliveryPoll(ctx, aggregate)
		}
	}
	if delivered {
		_ = h.notifier.OrderDelivered(ctx, aggregate)
	}
	return nil
}

// enqueueDeliveryPoll schedules the next tracking poll for a freshly shipped
// order. Best-effort: the periodic sweep covers the order either way.
func (h RequestTrackingCommandHandler) enqueueDeliveryPoll(ctx context.Context, aggregate *order.Order) {
	_, _ = h.enqueuer.Enqueue(ctx, QueueTrackingSync, JobTypeSyncTracking,
		SyncTrackingPayload{
			OrderID:      aggregate.ID().String(),
			TrackingCode: aggregate.TrackingCode(),
			Carrier:      aggregate.Carrier(),
		},
		queue.WithDelay(shipFollowUpDelay))
}

// advance moves the aggregate towards the reported status. Reports which
// customer-facing milestones were crossed.
func advance(aggregate *order.Order, result *ports.TrackingResult) (shipped, delivered bool, err error) {
	if aggregate.Status() == order.SentToSupplier {
		if err = aggregate.StartProcessing(); err != nil {
			return false, false, err
		}
	}
	if result.Status == ports.TrackingStatusProcessing {
		return false, false, nil
	}

	if aggregate.Status() == order.Processing {
		if err = aggregate.Ship(result.TrackingCode, result.Carrier); err != nil {
			return false, false, err
		}
		shipped = true
	}
	if result.Status == ports.TrackingStatusShipped {
		return shipped, false, nil
	}

	if aggregate.Status() == order.Shipped && result.Status == ports.TrackingStatusDelivered {
		if err = aggregate.Deliver(); err != nil {
			return shipped, false, err
		}
		delivered = true
	}
	return shipped, delivered, nil
}

// inFlight reports whether the order is between transmission and delivery,
// the window where tracking polls are meaningful.
func inFlight(status order.Status) bool {
	return status == order.SentToSupplier || status == order.Processing || status == order.Shipped
}
