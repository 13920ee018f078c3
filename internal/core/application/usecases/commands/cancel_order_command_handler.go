package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/queue"
)

// CancelOrderCommandHandler cancels an order and confirms the cancellation
// to the customer. When a supplier is already working on the order, it also
// schedules a best-effort stop request through the supplier-dispatch queue.
//
// Example:
//
//	handler := NewCancelOrderCommandHandler(uowFactory, enqueuer, notifier)
//	cmd, _ := NewCancelOrderCommand(orderID, "customer request")
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("cancellation failed: %w", err)
//	}
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	enqueuer   queue.Enqueuer
	notifier   OrderNotifier
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	enqueuer queue.Enqueuer,
	notifier OrderNotifier,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		enqueuer:   enqueuer,
		notifier:   notifier,
	}
}

// Handle processes the cancellation command.
// A Delivered order rejects the cancellation with an invalid-transition
// error and stays Delivered. An already Cancelled order is a no-op. The
// supplier stop request rides the dispatch queue, so its retries and
// failures never undo the local cancellation.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if aggregate.Status() == order.Cancelled {
		return nil
	}

	notifySupplier := aggregate.Supplier() != nil && engaged(aggregate.Status())

	if err = aggregate.Cancel(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.OrderCancelled(ctx, aggregate)

	if !notifySupplier {
		return nil
	}

	_, err = h.enqueuer.Enqueue(ctx, QueueSupplierDispatch, JobTypeSendOrderToSupplier,
		SendOrderPayload{
			OrderID:    aggregate.ID().String(),
			SupplierID: aggregate.Supplier().String(),
			Action:     ActionCancelOrder,
			Data:       map[string]string{"reason": cmd.Reason()},
		})
	return err
}

// engaged reports whether the supplier already knows about the order and
// must be told to stop.
func engaged(status order.Status) bool {
	return status == order.SentToSupplier || status == order.Processing
}
