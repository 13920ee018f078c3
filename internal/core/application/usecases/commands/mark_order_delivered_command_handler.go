package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// MarkOrderDeliveredCommandHandler closes the order lifecycle on a delivery
// confirmation and tells the customer.
type MarkOrderDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   OrderNotifier
}

// NewMarkOrderDeliveredCommandHandler creates a handler for delivery confirmations.
func NewMarkOrderDeliveredCommandHandler(
	uowFactory OrderUoWFactory,
	notifier OrderNotifier,
) MarkOrderDeliveredCommandHandler {
	return MarkOrderDeliveredCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the delivery confirmation.
// An already Delivered order is a no-op, so duplicate carrier webhooks are
// harmless. Any other non-Shipped status rejects the confirmation with an
// invalid-transition error.
func (h MarkOrderDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkOrderDeliveredCommand) error {
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
	if aggregate.Status() == order.Delivered {
		return nil
	}

	if err = aggregate.Deliver(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.OrderDelivered(ctx, aggregate)
	return nil
}
