package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/core/ports"
)

// CancelAtSupplierCommandHandler propagates a local cancellation to the
// supplier system. Best-effort: the order is already Cancelled locally, and
// a supplier that shipped in the meantime simply ignores the stop request.
type CancelAtSupplierCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.SupplierGateway
}

// NewCancelAtSupplierCommandHandler creates a handler for cancellation propagation.
func NewCancelAtSupplierCommandHandler(
	uowFactory UoWFactory,
	gateway ports.SupplierGateway,
) CancelAtSupplierCommandHandler {
	return CancelAtSupplierCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// Handle processes the propagation command.
// Skips orders that are not Cancelled or have no supplier: the stop request
// only makes sense for a supplier that was already engaged.
func (h CancelAtSupplierCommandHandler) Handle(ctx context.Context, cmd CancelAtSupplierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, assigned, err := h.loadCancelled(ctx, cmd)
	if err != nil || aggregate == nil {
		return err
	}

	return h.gateway.CancelOrder(ctx, aggregate, assigned)
}

func (h CancelAtSupplierCommandHandler) loadCancelled(
	ctx context.Context,
	cmd CancelAtSupplierCommand,
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
	if aggregate.Status() != order.Cancelled || aggregate.Supplier() == nil {
		return nil, nil, nil
	}

	assigned, err := uow.SupplierRepository().Get(ctx, *aggregate.Supplier())
	if err != nil {
		return nil, nil, err
	}

	return aggregate, assigned, nil
}
