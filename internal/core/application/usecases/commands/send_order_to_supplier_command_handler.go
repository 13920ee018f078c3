package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// SendOrderToSupplierCommandHandler transmits a routed order to the assigned
// supplier's system through the gateway and records the outcome on the
// aggregate.
//
// The supplier call happens outside any transaction: it can take tens of
// seconds across the gateway's retry cycle, and holding a database
// transaction open that long would serialize the whole dispatch queue. The
// order status is re-read afterwards, so a cancellation that landed during
// the call wins over the send result.
type SendOrderToSupplierCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.SupplierGateway
	notifier   OrderNotifier
}

// NewSendOrderToSupplierCommandHandler creates a handler for order transmission.
func NewSendOrderToSupplierCommandHandler(
	uowFactory UoWFactory,
	gateway ports.SupplierGateway,
	notifier OrderNotifier,
) SendOrderToSupplierCommandHandler {
	return SendOrderToSupplierCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
	}
}

// Handle processes the transmission command.
// Orders no longer in Pending status are skipped: either the send already
// happened (duplicate job delivery) or the order was cancelled while queued.
// When the gateway exhausts its retry budget the order moves to Failed and
// the customer is told; the command itself then succeeds, because re-running
// it would not change the outcome.
func (h SendOrderToSupplierCommandHandler) Handle(ctx context.Context, cmd SendOrderToSupplierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, assigned, err := h.loadForSend(ctx, cmd)
	if err != nil || aggregate == nil {
		return err
	}

	_, sendErr := h.gateway.SendOrder(ctx, aggregate, assigned)

	var commErr *errs.SupplierCommunicationError
	switch {
	case sendErr == nil:
		return h.markSent(ctx, cmd)
	case errors.As(sendErr, &commErr):
		return h.markFailed(ctx, cmd)
	default:
		return sendErr
	}
}

// loadForSend reads the order and its assigned supplier. Returns a nil
// aggregate when the send should be skipped.
func (h SendOrderToSupplierCommandHandler) loadForSend(
	ctx context.Context,
	cmd SendOrderToSupplierCommand,
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
	if aggregate.Status() != order.Pending {
		return nil, nil, nil
	}
	if aggregate.Supplier() == nil {
		return nil, nil, errs.NewValueIsRequiredError("supplierID")
	}

	assigned, err := uow.SupplierRepository().Get(ctx, *aggregate.Supplier())
	if err != nil {
		return nil, nil, err
	}

	return aggregate, assigned, nil
}

// markSent advances the re-read order to SentToSupplier. If the order was
// cancelled while the gateway call was in flight, the supplier is told to
// stop instead.
func (h SendOrderToSupplierCommandHandler) markSent(ctx context.Context, cmd SendOrderToSupplierCommand) error {
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
		assigned, supplierErr := uow.SupplierRepository().Get(ctx, *aggregate.Supplier())
		if supplierErr != nil {
			return supplierErr
		}
		return h.gateway.CancelOrder(ctx, aggregate, assigned)
	}

	if err = aggregate.MarkSentToSupplier(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.OrderConfirmed(ctx, aggregate)
	return nil
}

// markFailed moves the order to Failed after the gateway spent its retries.
func (h SendOrderToSupplierCommandHandler) markFailed(ctx context.Context, cmd SendOrderToSupplierCommand) error {
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
	if aggregate.Status().IsTerminal() {
		return nil
	}

	if err = aggregate.Fail(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.OrderFailed(ctx, aggregate)
	return nil
}
