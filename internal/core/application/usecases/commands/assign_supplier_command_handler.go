package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/queue"
)

// ErrNoSupplierAvailable is returned when no active supplier can take the
// order. The order stays Pending; the routing job retries later, when a
// supplier may have come back online.
var ErrNoSupplierAvailable = errors.New("no supplier available for order")

// AssignSupplierCommandHandler orchestrates supplier routing. Scores every
// active supplier against the order and records the winner on the aggregate,
// then hands the order to the supplier-dispatch queue.
//
// Example:
//
//	handler := NewAssignSupplierCommandHandler(uowFactory, router, enqueuer)
//	cmd, _ := NewAssignSupplierCommand(orderID)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoSupplierAvailable):
//	    log.Println("routing deferred, no active supplier")
//	case err != nil:
//	    log.Printf("routing failed: %v", err)
//	}
type AssignSupplierCommandHandler struct {
	uowFactory UoWFactory
	router     services.OrderRouter
	enqueuer   queue.Enqueuer
}

// NewAssignSupplierCommandHandler creates a handler for supplier routing.
// Requires a UoWFactory spanning orders and suppliers, the scoring router,
// and an Enqueuer for the dispatch job.
func NewAssignSupplierCommandHandler(
	uowFactory UoWFactory,
	router services.OrderRouter,
	enqueuer queue.Enqueuer,
) AssignSupplierCommandHandler {
	return AssignSupplierCommandHandler{
		uowFactory: uowFactory,
		router:     router,
		enqueuer:   enqueuer,
	}
}

// Handle processes the routing command.
// Loads the order and all active suppliers in one transaction, picks the
// highest-scoring supplier, and persists the assignment. An order no longer
// in Pending status is skipped: a cancellation or a concurrent routing run
// got there first, and repeating the assignment would violate the
// single-assignment rule.
func (h AssignSupplierCommandHandler) Handle(ctx context.Context, cmd AssignSupplierCommand) error {
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
	if aggregate.Status() != order.Pending {
		return nil
	}

	suppliers, err := uow.SupplierRepository().GetAllActive(ctx)
	if err != nil {
		return err
	}

	winner, err := h.router.Route(aggregate, suppliers)
	if errors.Is(err, services.ErrNoActiveSupplier) {
		return ErrNoSupplierAvailable
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_, err = h.enqueuer.Enqueue(ctx, QueueSupplierDispatch, JobTypeSendOrderToSupplier,
		SendOrderPayload{
			OrderID:    aggregate.ID().String(),
			SupplierID: winner.ID().String(),
			Action:     ActionSendOrder,
		})
	return err
}
