package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/queue"
)

// ErrOrderAlreadyExists is returned when the external order reference was
// already registered. Webhook retries hit this path; callers treat it as a
// successful duplicate delivery.
var ErrOrderAlreadyExists = errors.New("order with this external reference already exists")

// CreateOrderCommandHandler handles the business logic for order intake.
// Persists the new order in Pending status and enqueues a PROCESS_ORDER job
// so routing happens asynchronously.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, enqueuer)
//	cmd, _ := NewCreateOrderCommand(orderID, "SHOP-1042", customerID, items, total, contact, 0)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order intake failed: %w", err)
//	}
//	// Order is persisted and queued for supplier routing
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	enqueuer   queue.Enqueuer
}

// NewCreateOrderCommandHandler creates a handler for order intake operations.
// Requires an OrderUoWFactory for transactional persistence and an Enqueuer
// for scheduling the routing job.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, enqueuer queue.Enqueuer) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		enqueuer:   enqueuer,
	}
}

// Handle processes the order intake command.
// Rejects duplicate external references, persists the order, commits, and
// only then enqueues the PROCESS_ORDER job: a job must never reference an
// order that a rollback could erase.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	_, err := orderRepo.GetByExternalID(ctx, cmd.ExternalOrderID())
	if err == nil {
		return ErrOrderAlreadyExists
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.ExternalOrderID(),
		cmd.CustomerID(),
		cmd.Items(),
		cmd.Total(),
		cmd.Contact(),
	)
	if err != nil {
		return err
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_, err = h.enqueuer.Enqueue(ctx, QueueOrderProcessing, JobTypeProcessOrder,
		ProcessOrderPayload{
			OrderID:         cmd.OrderID().String(),
			ExternalOrderID: cmd.ExternalOrderID(),
			CustomerID:      cmd.CustomerID().String(),
			Priority:        cmd.Priority(),
		},
		queue.WithPriority(cmd.Priority()),
	)
	return err
}
