package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/notification"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/queue"
)

// CreateQueueManager registers a worker pool per queue and wires every job
// type to its command handler. Payload and state errors that a retry cannot
// fix are marked terminal so the fabric fails the job instead of rescheduling
// it.
func (c *CompositionRoot) CreateQueueManager() *queue.Manager {
	manager := queue.NewManager(c.store, c.logger)

	processing := queue.NewWorkerPool(commands.QueueOrderProcessing, c.store, c.logger)
	processing.Handle(commands.JobTypeProcessOrder, c.processOrderJob())
	manager.AddPool(processing)

	dispatch := queue.NewWorkerPool(commands.QueueSupplierDispatch, c.store, c.logger)
	dispatch.Handle(commands.JobTypeSendOrderToSupplier, c.supplierDispatchJob())
	manager.AddPool(dispatch)

	tracking := queue.NewWorkerPool(commands.QueueTrackingSync, c.store, c.logger)
	tracking.Handle(commands.JobTypeSyncTracking, c.trackingSyncJob())
	manager.AddPool(tracking)

	sender := notification.NewSlogSender(c.logger)
	for _, channel := range []string{
		notification.QueueWhatsApp,
		notification.QueueEmail,
		notification.QueueSMS,
	} {
		pool := queue.NewWorkerPool(channel, c.store, c.logger)
		pool.Handle(notification.JobTypeSendNotification, notification.Handler(sender))
		manager.AddPool(pool)
	}

	return manager
}

func (c *CompositionRoot) processOrderJob() queue.HandlerFunc {
	handler := c.CreateAssignSupplierCommandHandler()

	return func(ctx context.Context, job *queue.Job) error {
		var payload commands.ProcessOrderPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return queue.Terminal(fmt.Errorf("decode process-order payload: %w", err))
		}

		orderID, err := kernel.UUIDFromString(payload.OrderID)
		if err != nil {
			return queue.Terminal(err)
		}
		cmd, err := commands.NewAssignSupplierCommand(orderID)
		if err != nil {
			return queue.Terminal(err)
		}

		return classify(handler.Handle(ctx, cmd))
	}
}

func (c *CompositionRoot) supplierDispatchJob() queue.HandlerFunc {
	sendHandler := c.CreateSendOrderToSupplierCommandHandler()
	trackingHandler := c.CreateRequestTrackingCommandHandler()
	cancelHandler := c.CreateCancelAtSupplierCommandHandler()

	return func(ctx context.Context, job *queue.Job) error {
		var payload commands.SendOrderPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return queue.Terminal(fmt.Errorf("decode supplier-dispatch payload: %w", err))
		}

		orderID, err := kernel.UUIDFromString(payload.OrderID)
		if err != nil {
			return queue.Terminal(err)
		}

		switch payload.Action {
		case commands.ActionSendOrder:
			cmd, err := commands.NewSendOrderToSupplierCommand(orderID)
			if err != nil {
				return queue.Terminal(err)
			}
			return classify(sendHandler.Handle(ctx, cmd))
		case commands.ActionRequestTracking:
			cmd, err := commands.NewRequestTrackingCommand(orderID)
			if err != nil {
				return queue.Terminal(err)
			}
			return classify(trackingHandler.Handle(ctx, cmd))
		case commands.ActionCancelOrder:
			cmd, err := commands.NewCancelAtSupplierCommand(orderID, payload.Data["reason"])
			if err != nil {
				return queue.Terminal(err)
			}
			return classify(cancelHandler.Handle(ctx, cmd))
		default:
			return queue.Terminal(fmt.Errorf("unknown supplier-dispatch action %q", payload.Action))
		}
	}
}

func (c *CompositionRoot) trackingSyncJob() queue.HandlerFunc {
	handler := c.CreateRequestTrackingCommandHandler()

	return func(ctx context.Context, job *queue.Job) error {
		var payload commands.SyncTrackingPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return queue.Terminal(fmt.Errorf("decode tracking-sync payload: %w", err))
		}

		orderID, err := kernel.UUIDFromString(payload.OrderID)
		if err != nil {
			return queue.Terminal(err)
		}
		cmd, err := commands.NewRequestTrackingCommand(orderID)
		if err != nil {
			return queue.Terminal(err)
		}

		return classify(handler.Handle(ctx, cmd))
	}
}

// classify decides whether a handler error is worth retrying. A missing
// aggregate or a state machine refusal will not change on a later attempt;
// everything else (supplier outages, lock conflicts, transient infra) is left
// to the backoff schedule.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrInvalidStateTransition),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired):
		return queue.Terminal(err)
	default:
		return err
	}
}
