package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestTrackingCommandIsNotConstructed = errors.New(
	"RequestTrackingCommand must be created via NewRequestTrackingCommand constructor",
)

// RequestTrackingCommand polls the supplier for the fulfillment progress of
// one in-flight order. Processed by the tracking-sync worker.
type RequestTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRequestTrackingCommand creates a command to poll tracking for an order.
func NewRequestTrackingCommand(orderID kernel.UUID) (RequestTrackingCommand, error) {
	command := RequestTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return RequestTrackingCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRequestTrackingCommandIsNotConstructed if validation fails.
func (c RequestTrackingCommand) Validate() error {
	return c.guard.Validate(ErrRequestTrackingCommandIsNotConstructed)
}

// OrderID returns the order to poll.
func (c RequestTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *RequestTrackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
