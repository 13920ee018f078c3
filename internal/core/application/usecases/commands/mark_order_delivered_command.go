package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkOrderDeliveredCommandIsNotConstructed = errors.New(
	"MarkOrderDeliveredCommand must be created via NewMarkOrderDeliveredCommand constructor",
)

// MarkOrderDeliveredCommand records the delivery confirmation of a shipped
// order, typically driven by a carrier webhook.
type MarkOrderDeliveredCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkOrderDeliveredCommand creates a command to confirm delivery.
func NewMarkOrderDeliveredCommand(orderID kernel.UUID) (MarkOrderDeliveredCommand, error) {
	command := MarkOrderDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return MarkOrderDeliveredCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkOrderDeliveredCommandIsNotConstructed if validation fails.
func (c MarkOrderDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderDeliveredCommandIsNotConstructed)
}

// OrderID returns the delivered order.
func (c MarkOrderDeliveredCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *MarkOrderDeliveredCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
