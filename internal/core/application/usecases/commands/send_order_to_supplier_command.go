package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrSendOrderToSupplierCommandIsNotConstructed = errors.New(
	"SendOrderToSupplierCommand must be created via NewSendOrderToSupplierCommand constructor",
)

// SendOrderToSupplierCommand requests transmission of a routed order to its
// assigned supplier's system. Processed by the supplier-dispatch worker.
type SendOrderToSupplierCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSendOrderToSupplierCommand creates a command to transmit an order.
func NewSendOrderToSupplierCommand(orderID kernel.UUID) (SendOrderToSupplierCommand, error) {
	command := SendOrderToSupplierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return SendOrderToSupplierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSendOrderToSupplierCommandIsNotConstructed if validation fails.
func (c SendOrderToSupplierCommand) Validate() error {
	return c.guard.Validate(ErrSendOrderToSupplierCommandIsNotConstructed)
}

// OrderID returns the order to transmit.
func (c SendOrderToSupplierCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *SendOrderToSupplierCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
