package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignSupplierCommandIsNotConstructed = errors.New(
	"AssignSupplierCommand must be created via NewAssignSupplierCommand constructor",
)

// AssignSupplierCommand requests supplier routing for one pending order.
// Processed by the order-processing worker after order intake.
type AssignSupplierCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignSupplierCommand creates a command to route an order to a supplier.
func NewAssignSupplierCommand(orderID kernel.UUID) (AssignSupplierCommand, error) {
	command := AssignSupplierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return AssignSupplierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignSupplierCommandIsNotConstructed if validation fails.
func (c AssignSupplierCommand) Validate() error {
	return c.guard.Validate(ErrAssignSupplierCommandIsNotConstructed)
}

// OrderID returns the order to route.
func (c AssignSupplierCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *AssignSupplierCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
