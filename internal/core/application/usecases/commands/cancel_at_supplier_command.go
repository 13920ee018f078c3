package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelAtSupplierCommandIsNotConstructed = errors.New(
	"CancelAtSupplierCommand must be created via NewCancelAtSupplierCommand constructor",
)

// CancelAtSupplierCommand tells the supplier system to stop fulfilling an
// already cancelled order. Processed by the supplier-dispatch worker.
type CancelAtSupplierCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelAtSupplierCommand creates a command to propagate a cancellation.
func NewCancelAtSupplierCommand(orderID kernel.UUID, reason string) (CancelAtSupplierCommand, error) {
	command := CancelAtSupplierCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return CancelAtSupplierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelAtSupplierCommandIsNotConstructed if validation fails.
func (c CancelAtSupplierCommand) Validate() error {
	return c.guard.Validate(ErrCancelAtSupplierCommandIsNotConstructed)
}

// OrderID returns the cancelled order.
func (c CancelAtSupplierCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the cancellation reason, possibly empty.
func (c CancelAtSupplierCommand) Reason() string {
	return c.reason
}

func (c *CancelAtSupplierCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
