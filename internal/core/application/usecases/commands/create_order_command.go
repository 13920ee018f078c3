package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to register a new order in the
// fulfillment pipeline. Carries the external shop reference, the customer,
// the line items, and the contact data that later drives notifications.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, "SHOP-1042", customerID, items, total, contact, 5)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, enqueuer)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	externalOrderID string
	customerID      kernel.UUID
	items           []order.Item
	total           kernel.Money
	contact         order.Contact
	priority        int

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates identifiers, requires an external reference and at least one item.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	externalOrderID string,
	customerID kernel.UUID,
	items []order.Item,
	total kernel.Money,
	contact order.Contact,
	priority int,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		contact:  contact,
		priority: priority,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setExternalOrderID(externalOrderID),
		command.setCustomerID(customerID),
		command.setItems(items),
		command.setTotal(total),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ExternalOrderID returns the reference assigned by the originating shop.
func (c CreateOrderCommand) ExternalOrderID() string {
	return c.externalOrderID
}

// CustomerID returns the customer reference.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Items returns the order line items.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

// Total returns the monetary total of the order.
func (c CreateOrderCommand) Total() kernel.Money {
	return c.total
}

// Contact returns the customer localization inputs.
func (c CreateOrderCommand) Contact() order.Contact {
	return c.contact
}

// Priority returns the queue priority requested for the order's jobs.
func (c CreateOrderCommand) Priority() int {
	return c.priority
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setExternalOrderID(externalOrderID string) error {
	if externalOrderID == "" {
		return errs.NewValueIsRequiredError("externalOrderID")
	}

	c.externalOrderID = externalOrderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}

	c.total = total
	return nil
}
