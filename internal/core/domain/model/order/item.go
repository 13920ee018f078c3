package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Item is a line item of an order: a SKU, a quantity, and a unit price.
// For multi-supplier orders an item may carry its own supplier reference,
// distinct from the order-level assignment.
type Item struct {
	sku        string
	quantity   int
	unitPrice  kernel.Money
	supplierID *kernel.UUID
}

// NewItem creates a validated line item. SKU must be non-empty and quantity positive.
func NewItem(sku string, quantity int, unitPrice kernel.Money) (Item, error) {
	if sku == "" {
		return Item{}, errs.NewValueIsRequiredError("sku")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := unitPrice.Validate(); err != nil {
		return Item{}, err
	}

	return Item{
		sku:       sku,
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

// RestoreItem reconstructs an item from persistence, including an optional
// item-level supplier reference.
func RestoreItem(sku string, quantity int, unitPrice kernel.Money, supplierID *kernel.UUID) (Item, error) {
	item, err := NewItem(sku, quantity, unitPrice)
	if err != nil {
		return Item{}, err
	}
	item.supplierID = supplierID
	return item, nil
}

// SKU returns the stock keeping unit.
func (i Item) SKU() string {
	return i.sku
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price of a single unit.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Supplier returns the item-level supplier reference, or nil when the item
// follows the order-level assignment.
func (i Item) Supplier() *kernel.UUID {
	return i.supplierID
}

// AssignSupplier pins this item to a specific supplier for split fulfillment.
func (i *Item) AssignSupplier(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}
	i.supplierID = &supplierID
	return nil
}
