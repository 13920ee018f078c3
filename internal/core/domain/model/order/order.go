package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Contact carries the customer-facing localization inputs of an order: an
// explicit language preference (may be LanguageUnknown), a phone number in
// international format, and an ISO country code. The notification dispatcher
// resolves the recipient language from these in priority order.
type Contact struct {
	Language kernel.Language
	Phone    string
	Country  string
}

// Order is the aggregate root of the fulfillment pipeline. It tracks the
// external order reference, the customer, the line items, the supplier
// assignment, and the lifecycle status.
//
// Invariants:
//   - At most one active supplier assignment
//   - Status moves monotonically forward, except for the explicit Cancel exit
//     and the Failed -> Pending reprocessing re-entry
//   - A supplier can only be assigned while the order is Pending
//   - Tracking data is only set when the order ships
//
// The aggregate carries an optimistic-lock version; repositories guard updates
// with it so concurrent transitions against the same order cannot both apply.
type Order struct {
	id              kernel.UUID
	externalOrderID string
	customerID      kernel.UUID
	supplierID      *kernel.UUID
	items           []Item
	status          Status
	total           kernel.Money
	trackingCode    string
	carrier         string
	contact         Contact
	version         int

	isConstructed bool
}

// NewOrder creates a new Order in Pending status with no supplier assigned.
// The order must reference an external order, a customer, and at least one item.
func NewOrder(
	id kernel.UUID,
	externalOrderID string,
	customerID kernel.UUID,
	items []Item,
	total kernel.Money,
	contact Contact,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		contact:       contact,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setExternalOrderID(externalOrderID),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setTotal(total),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence without re-running the
// Pending-state initialization. The stored status and version are trusted but
// still validated.
func RestoreOrder(
	id kernel.UUID,
	externalOrderID string,
	customerID kernel.UUID,
	items []Item,
	total kernel.Money,
	contact Contact,
	status Status,
	supplierID *kernel.UUID,
	trackingCode string,
	carrier string,
	version int,
) (*Order, error) {
	o, err := NewOrder(id, externalOrderID, customerID, items, total, contact)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	o.status = status
	o.supplierID = supplierID
	o.trackingCode = trackingCode
	o.carrier = carrier
	o.version = version
	return o, nil
}

// Validate ensures the Order was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ExternalOrderID returns the reference of the order in the originating shop system.
func (o *Order) ExternalOrderID() string {
	return o.externalOrderID
}

// CustomerID returns the customer reference.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Supplier returns the assigned supplier's ID, or nil when unassigned.
func (o *Order) Supplier() *kernel.UUID {
	return o.supplierID
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Total returns the monetary total of the order.
func (o *Order) Total() kernel.Money {
	return o.total
}

// TrackingCode returns the carrier tracking code, empty until the order ships.
func (o *Order) TrackingCode() string {
	return o.trackingCode
}

// Carrier returns the carrier name, empty until the order ships.
func (o *Order) Carrier() string {
	return o.carrier
}

// Contact returns the customer localization inputs.
func (o *Order) Contact() Contact {
	return o.contact
}

// Version returns the optimistic-lock version last read from persistence.
func (o *Order) Version() int {
	return o.version
}

// AssignSupplier records the routing decision. Assignment is only legal while
// the order is Pending, which preserves the at-most-one-active-assignment
// invariant: once the order is sent, the supplier cannot change without going
// through Failed -> Reprocess first.
func (o *Order) AssignSupplier(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}
	if o.status != Pending {
		return errs.NewValueIsInvalidErrorWithCause("status",
			errs.NewInvalidStateTransitionError(o.status.String(), "supplier assignment"))
	}

	o.supplierID = &supplierID
	return nil
}

// MarkSentToSupplier advances Pending -> SentToSupplier after a successful
// gateway send. Requires a supplier assignment.
func (o *Order) MarkSentToSupplier() error {
	if o.supplierID == nil {
		return errs.NewValueIsRequiredError("supplierID")
	}

	newStatus, err := o.status.SendToSupplier()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// StartProcessing advances SentToSupplier -> Processing.
func (o *Order) StartProcessing() error {
	newStatus, err := o.status.StartProcessing()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Ship records the tracking data and advances the order to Shipped.
func (o *Order) Ship(trackingCode, carrier string) error {
	if trackingCode == "" {
		return errs.NewValueIsRequiredError("trackingCode")
	}

	newStatus, err := o.status.Ship()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.trackingCode = trackingCode
	o.carrier = carrier
	return nil
}

// Deliver advances Shipped -> Delivered, the terminal success state.
func (o *Order) Deliver() error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Cancel moves the order to Cancelled. Rejected with an invalid-transition
// error when the order is already Delivered; the order is left unchanged.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Fail moves the order to Failed, typically after the supplier gateway
// exhausted its retries.
func (o *Order) Fail() error {
	newStatus, err := o.status.Fail()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Reprocess re-enters Pending from Failed and clears the supplier assignment
// so the router can pick again.
func (o *Order) Reprocess() error {
	newStatus, err := o.status.Reprocess()
	if err != nil {
		return err
	}
	o.status = newStatus
	o.supplierID = nil
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setExternalOrderID(externalOrderID string) error {
	if externalOrderID == "" {
		return errs.NewValueIsRequiredError("externalOrderID")
	}
	o.externalOrderID = externalOrderID
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	o.total = total
	return nil
}
