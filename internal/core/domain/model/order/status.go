package order

import (
	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a fulfillment order.
// It implements a state machine with defined transitions so orders
// move through the pipeline in the correct sequence.
//
// State transitions:
//
//	Pending ──> SentToSupplier ──> Processing ──> Shipped ──> Delivered
//	   ▲              │                │             │
//	   │              ├────────────────┴─────────────┴──> Cancelled
//	   └── Reprocess ─┴──> Failed ──> (Cancelled)
//
// Cancelled is reachable from every state except Delivered. Failed is
// reachable from every non-terminal state and re-enters Pending only through
// the explicit Reprocess transition. Delivered is terminal.
//
// Status is a value object: transition methods return the next status and never
// mutate the receiver. The status-to-name mapping is a switch over the closed
// enum so an unhandled case fails to compile rather than falling through a map
// lookup.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order awaits supplier assignment.
	Pending

	// SentToSupplier indicates the order was accepted by the supplier endpoint.
	SentToSupplier

	// Processing indicates the supplier confirmed it is preparing the order.
	Processing

	// Shipped indicates a tracking code was obtained and the parcel is in transit.
	Shipped

	// Delivered indicates the customer received the order. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled before delivery. Terminal.
	Cancelled

	// Failed indicates supplier communication was exhausted or processing
	// aborted. Recoverable only through Reprocess.
	Failed
)

// String returns the wire/persistence name of the status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case SentToSupplier:
		return "SENT_TO_SUPPLIER"
	case Processing:
		return "PROCESSING"
	case Shipped:
		return "SHIPPED"
	case Delivered:
		return "DELIVERED"
	case Cancelled:
		return "CANCELLED"
	case Failed:
		return "FAILED"
	case Unknown:
		return "UNKNOWN"
	}
	return "UNKNOWN"
}

// StatusFromString parses a persisted status name. Unrecognized names yield
// Unknown, which fails Validate.
func StatusFromString(name string) Status {
	switch name {
	case "PENDING":
		return Pending
	case "SENT_TO_SUPPLIER":
		return SentToSupplier
	case "PROCESSING":
		return Processing
	case "SHIPPED":
		return Shipped
	case "DELIVERED":
		return Delivered
	case "CANCELLED":
		return Cancelled
	case "FAILED":
		return Failed
	}
	return Unknown
}

// Validate checks that the Status value belongs to the defined set.
func (s Status) Validate() error {
	switch s {
	case Pending, SentToSupplier, Processing, Shipped, Delivered, Cancelled, Failed:
		return nil
	case Unknown:
	}
	return errs.NewValueIsInvalidError("status")
}

// IsTerminal reports whether no further forward transition is possible.
// Failed is not terminal: it can re-enter Pending via Reprocess and can still
// be cancelled.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// transition centralizes the rejected-edge error so every transition method
// reports the same way.
func (s Status) transition(to Status, allowed bool) (Status, error) {
	if !allowed {
		return 0, errs.NewInvalidStateTransitionError(s.String(), to.String())
	}
	return to, nil
}

// SendToSupplier transitions Pending -> SentToSupplier.
func (s Status) SendToSupplier() (Status, error) {
	return s.transition(SentToSupplier, s == Pending)
}

// StartProcessing transitions SentToSupplier -> Processing.
func (s Status) StartProcessing() (Status, error) {
	return s.transition(Processing, s == SentToSupplier)
}

// Ship transitions to Shipped. Allowed from SentToSupplier as well as
// Processing: suppliers that never report an intermediate processing state go
// straight from acceptance to a tracking code.
func (s Status) Ship() (Status, error) {
	return s.transition(Shipped, s == SentToSupplier || s == Processing)
}

// Deliver transitions Shipped -> Delivered.
func (s Status) Deliver() (Status, error) {
	return s.transition(Delivered, s == Shipped)
}

// Cancel transitions to Cancelled from every state except Delivered,
// Cancelled itself, and Unknown. A cancel request against a Delivered order is
// rejected and the order is left unchanged.
func (s Status) Cancel() (Status, error) {
	switch s {
	case Pending, SentToSupplier, Processing, Shipped, Failed:
		return Cancelled, nil
	case Delivered, Cancelled, Unknown:
	}
	return 0, errs.NewInvalidStateTransitionError(s.String(), Cancelled.String())
}

// Fail transitions to Failed from any non-terminal, non-failed state.
func (s Status) Fail() (Status, error) {
	switch s {
	case Pending, SentToSupplier, Processing, Shipped:
		return Failed, nil
	case Delivered, Cancelled, Failed, Unknown:
	}
	return 0, errs.NewInvalidStateTransitionError(s.String(), Failed.String())
}

// Reprocess transitions Failed -> Pending. This is the only path out of
// Failed besides cancellation, used by the scheduled reprocessing pass.
func (s Status) Reprocess() (Status, error) {
	return s.transition(Pending, s == Failed)
}
