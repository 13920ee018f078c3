package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
)

// SendResult is the supplier system's acknowledgement of an order submission.
type SendResult struct {
	ConfirmationID    string
	EstimatedDelivery *time.Time
}

// Normalized fulfillment statuses reported by supplier systems. The gateway
// adapter maps each supplier's vocabulary onto these values.
const (
	TrackingStatusProcessing = "processing"
	TrackingStatusShipped    = "shipped"
	TrackingStatusDelivered  = "delivered"
	TrackingStatusUnknown    = "unknown"
)

// TrackingResult is the supplier system's answer to a tracking request.
type TrackingResult struct {
	TrackingCode string
	Carrier      string
	Status       string
}

// SupplierGateway is the outbound port to external supplier systems. The
// adapter behind it owns retries, locale adaptation of the outgoing payload,
// idempotency keys, and communication logging; callers see either a final
// result or an error after the retry budget is spent.
//
// Errors:
//   - errs.SupplierCommunicationError: all attempts failed; the order should
//     move to Failed and the failure be reported.
type SupplierGateway interface {
	// SendOrder submits the order to the assigned supplier's system.
	SendOrder(ctx context.Context, o *order.Order, s *supplier.Supplier) (*SendResult, error)

	// RequestTracking asks the supplier for the shipment tracking data of an
	// order previously sent with SendOrder.
	RequestTracking(ctx context.Context, o *order.Order, s *supplier.Supplier) (*TrackingResult, error)

	// CancelOrder tells the supplier to stop fulfilling an order. Best-effort:
	// an already shipped order cannot be recalled.
	CancelOrder(ctx context.Context, o *order.Order, s *supplier.Supplier) error
}
