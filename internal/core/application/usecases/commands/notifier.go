package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderNotifier publishes customer-facing notifications about order lifecycle
// events. Implementations enqueue the messages asynchronously; a notification
// failure never fails the command that triggered it, so handlers treat these
// calls as best-effort.
type OrderNotifier interface {
	// OrderConfirmed tells the customer the order reached the supplier.
	OrderConfirmed(ctx context.Context, o *order.Order) error

	// OrderProcessing tells the customer the supplier started preparing the order.
	OrderProcessing(ctx context.Context, o *order.Order) error

	// OrderShipped tells the customer the order shipped, including tracking data.
	OrderShipped(ctx context.Context, o *order.Order) error

	// OrderDelivered tells the customer the order arrived.
	OrderDelivered(ctx context.Context, o *order.Order) error

	// OrderCancelled confirms the cancellation to the customer.
	OrderCancelled(ctx context.Context, o *order.Order) error

	// OrderFailed tells the customer fulfillment failed and support was alerted.
	OrderFailed(ctx context.Context, o *order.Order) error

	// OrderDelayed apologizes for an order stuck longer than the delay threshold.
	OrderDelayed(ctx context.Context, o *order.Order) error
}

// AlertNotifier publishes operational alerts raised by the health inspection.
// Best-effort like OrderNotifier: a failed alert is logged and dropped.
type AlertNotifier interface {
	// OperationsAlert raises one alert with a reason and supporting details.
	OperationsAlert(ctx context.Context, reason string, details map[string]string) error
}
