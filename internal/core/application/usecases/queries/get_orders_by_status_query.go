// Package queries contains read-only operations of the CQRS split. Query
// handlers bypass the aggregates and read the storage model directly, so
// listing screens never pay the aggregate reconstruction cost.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrdersByStatusQueryIsNotConstructed = errors.New(
	"GetOrdersByStatusQuery must be created via NewGetOrdersByStatusQuery constructor",
)

// GetOrdersByStatusQuery retrieves all orders in one lifecycle status.
//
// Example:
//
//	query, err := NewGetOrdersByStatusQuery(order.Failed)
//	if err != nil {
//	    return err
//	}
//	failed, err := handler.Handle(ctx, query)
type GetOrdersByStatusQuery struct { //nolint:recvcheck //using for validation
	status order.Status

	guard guard.ConstructorGuard
}

// NewGetOrdersByStatusQuery creates a query for orders in the given status.
func NewGetOrdersByStatusQuery(status order.Status) (GetOrdersByStatusQuery, error) {
	if err := status.Validate(); err != nil {
		return GetOrdersByStatusQuery{}, err
	}

	return GetOrdersByStatusQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrdersByStatusQueryIsNotConstructed if validation fails.
func (q GetOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByStatusQueryIsNotConstructed)
}

// Status returns the lifecycle status to filter by.
func (q GetOrdersByStatusQuery) Status() order.Status {
	return q.status
}

// GetOrdersByStatusQueryResponse is one order row of the status listing.
type GetOrdersByStatusQueryResponse struct {
	ID              kernel.UUID
	ExternalOrderID string
	Status          string
	SupplierID      *kernel.UUID
	TrackingCode    string
	Carrier         string
	UpdatedAt       time.Time
}
