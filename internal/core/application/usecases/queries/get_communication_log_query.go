package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetCommunicationLogQueryIsNotConstructed = errors.New(
	"GetCommunicationLogQuery must be created via NewGetCommunicationLogQuery constructor",
)

// GetCommunicationLogQuery retrieves every supplier communication attempt
// recorded for one order, oldest first. The primary tool for investigating
// why an order failed.
type GetCommunicationLogQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCommunicationLogQuery creates a query for an order's communication history.
func NewGetCommunicationLogQuery(orderID kernel.UUID) (GetCommunicationLogQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetCommunicationLogQuery{}, err
	}

	return GetCommunicationLogQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCommunicationLogQueryIsNotConstructed if validation fails.
func (q GetCommunicationLogQuery) Validate() error {
	return q.guard.Validate(ErrGetCommunicationLogQueryIsNotConstructed)
}

// OrderID returns the order whose history is requested.
func (q GetCommunicationLogQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetCommunicationLogQueryResponse is one communication attempt.
type GetCommunicationLogQueryResponse struct {
	SupplierID     kernel.UUID
	Action         string
	Attempt        int
	Success        bool
	ErrMessage     string
	ResponseTimeMs int64
	CreatedAt      time.Time
}
