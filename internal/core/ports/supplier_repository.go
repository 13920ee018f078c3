package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/supplier"
)

// SupplierRepository defines the persistence contract for supplier aggregates.
type SupplierRepository interface {
	// Add persists a new supplier aggregate to storage.
	Add(ctx context.Context, aggregate *supplier.Supplier) error

	// Update persists changes to an existing supplier aggregate.
	Update(ctx context.Context, aggregate *supplier.Supplier) error

	// Get retrieves a supplier aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such supplier exists.
	Get(ctx context.Context, id kernel.UUID) (*supplier.Supplier, error)

	// GetAllActive retrieves every supplier currently accepting orders.
	// The router scores these candidates when assigning an order.
	GetAllActive(ctx context.Context) ([]*supplier.Supplier, error)
}
