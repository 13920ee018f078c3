// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the supplier gateway and
// the idempotency store. Adapters implement these interfaces, enabling
// dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and elapsed processing time.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// Implementations enforce optimistic locking on the aggregate version:
	// a concurrent modification surfaces as errs.VersionIsInvalidError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByExternalID retrieves an order by the identifier assigned by the
	// upstream sales channel. Used by webhook ingestion to deduplicate.
	GetByExternalID(ctx context.Context, externalOrderID string) (*order.Order, error)

	// GetAllInStatus retrieves every order currently in the given status.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetStuckSince retrieves orders that entered one of the given statuses
	// before the cutoff and have not moved since. Used by the delayed-order
	// detector and the reprocessing sweep.
	GetStuckSince(ctx context.Context, statuses []order.Status, cutoff time.Time) ([]*order.Order, error)
}
