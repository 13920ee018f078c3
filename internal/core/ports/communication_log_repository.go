package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/comms"
	"fulfillment/internal/core/domain/model/kernel"
)

// CommunicationLogRepository is the append-only store of supplier
// communication attempts. Records are never updated or deleted; every gateway
// attempt leaves exactly one record, whether it succeeded or not.
type CommunicationLogRepository interface {
	// Append persists one communication record.
	Append(ctx context.Context, record *comms.Record) error

	// ListByOrder retrieves all records for an order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*comms.Record, error)

	// CountOutcomes tallies attempts recorded at or after since, split into
	// succeeded and failed. Feeds the send success rate of the health
	// inspection.
	CountOutcomes(ctx context.Context, since time.Time) (succeeded, failed int64, err error)
}
