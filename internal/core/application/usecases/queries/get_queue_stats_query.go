package queries

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrGetQueueStatsQueryIsNotConstructed = errors.New(
	"GetQueueStatsQuery must be created via NewGetQueueStatsQuery constructor",
)

// GetQueueStatsQuery retrieves the per-state job counts of every queue in
// the fabric. Backs the monitoring endpoint.
type GetQueueStatsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetQueueStatsQuery creates a query for the queue statistics snapshot.
// This is a parameterless query that covers all queues.
func NewGetQueueStatsQuery() GetQueueStatsQuery {
	return GetQueueStatsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetQueueStatsQueryIsNotConstructed if validation fails.
func (q GetQueueStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetQueueStatsQueryIsNotConstructed)
}
