package queries

import (
	"context"

	"fulfillment/internal/queue"
)

// GetQueueStatsQueryHandler snapshots the job counts of every queue from the
// fabric's stats reader.
type GetQueueStatsQueryHandler struct {
	stats queue.StatsReader
}

// NewGetQueueStatsQueryHandler creates a handler for queue statistics.
func NewGetQueueStatsQueryHandler(stats queue.StatsReader) GetQueueStatsQueryHandler {
	return GetQueueStatsQueryHandler{stats: stats}
}

// Handle executes the snapshot. The map is keyed by queue name.
func (h GetQueueStatsQueryHandler) Handle(
	ctx context.Context,
	query GetQueueStatsQuery,
) (map[string]queue.Stats, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.stats.AllStats(ctx)
}
