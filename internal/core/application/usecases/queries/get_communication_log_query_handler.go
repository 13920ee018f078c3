package queries

import (
	"context"
	"database/sql"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCommunicationLogQueryHandler reads an order's communication history
// straight from the log table.
type GetCommunicationLogQueryHandler struct {
	db *gorm.DB
}

// NewGetCommunicationLogQueryHandler creates a handler for communication
// history lookups. Requires a GORM database connection for query execution.
func NewGetCommunicationLogQueryHandler(db *gorm.DB) GetCommunicationLogQueryHandler {
	return GetCommunicationLogQueryHandler{db: db}
}

// Handle executes the history lookup. Attempts come back oldest first, so
// the rows read as the chronological story of the order.
func (h GetCommunicationLogQueryHandler) Handle(
	ctx context.Context,
	query GetCommunicationLogQuery,
) ([]GetCommunicationLogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetCommunicationLogQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			supplier_id,
			action,
			attempt,
			success,
			error_message,
			response_time_ms,
			created_at
		FROM communication_records
		WHERE order_id = ?
		ORDER BY created_at
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetCommunicationLogQueryResponse
		var supplierID uuid.UUID
		var errMessage sql.NullString
		var createdAt time.Time

		err = rows.Scan(
			&supplierID,
			&resp.Action,
			&resp.Attempt,
			&resp.Success,
			&errMessage,
			&resp.ResponseTimeMs,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		sid, sidErr := kernel.UUIDFromBytes(supplierID[:])
		if sidErr != nil {
			return nil, sidErr
		}
		resp.SupplierID = sid
		resp.ErrMessage = errMessage.String
		resp.CreatedAt = createdAt

		records = append(records, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
