package queries

import (
	"context"
	"database/sql"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersByStatusQueryHandler lists orders in one status straight from the
// orders table.
type GetOrdersByStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersByStatusQueryHandler creates a handler for status listings.
// Requires a GORM database connection for query execution.
func NewGetOrdersByStatusQueryHandler(db *gorm.DB) GetOrdersByStatusQueryHandler {
	return GetOrdersByStatusQueryHandler{db: db}
}

// Handle executes the status listing.
// Results are sorted by last change, most recently touched first, which puts
// the freshest failures on top of recovery dashboards.
func (h GetOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersByStatusQuery,
) ([]GetOrdersByStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOrdersByStatusQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			external_order_id,
			status,
			supplier_id,
			tracking_code,
			carrier,
			updated_at
		FROM orders
		WHERE status = ?
		ORDER BY updated_at DESC
	`, query.Status().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrdersByStatusQueryResponse
		var id uuid.UUID
		var supplierID *uuid.UUID
		var status string
		var trackingCode, carrier sql.NullString
		var updatedAt time.Time

		err = rows.Scan(
			&id,
			&resp.ExternalOrderID,
			&status,
			&supplierID,
			&trackingCode,
			&carrier,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.Status = status
		resp.TrackingCode = trackingCode.String
		resp.Carrier = carrier.String
		resp.UpdatedAt = updatedAt

		if supplierID != nil {
			sid, sidErr := kernel.UUIDFromBytes(supplierID[:])
			if sidErr != nil {
				return nil, sidErr
			}
			resp.SupplierID = &sid
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
