// Package commlogrepo persists the supplier communication log.
package commlogrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/comms"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RecordDTO represents the database structure for communication records.
// Rows are append-only; there is no update path.
type RecordDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	SupplierID     uuid.UUID `gorm:"type:uuid"`
	Action         string
	Attempt        int
	Success        bool
	Request        string
	Response       string
	ErrorMessage   string
	ResponseTimeMs int64
	CreatedAt      time.Time `gorm:"index"`
}

// TableName specifies the database table name for communication records.
func (RecordDTO) TableName() string {
	return "communication_records"
}

// fromDomain converts a communication record to its database representation.
func fromDomain(record *comms.Record) RecordDTO {
	return RecordDTO{
		ID:             record.ID().Bytes(),
		OrderID:        record.OrderID().Bytes(),
		SupplierID:     record.SupplierID().Bytes(),
		Action:         record.Action(),
		Attempt:        record.Attempt(),
		Success:        record.Success(),
		Request:        record.Request(),
		Response:       record.Response(),
		ErrorMessage:   record.ErrMessage(),
		ResponseTimeMs: record.ResponseTimeMs(),
		CreatedAt:      record.CreatedAt(),
	}
}

// toDomain converts a database DTO to a communication record.
func toDomain(dto RecordDTO) (*comms.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	supplierID, err := kernel.UUIDFromBytes(dto.SupplierID[:])
	if err != nil {
		return nil, err
	}

	return comms.RestoreRecord(
		id,
		orderID,
		supplierID,
		dto.Action,
		dto.Attempt,
		dto.Success,
		dto.Request,
		dto.Response,
		dto.ErrorMessage,
		dto.ResponseTimeMs,
		dto.CreatedAt,
	), nil
}
