package commlogrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/comms"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCommunicationLogRepository implements CommunicationLogRepository using GORM.
type GormCommunicationLogRepository struct {
	db *gorm.DB
}

// NewGormCommunicationLogRepository creates a new GORM communication log repository.
func NewGormCommunicationLogRepository(db *gorm.DB) *GormCommunicationLogRepository {
	return &GormCommunicationLogRepository{db: db}
}

// Append stores one communication attempt.
func (r *GormCommunicationLogRepository) Append(ctx context.Context, record *comms.Record) error {
	if record == nil {
		return errs.NewValueIsRequiredError("record")
	}

	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder retrieves every communication attempt for an order, oldest first.
func (r *GormCommunicationLogRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*comms.Record, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RecordDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]*comms.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// CountOutcomes tallies attempts recorded at or after since, split by outcome.
func (r *GormCommunicationLogRepository) CountOutcomes(
	ctx context.Context, since time.Time,
) (succeeded, failed int64, err error) {
	err = r.db.WithContext(ctx).
		Model(&RecordDTO{}).
		Where("created_at >= ? AND success = ?", since, true).
		Count(&succeeded).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.WithContext(ctx).
		Model(&RecordDTO{}).
		Where("created_at >= ? AND success = ?", since, false).
		Count(&failed).Error
	if err != nil {
		return 0, 0, err
	}
	return succeeded, failed, nil
}
