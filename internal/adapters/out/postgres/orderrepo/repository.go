package orderrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order, guarded by the optimistic-lock version.
// The row only changes when its stored version still matches the version the
// aggregate was loaded with; a mismatch means a concurrent transition won and
// surfaces as errs.VersionIsInvalidError. Items are immutable after Add and
// are not touched here.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"supplier_id":   dto.SupplierID,
			"status":        dto.Status,
			"tracking_code": dto.TrackingCode,
			"carrier":       dto.Carrier,
			"version":       dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause("order")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its items by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByExternalID retrieves an order by the upstream shop reference.
func (r *GormOrderRepository) GetByExternalID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	if externalOrderID == "" {
		return nil, errs.NewValueIsRequiredError("externalOrderID")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").
		First(&dto, "external_order_id = ?", externalOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", externalOrderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInStatus retrieves every order in the given status.
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Find(&dtos, "status = ?", status.String()).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetStuckSince retrieves orders that entered one of the given statuses
// before the cutoff and have not changed since.
func (r *GormOrderRepository) GetStuckSince(
	ctx context.Context,
	statuses []order.Status,
	cutoff time.Time,
) ([]*order.Order, error) {
	if len(statuses) == 0 {
		return nil, errs.NewValueIsRequiredError("statuses")
	}

	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		if err := status.Validate(); err != nil {
			return nil, err
		}
		names = append(names, status.String())
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status IN ? AND updated_at < ?", names, cutoff).
		Order("updated_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}
	return orders, nil
}
